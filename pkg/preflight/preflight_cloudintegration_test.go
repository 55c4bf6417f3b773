//go:build cloudintegration

package preflight_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/sharelink/pkg/preflight"
	providers3 "github.com/3leaps/sharelink/pkg/provider/s3"
	"github.com/3leaps/sharelink/test/cloudtest"
)

func newProvider(t *testing.T, ctx context.Context, bucket string) *providers3.Provider {
	t.Helper()
	p, err := providers3.New(ctx, providers3.Config{
		Bucket:          bucket,
		Endpoint:        cloudtest.Endpoint,
		Region:          cloudtest.Region,
		AccessKeyID:     cloudtest.AccessKeyID,
		SecretAccessKey: cloudtest.SecretAccessKey,
		ForcePathStyle:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestRun_WriteProbe_Allowed_CleansUp(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	p := newProvider(t, ctx, bucket)

	rec, err := preflight.Run(ctx, p, preflight.Spec{
		Mode:        preflight.ModeWriteProbe,
		ProbePrefix: preflight.DefaultProbePrefix,
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Allowed())
	assert.Len(t, rec.Results, 3)

	assert.Empty(t, cloudtest.ListKeys(t, ctx, bucket))
}

func TestRun_MissingBucket(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	p := newProvider(t, ctx, "nonexistent-bucket-12345")

	rec, err := preflight.Run(ctx, p, preflight.Spec{Mode: preflight.ModeReadSafe})
	require.Error(t, err)
	require.Len(t, rec.Results, 1)
	assert.Equal(t, preflight.CapBucketAccess, rec.Results[0].Capability)
	assert.Equal(t, preflight.ErrCodeNotFound, rec.Results[0].ErrorCode)
}

func TestWriteProbe_PutDenied(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)

	policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "DenyPut",
      "Effect": "Deny",
      "Principal": "*",
      "Action": ["s3:PutObject"],
      "Resource": ["arn:aws:s3:::%s/_sharelink/probe/*"]
    }
  ]
}`, bucket)
	cloudtest.PutBucketPolicy(t, ctx, bucket, policy)

	p := newProvider(t, ctx, bucket)

	rec, err := preflight.WriteProbe(ctx, p, preflight.Spec{
		Mode:        preflight.ModeWriteProbe,
		ProbePrefix: preflight.DefaultProbePrefix,
	})
	require.Error(t, err)
	require.NotNil(t, rec)

	var sawDenied bool
	for _, r := range rec.Results {
		if r.Capability == preflight.CapObjectWrite {
			sawDenied = true
			assert.False(t, r.Allowed)
			assert.Equal(t, preflight.ErrCodeAccessDenied, r.ErrorCode)
		}
	}
	assert.True(t, sawDenied)
}
