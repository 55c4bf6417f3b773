//go:build cloudintegration

package share_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/sharelink/pkg/provider/s3"
	"github.com/3leaps/sharelink/pkg/report"
	"github.com/3leaps/sharelink/pkg/share"
	"github.com/3leaps/sharelink/test/cloudtest"
)

func TestShare_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	bucket := cloudtest.CreateBucket(t, ctx)
	p, err := s3.New(ctx, s3.Config{
		Bucket:          bucket,
		Endpoint:        cloudtest.Endpoint,
		Region:          cloudtest.Region,
		AccessKeyID:     cloudtest.AccessKeyID,
		SecretAccessKey: cloudtest.SecretAccessKey,
		ForcePathStyle:  true,
	})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("meeting notes\n"), 0o600))

	svc := share.New(p, share.Options{Bucket: bucket, ConsoleURL: "http://localhost:9001"})
	result, err := svc.Share(ctx, share.Request{
		SourcePath: path,
		Title:      "Weekly Sync: Notes",
		ExpiryDays: 1,
		Mode:       report.ModeMarkdown,
	})
	require.NoError(t, err)

	assert.Equal(t, "Weekly_Sync_Notes.txt", result.ObjectName)
	assert.Equal(t, int64(14), result.SizeBytes)
	assert.Equal(t, "http://localhost:9001/browser/"+bucket+"/Weekly_Sync_Notes.txt", result.ConsoleURL)

	body, _ := cloudtest.GetObject(t, ctx, bucket, "Weekly_Sync_Notes.txt")
	assert.Equal(t, "meeting notes\n", string(body))

	resp, err := http.Get(result.DownloadURL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	downloaded, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "meeting notes\n", string(downloaded))
}
