package preflight_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/sharelink/pkg/preflight"
	"github.com/3leaps/sharelink/pkg/provider"
)

type fakeTarget struct {
	exists    bool
	existsErr error
	putErr    error
	deleteErr error

	putKeys    []string
	deleteKeys []string
}

func (f *fakeTarget) BucketExists(ctx context.Context) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeTarget) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	f.putKeys = append(f.putKeys, key)
	return f.putErr
}

func (f *fakeTarget) DeleteObject(ctx context.Context, key string) error {
	f.deleteKeys = append(f.deleteKeys, key)
	return f.deleteErr
}

type readOnlyTarget struct{}

func (readOnlyTarget) BucketExists(ctx context.Context) (bool, error) { return true, nil }

func capabilities(rec *preflight.Record) []string {
	var caps []string
	for _, r := range rec.Results {
		caps = append(caps, r.Capability)
	}
	return caps
}

func TestRun_ReadSafe(t *testing.T) {
	target := &fakeTarget{exists: true}

	rec, err := preflight.Run(context.Background(), target, preflight.Spec{Mode: preflight.ModeReadSafe})
	require.NoError(t, err)

	assert.Equal(t, []string{preflight.CapBucketAccess}, capabilities(rec))
	assert.True(t, rec.Allowed())
	assert.Empty(t, target.putKeys)
}

func TestRun_PlanOnly(t *testing.T) {
	rec, err := preflight.Run(context.Background(), &fakeTarget{}, preflight.Spec{Mode: preflight.ModePlanOnly})
	require.NoError(t, err)
	assert.Empty(t, rec.Results)
	assert.True(t, rec.Allowed())
}

func TestRun_BucketFailures(t *testing.T) {
	tests := []struct {
		name     string
		target   *fakeTarget
		wantCode string
		wantErr  error
	}{
		{name: "missing bucket", target: &fakeTarget{exists: false}, wantCode: preflight.ErrCodeNotFound, wantErr: provider.ErrBucketNotFound},
		{name: "access denied", target: &fakeTarget{existsErr: provider.ErrAccessDenied}, wantCode: preflight.ErrCodeAccessDenied, wantErr: provider.ErrAccessDenied},
		{name: "bad credentials", target: &fakeTarget{existsErr: provider.ErrInvalidCredentials}, wantCode: preflight.ErrCodeAccessDenied, wantErr: provider.ErrInvalidCredentials},
		{name: "unreachable", target: &fakeTarget{existsErr: provider.ErrEndpointUnreachable}, wantCode: preflight.ErrCodeUnreachable, wantErr: provider.ErrEndpointUnreachable},
		{name: "throttled", target: &fakeTarget{existsErr: provider.ErrThrottled}, wantCode: preflight.ErrCodeThrottled, wantErr: provider.ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := preflight.Run(context.Background(), tt.target, preflight.Spec{Mode: preflight.ModeWriteProbe})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			require.Len(t, rec.Results, 1)
			assert.False(t, rec.Results[0].Allowed)
			assert.Equal(t, tt.wantCode, rec.Results[0].ErrorCode)
			assert.False(t, rec.Allowed())
			assert.Empty(t, tt.target.putKeys)
		})
	}
}

func TestRun_WriteProbe(t *testing.T) {
	target := &fakeTarget{exists: true}

	rec, err := preflight.Run(context.Background(), target, preflight.Spec{
		Mode:        preflight.ModeWriteProbe,
		ProbePrefix: "probe",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{preflight.CapBucketAccess, preflight.CapObjectWrite, preflight.CapObjectDelete}, capabilities(rec))
	assert.True(t, rec.Allowed())

	require.Len(t, target.putKeys, 1)
	assert.True(t, strings.HasPrefix(target.putKeys[0], "probe/write-"), target.putKeys[0])
	assert.Equal(t, target.putKeys, target.deleteKeys)
}

func TestWriteProbe_DefaultPrefix(t *testing.T) {
	target := &fakeTarget{exists: true}

	rec, err := preflight.WriteProbe(context.Background(), target, preflight.Spec{})
	require.NoError(t, err)
	assert.Equal(t, preflight.DefaultProbePrefix, rec.ProbePrefix)
	require.Len(t, target.putKeys, 1)
	assert.True(t, strings.HasPrefix(target.putKeys[0], preflight.DefaultProbePrefix+"write-"))
}

func TestWriteProbe_Denied(t *testing.T) {
	target := &fakeTarget{exists: true, putErr: provider.ErrAccessDenied}

	rec, err := preflight.WriteProbe(context.Background(), target, preflight.Spec{})
	require.Error(t, err)
	require.Len(t, rec.Results, 1)
	assert.Equal(t, preflight.CapObjectWrite, rec.Results[0].Capability)
	assert.Equal(t, "PutObject(empty)", rec.Results[0].Method)
	assert.Equal(t, preflight.ErrCodeAccessDenied, rec.Results[0].ErrorCode)
	assert.Empty(t, target.deleteKeys)
}

func TestWriteProbe_DeleteFails(t *testing.T) {
	target := &fakeTarget{exists: true, deleteErr: provider.ErrAccessDenied}

	rec, err := preflight.WriteProbe(context.Background(), target, preflight.Spec{})
	require.Error(t, err)
	require.Len(t, rec.Results, 2)
	assert.True(t, rec.Results[0].Allowed)
	assert.False(t, rec.Results[1].Allowed)
	assert.Contains(t, rec.Results[1].Detail, "left behind")
}

func TestWriteProbe_Unsupported(t *testing.T) {
	rec, err := preflight.WriteProbe(context.Background(), readOnlyTarget{}, preflight.Spec{})
	assert.ErrorIs(t, err, preflight.ErrUnsupported)
	require.Len(t, rec.Results, 1)
	assert.False(t, rec.Results[0].Allowed)
}
