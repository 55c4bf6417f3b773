//go:build cloudintegration

package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/sharelink/test/cloudtest"
)

func TestShareCommand_CloudIntegration(t *testing.T) {
	cloudtest.SkipIfUnavailable(t)
	ctx := context.Background()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))

	bucket := cloudtest.CreateBucket(t, ctx)
	cloudtest.SetMinIOEnv(t, bucket)

	path := writeTempFile(t, "clip.mp4", "not really a video")

	out, err := execute(t, path, "--title", "Launch Demo", "--json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Launch_Demo.mp4", decoded["object_name"])
	assert.Equal(t, bucket, decoded["bucket"])
	assert.NotContains(t, decoded, "console_url")

	assert.Equal(t, []string{"Launch_Demo.mp4"}, cloudtest.ListKeys(t, ctx, bucket))

	out, err = execute(t, "doctor", "--probe", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "write-probe"`)
	assert.Equal(t, []string{"Launch_Demo.mp4"}, cloudtest.ListKeys(t, ctx, bucket))
}
