package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://minio.example.com/share/clip.mp4?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=604800&X-Amz-Signature=abc"

func sampleResult(name string) UploadResult {
	return UploadResult{
		ObjectName:  name,
		Bucket:      "share",
		SizeBytes:   1572864,
		ExpiryDays:  7,
		ContentType: "video/mp4",
		DownloadURL: testURL,
	}
}

func TestRender_Text(t *testing.T) {
	results := []UploadResult{
		sampleResult("clip.mp4"),
		{DownloadURL: "http://localhost:9000/b/k"},
		{},
	}

	for _, r := range results {
		got, err := Render(r, ModeText)
		require.NoError(t, err)
		assert.Equal(t, r.DownloadURL, got)
	}
}

func TestRender_JSON(t *testing.T) {
	r := sampleResult("clip.mp4")
	r.ConsoleURL = "https://console.example.com/browser/share/clip.mp4"

	got, err := Render(r, ModeJSON)
	require.NoError(t, err)
	assert.False(t, strings.HasSuffix(got, "\n"))
	assert.Contains(t, got, "&X-Amz-Expires", "URLs must not be HTML-escaped")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "clip.mp4", decoded["object_name"])
	assert.Equal(t, "share", decoded["bucket"])
	assert.Equal(t, float64(1572864), decoded["size_bytes"])
	assert.Equal(t, "1.50 MB", decoded["size"])
	assert.Equal(t, float64(7), decoded["expiry_days"])
	assert.Equal(t, "video/mp4", decoded["content_type"])
	assert.Equal(t, testURL, decoded["download_url"])
	assert.Equal(t, r.ConsoleURL, decoded["console_url"])
}

func TestRender_JSON_OmitsConsoleURL(t *testing.T) {
	got, err := Render(sampleResult("clip.mp4"), ModeJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	_, ok := decoded["console_url"]
	assert.False(t, ok)
	assert.Len(t, decoded, 8)
}

func TestRender_Markdown(t *testing.T) {
	got, err := Render(sampleResult("notes.pdf"), ModeMarkdown)
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "📄 **File:** `notes.pdf`", lines[0])
	assert.Equal(t, "📦 **Size:** 1.50 MB", lines[1])
	assert.Equal(t, "⏳ **Expires:** 7 days", lines[2])
	assert.Equal(t, "🔗 **Link:** [Download]("+testURL+")", lines[3])
	assert.Equal(t, testURL, lines[4])
	assert.NotContains(t, got, "![")
	assert.NotContains(t, got, "<video")
}

func TestRender_Markdown_Image(t *testing.T) {
	r := sampleResult("diagram.png")
	got, err := Render(r, ModeMarkdown)
	require.NoError(t, err)

	assert.Contains(t, got, "![diagram.png]("+testURL+")")
	assert.NotContains(t, got, "<video")
}

func TestRender_Markdown_Video(t *testing.T) {
	r := sampleResult("Demo_Run.MP4")
	got, err := Render(r, ModeMarkdown)
	require.NoError(t, err)

	assert.Contains(t, got, "[Download]("+testURL+")")
	assert.Contains(t, got, `<video controls src="`)
	assert.Contains(t, got, "&amp;X-Amz-Expires")
	assert.NotContains(t, got, "![")
}

func TestRender_Markdown_Console(t *testing.T) {
	r := sampleResult("a.txt")
	r.ConsoleURL = "https://console.example.com/browser/share/a.txt"

	got, err := Render(r, ModeMarkdown)
	require.NoError(t, err)
	assert.Contains(t, got, "[Open in console](https://console.example.com/browser/share/a.txt)")
}

func TestRender_Markdown_SingleDay(t *testing.T) {
	r := sampleResult("a.txt")
	r.ExpiryDays = 1

	got, err := Render(r, ModeMarkdown)
	require.NoError(t, err)
	assert.Contains(t, got, "⏳ **Expires:** 1 day\n")
}

func TestRender_Markdown_BacktickName(t *testing.T) {
	got, err := Render(sampleResult("a`b.txt"), ModeMarkdown)
	require.NoError(t, err)
	assert.Contains(t, got, "`` a`b.txt ``")
}

func TestRender_UnsupportedMode(t *testing.T) {
	_, err := Render(sampleResult("a.txt"), Mode("yaml"))
	require.Error(t, err)

	var modeErr *UnsupportedModeError
	require.True(t, errors.As(err, &modeErr))
	assert.Equal(t, "yaml", modeErr.Mode)
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestRender_Idempotent(t *testing.T) {
	r := sampleResult("diagram.png")
	r.ConsoleURL = "https://console.example.com/browser/share/diagram.png"

	for _, mode := range Modes {
		t.Run(mode.String(), func(t *testing.T) {
			first, err := Render(r, mode)
			require.NoError(t, err)
			second, err := Render(r, mode)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeText, false},
		{"text", ModeText, false},
		{"TEXT", ModeText, false},
		{"json", ModeJSON, false},
		{" Json ", ModeJSON, false},
		{"markdown", ModeMarkdown, false},
		{"md", ModeMarkdown, false},
		{"yaml", "", true},
		{"html", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleResult("clip.mp4"), ModeText))
	assert.Equal(t, testURL+"\n", buf.String())
}

func TestWrite_ShortWrite(t *testing.T) {
	sw := &shortWriteWriter{bytesPerWrite: 7}
	require.NoError(t, Write(sw, sampleResult("clip.mp4"), ModeMarkdown))

	want, err := Render(sampleResult("clip.mp4"), ModeMarkdown)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", sw.buf.String())
}

func TestWrite_ZeroWrite(t *testing.T) {
	err := Write(&zeroWriteWriter{}, sampleResult("clip.mp4"), ModeText)
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestWrite_UnsupportedMode(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleResult("clip.mp4"), Mode("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedMode)
	assert.Zero(t, buf.Len())
}

type shortWriteWriter struct {
	buf           bytes.Buffer
	bytesPerWrite int
}

func (sw *shortWriteWriter) Write(p []byte) (n int, err error) {
	if len(p) > sw.bytesPerWrite {
		p = p[:sw.bytesPerWrite]
	}
	return sw.buf.Write(p)
}

type zeroWriteWriter struct{}

func (zw *zeroWriteWriter) Write(p []byte) (n int, err error) {
	return 0, nil
}
