package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
)

// jsonReport is the JSON shape of an UploadResult. Keys are stable across
// calls; console_url is present only when a console URL is known.
type jsonReport struct {
	Success     bool   `json:"success"`
	ObjectName  string `json:"object_name"`
	Bucket      string `json:"bucket"`
	SizeBytes   int64  `json:"size_bytes"`
	Size        string `json:"size"`
	ExpiryDays  int    `json:"expiry_days"`
	ContentType string `json:"content_type"`
	DownloadURL string `json:"download_url"`
	ConsoleURL  string `json:"console_url,omitempty"`
}

// Render formats result according to mode.
//
// Returns *UnsupportedModeError for unknown modes.
func Render(result UploadResult, mode Mode) (string, error) {
	switch mode {
	case ModeText:
		return result.DownloadURL, nil
	case ModeJSON:
		return renderJSON(result)
	case ModeMarkdown:
		return renderMarkdown(result), nil
	default:
		return "", &UnsupportedModeError{Mode: string(mode)}
	}
}

func renderJSON(result UploadResult) (string, error) {
	out := jsonReport{
		Success:     true,
		ObjectName:  result.ObjectName,
		Bucket:      result.Bucket,
		SizeBytes:   result.SizeBytes,
		Size:        FormatSize(result.SizeBytes),
		ExpiryDays:  result.ExpiryDays,
		ContentType: result.ContentType,
		DownloadURL: result.DownloadURL,
		ConsoleURL:  result.ConsoleURL,
	}

	// Presigned URLs carry '&' in the query string; keep them readable.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

func renderMarkdown(result UploadResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📄 **File:** %s\n", codeSpan(result.ObjectName))
	fmt.Fprintf(&b, "📦 **Size:** %s\n", FormatSize(result.SizeBytes))
	fmt.Fprintf(&b, "⏳ **Expires:** %s\n", formatDays(result.ExpiryDays))
	fmt.Fprintf(&b, "🔗 **Link:** [Download](%s)\n", result.DownloadURL)
	b.WriteString(result.DownloadURL)

	if result.ConsoleURL != "" {
		fmt.Fprintf(&b, "\n🖥️ **Console:** [Open in console](%s)", result.ConsoleURL)
	}

	switch MediaKindOf(result.ObjectName) {
	case MediaImage:
		fmt.Fprintf(&b, "\n\n![%s](%s)", altText(result.ObjectName), result.DownloadURL)
	case MediaVideo:
		fmt.Fprintf(&b, "\n\n<video controls src=\"%s\"></video>", html.EscapeString(result.DownloadURL))
	}

	return b.String()
}

// codeSpan wraps s in backticks, widening the fence when s contains one.
func codeSpan(s string) string {
	if strings.Contains(s, "`") {
		return "`` " + s + " ``"
	}
	return "`" + s + "`"
}

// altText strips characters that would end a Markdown image alt early.
func altText(s string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(s)
}

func formatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// Write renders result and writes it to w followed by a newline.
func Write(w io.Writer, result UploadResult, mode Mode) error {
	out, err := Render(result, mode)
	if err != nil {
		return err
	}
	if err := writeAll(w, []byte(out+"\n")); err != nil {
		return &WriteError{Op: "write", Err: err}
	}
	return nil
}

// writeAll writes all bytes to w, handling short writes.
func writeAll(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

// WriteError wraps failures writing a rendered report.
type WriteError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return "report " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}
