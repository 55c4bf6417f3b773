// Package report renders the outcome of a share upload as plain text, JSON,
// or Markdown.
//
// Rendering is a pure function of an UploadResult and a Mode: the same input
// always yields the same string.
package report

import (
	"strings"
)

// Mode selects the output format.
type Mode string

const (
	// ModeText emits the bare download URL.
	ModeText Mode = "text"

	// ModeJSON emits an indented JSON object for machine parsing.
	ModeJSON Mode = "json"

	// ModeMarkdown emits a human-readable block for chat and docs.
	ModeMarkdown Mode = "markdown"
)

// Modes lists the supported output modes in display order.
var Modes = []Mode{ModeText, ModeJSON, ModeMarkdown}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeText, ModeJSON, ModeMarkdown:
		return true
	}
	return false
}

// ParseMode converts a user-supplied mode name. Matching is case-insensitive,
// "md" is accepted for markdown and an empty string means text.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return ModeText, nil
	case "json":
		return ModeJSON, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	}
	return "", &UnsupportedModeError{Mode: s}
}

// UploadResult describes a completed upload. It is created once per upload
// and never modified.
type UploadResult struct {
	// ObjectName is the key the file was stored under.
	ObjectName string

	// Bucket is the bucket holding the object.
	Bucket string

	// SizeBytes is the uploaded size.
	SizeBytes int64

	// ExpiryDays is the lifetime of DownloadURL.
	ExpiryDays int

	// ContentType is the MIME type sent with the upload.
	ContentType string

	// DownloadURL is the presigned GET URL.
	DownloadURL string

	// ConsoleURL links to the object in the storage web console.
	// Empty when no console is configured.
	ConsoleURL string
}
