package share

import "errors"

var (
	// ErrSourceNotFound indicates the file to upload does not exist.
	ErrSourceNotFound = errors.New("file not found")

	// ErrSourceIsDir indicates the path to upload is a directory.
	ErrSourceIsDir = errors.New("path is a directory")

	// ErrInvalidExpiry indicates an expiry outside the supported range.
	ErrInvalidExpiry = errors.New("invalid expiry days")

	// ErrIncompleteUpload indicates the stored object size differs from the source.
	ErrIncompleteUpload = errors.New("incomplete upload")
)
