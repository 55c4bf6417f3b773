// Package share uploads a local file to object storage and produces a
// time-limited download link.
package share

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/3leaps/sharelink/pkg/naming"
	"github.com/3leaps/sharelink/pkg/provider"
	"github.com/3leaps/sharelink/pkg/report"
)

const (
	// DefaultExpiryDays is the link lifetime when none is requested.
	DefaultExpiryDays = 7

	// MaxExpiryDays is the longest lifetime a SigV4 presigned URL supports.
	MaxExpiryDays = 7

	// DefaultContentType is sent when the content type cannot be detected.
	DefaultContentType = "application/octet-stream"
)

// Store is the storage surface a share upload needs.
type Store interface {
	BucketExists(ctx context.Context) (bool, error)
	Upload(ctx context.Context, in provider.UploadInput) (*provider.UploadOutput, error)
	Head(ctx context.Context, key string) (*provider.ObjectMeta, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Request describes one share upload.
type Request struct {
	// SourcePath is the local file to upload.
	SourcePath string

	// Title is a human title used to derive the object name.
	Title string

	// Name is an explicit object name. It takes precedence over Title.
	Name string

	// ExpiryDays is the link lifetime, 1 to MaxExpiryDays.
	ExpiryDays int

	// Mode is the report format the caller will render.
	Mode report.Mode
}

// Validate checks the request fields that do not need I/O.
func (r Request) Validate() error {
	if strings.TrimSpace(r.SourcePath) == "" {
		return fmt.Errorf("%w: empty path", ErrSourceNotFound)
	}
	if r.ExpiryDays < 1 || r.ExpiryDays > MaxExpiryDays {
		return fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidExpiry, r.ExpiryDays, MaxExpiryDays)
	}
	if r.Mode != "" && !r.Mode.Valid() {
		return &report.UnsupportedModeError{Mode: string(r.Mode)}
	}
	return nil
}

// Options configures a Service.
type Options struct {
	// Bucket is the destination bucket, reported in results.
	Bucket string

	// ConsoleURL is the base URL of the storage web console.
	// Empty disables console links.
	ConsoleURL string
}

// Service performs share uploads against a Store.
type Service struct {
	store      Store
	bucket     string
	consoleURL string
}

// New creates a Service.
func New(store Store, opts Options) *Service {
	return &Service{
		store:      store,
		bucket:     opts.Bucket,
		consoleURL: strings.TrimRight(strings.TrimSpace(opts.ConsoleURL), "/"),
	}
}

// Share uploads req.SourcePath and returns the result with a presigned link.
//
// Steps: validate the request, open the source, resolve the object name,
// check the bucket, upload, confirm the stored size, presign. The first
// failure is returned as is.
func (s *Service) Share(ctx context.Context, req Request) (report.UploadResult, error) {
	if err := req.Validate(); err != nil {
		return report.UploadResult{}, err
	}

	f, err := os.Open(req.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return report.UploadResult{}, fmt.Errorf("%w: %s", ErrSourceNotFound, req.SourcePath)
		}
		return report.UploadResult{}, fmt.Errorf("failed to open %s: %w", req.SourcePath, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return report.UploadResult{}, fmt.Errorf("failed to stat %s: %w", req.SourcePath, err)
	}
	if info.IsDir() {
		return report.UploadResult{}, fmt.Errorf("%w: %s", ErrSourceIsDir, req.SourcePath)
	}

	objectName, err := naming.ResolveObjectName(req.SourcePath, req.Title, req.Name)
	if err != nil {
		return report.UploadResult{}, err
	}

	exists, err := s.store.BucketExists(ctx)
	if err != nil {
		return report.UploadResult{}, err
	}
	if !exists {
		return report.UploadResult{}, &provider.ProviderError{
			Op:       "BucketExists",
			Provider: provider.ProviderS3,
			Bucket:   s.bucket,
			Err:      provider.ErrBucketNotFound,
		}
	}

	contentType := DetectContentType(req.SourcePath)

	if _, err := s.store.Upload(ctx, provider.UploadInput{
		Key:         objectName,
		Body:        f,
		Size:        info.Size(),
		ContentType: contentType,
	}); err != nil {
		return report.UploadResult{}, err
	}

	meta, err := s.store.Head(ctx, objectName)
	if err != nil {
		return report.UploadResult{}, err
	}
	if meta.Size != info.Size() {
		return report.UploadResult{}, fmt.Errorf("%w: %s stored %d of %d bytes",
			ErrIncompleteUpload, objectName, meta.Size, info.Size())
	}
	if meta.ContentType != "" {
		contentType = meta.ContentType
	}

	link, err := s.store.PresignGet(ctx, objectName, time.Duration(req.ExpiryDays)*24*time.Hour)
	if err != nil {
		return report.UploadResult{}, err
	}

	return report.UploadResult{
		ObjectName:  objectName,
		Bucket:      s.bucket,
		SizeBytes:   info.Size(),
		ExpiryDays:  req.ExpiryDays,
		ContentType: contentType,
		DownloadURL: link,
		ConsoleURL:  s.ConsoleLink(objectName),
	}, nil
}

// ConsoleLink returns the web console URL for objectName, or "" when no
// console is configured.
func (s *Service) ConsoleLink(objectName string) string {
	if s.consoleURL == "" {
		return ""
	}
	return s.consoleURL + "/browser/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(objectName)
}

// DetectContentType sniffs the MIME type of the file at path.
func DetectContentType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil || mt == nil {
		return DefaultContentType
	}
	return mt.String()
}
