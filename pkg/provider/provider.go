// Package provider defines abstractions for object storage used by share
// uploads.
//
// Providers implement a minimal surface: bucket checks, single-object
// writes, metadata lookups, and presigned read links. Authentication uses
// SDK credential handling; providers should not implement custom signing.
package provider

import (
	"context"
	"io"
	"time"
)

// Provider abstracts the storage operations every backend supports.
//
// Implementations should be safe for concurrent use.
type Provider interface {
	// BucketExists reports whether the configured bucket is reachable.
	// A missing bucket returns (false, nil); other failures return an error.
	BucketExists(ctx context.Context) (bool, error)

	// Head returns metadata for a single object.
	// Returns ErrNotFound if the object does not exist.
	Head(ctx context.Context, key string) (*ObjectMeta, error)

	// Close releases any resources held by the provider.
	Close() error
}

// UploadInput describes a single object write.
type UploadInput struct {
	// Key is the destination object key.
	Key string

	// Body is the object content.
	Body io.Reader

	// Size is the content length in bytes, or -1 if unknown.
	Size int64

	// ContentType is sent as the object's Content-Type.
	// Empty leaves the provider default.
	ContentType string
}

// UploadOutput reports the result of an upload.
type UploadOutput struct {
	// Key is the object key that was written.
	Key string

	// ETag is the entity tag returned by the provider, without quotes.
	ETag string

	// Location is the provider-reported object URL, if any.
	Location string
}

// ObjectSummary contains basic object metadata.
type ObjectSummary struct {
	// Key is the full object key (path) in the bucket.
	Key string

	// Size is the object size in bytes.
	Size int64

	// ETag is the entity tag, typically an MD5 hash of the object.
	ETag string

	// LastModified is when the object was last modified.
	LastModified time.Time
}

// ObjectMeta contains full metadata for a single object.
// Returned by Head operations.
type ObjectMeta struct {
	ObjectSummary

	// ContentType is the MIME type of the object.
	ContentType string

	// Metadata contains user-defined metadata key-value pairs.
	Metadata map[string]string
}

// ProviderType identifies a cloud storage provider.
type ProviderType string

const (
	// ProviderS3 represents AWS S3 or S3-compatible storage such as MinIO.
	ProviderS3 ProviderType = "s3"
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	return string(p)
}
