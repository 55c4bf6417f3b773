package provider

import (
	"context"
	"io"
	"time"
)

// Optional provider capability interfaces.
//
// These interfaces are used for feature detection (type assertions). The core
// Provider interface remains intentionally small.

// Uploader writes a complete object, choosing single-part or multipart
// transfer as the provider sees fit.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (*UploadOutput, error)
}

// Presigner issues time-limited, pre-authenticated read links.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ObjectPutter can create/overwrite small objects in a single request.
//
// This is used for write probes.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

// ObjectDeleter can delete objects.
//
// This is used to clean up write probes.
type ObjectDeleter interface {
	DeleteObject(ctx context.Context, key string) error
}
