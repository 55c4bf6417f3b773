// Package s3 implements the provider interfaces for AWS S3 and S3-compatible
// storage such as MinIO.
package s3

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config configures an S3 provider.
//
// Authentication priority (AWS SDK v2 default chain):
//  1. Explicit AccessKeyID/SecretAccessKey (if provided)
//  2. Environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY)
//  3. Shared credentials file (~/.aws/credentials)
//  4. Shared config file (~/.aws/config) with profile
//
// Region handling: presigned URLs are signed with SigV4, which always needs a
// region. When none is configured or resolved from the environment,
// us-east-1 is used. MinIO accepts it unless the server has a region set.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// Endpoint is the API URL of an S3-compatible store, e.g.
	// https://minio.example.com or http://localhost:9000.
	// A bare host is treated as https. Leave empty for AWS S3.
	Endpoint string

	// Region is the signing region.
	Region string

	// Profile is the AWS profile name to use from shared config.
	Profile string

	// AccessKeyID is an explicit access key. If set, SecretAccessKey must also be set.
	AccessKeyID string

	// SecretAccessKey is an explicit secret key. Required if AccessKeyID is set.
	SecretAccessKey string

	// ForcePathStyle forces path-style URLs (bucket in path, not subdomain).
	// Required for MinIO and most S3-compatible stores.
	ForcePathStyle bool

	// Insecure skips TLS certificate verification. Only meant for
	// self-signed development endpoints.
	Insecure bool

	// PartSize is the multipart upload part size in bytes.
	// Zero uses the SDK default (5 MiB).
	PartSize int64
}

// DefaultAWSRegion is the fallback signing region.
const DefaultAWSRegion = "us-east-1"

// MaxPresignExpiry is the longest lifetime SigV4 allows for a presigned URL.
const MaxPresignExpiry = 7 * 24 * time.Hour

// MinPartSize is the smallest multipart part size S3 accepts.
const MinPartSize = 5 * 1024 * 1024

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return &ConfigError{Field: "Bucket", Message: "bucket name is required"}
	}

	// If one explicit credential is set, both must be set
	if (c.AccessKeyID != "") != (c.SecretAccessKey != "") {
		return &ConfigError{
			Field:   "AccessKeyID/SecretAccessKey",
			Message: "both access key ID and secret access key must be provided together",
		}
	}

	if c.Endpoint != "" {
		if _, err := NormalizeEndpoint(c.Endpoint); err != nil {
			return &ConfigError{Field: "Endpoint", Message: err.Error()}
		}
	}

	if c.PartSize != 0 && c.PartSize < MinPartSize {
		return &ConfigError{
			Field:   "PartSize",
			Message: fmt.Sprintf("part size must be at least %d bytes", MinPartSize),
		}
	}

	return nil
}

// NormalizeEndpoint turns a MinIO-style API URL into an absolute endpoint URL.
//
//	https://minio.example.com/  -> https://minio.example.com
//	http://localhost:9000       -> http://localhost:9000
//	minio.example.com:9000      -> https://minio.example.com:9000
func NormalizeEndpoint(apiURL string) (string, error) {
	raw := strings.TrimSpace(apiURL)
	if strings.Trim(raw, "/") == "" {
		return "", errors.New("endpoint is empty")
	}

	// Slashes are only trimmed from the path, so "https://" fails on its host.
	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimLeft(raw, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", apiURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("invalid endpoint %q: unsupported scheme %q", apiURL, u.Scheme)
	}

	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid endpoint %q: missing host", apiURL)
	}

	return strings.ToLower(u.Scheme) + "://" + u.Host + strings.TrimRight(u.Path, "/"), nil
}

// IsSecureEndpoint reports whether endpoint uses TLS.
func IsSecureEndpoint(endpoint string) bool {
	normalized, err := NormalizeEndpoint(endpoint)
	if err != nil {
		return false
	}
	return strings.HasPrefix(normalized, "https://")
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "s3 config: " + e.Field + ": " + e.Message
}
