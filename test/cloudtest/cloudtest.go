// Package cloudtest provides helpers for integration tests against a local
// S3-compatible endpoint (moto or MinIO).
//
// Tests using this package should be tagged with //go:build cloudintegration.
//
// Usage:
//
//	func TestShare(t *testing.T) {
//	    cloudtest.SkipIfUnavailable(t)
//	    bucket := cloudtest.CreateBucket(t, ctx)
//	    cloudtest.SetMinIOEnv(t, bucket)
//	    // ... test code ...
//	}
package cloudtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// DefaultEndpoint is the default moto server endpoint.
	// Port 5555 avoids conflict with macOS AirTunes on 5000.
	DefaultEndpoint = "http://localhost:5555"

	// DefaultRegion is the default region for tests.
	DefaultRegion = "us-east-1"

	// DefaultAccessKeyID is accepted by moto as-is.
	DefaultAccessKeyID = "testing"

	// DefaultSecretAccessKey is accepted by moto as-is.
	DefaultSecretAccessKey = "testing"
)

var (
	// Endpoint is the S3 endpoint, configurable via CLOUDTEST_ENDPOINT
	// (or MOTO_ENDPOINT).
	Endpoint = firstEnv(DefaultEndpoint, "CLOUDTEST_ENDPOINT", "MOTO_ENDPOINT")

	// Region is the signing region, configurable via CLOUDTEST_REGION.
	Region = firstEnv(DefaultRegion, "CLOUDTEST_REGION", "MOTO_REGION")

	// AccessKeyID is configurable via CLOUDTEST_ACCESS_KEY for MinIO.
	AccessKeyID = firstEnv(DefaultAccessKeyID, "CLOUDTEST_ACCESS_KEY")

	// SecretAccessKey is configurable via CLOUDTEST_SECRET_KEY for MinIO.
	SecretAccessKey = firstEnv(DefaultSecretAccessKey, "CLOUDTEST_SECRET_KEY")

	client     *s3.Client
	clientOnce sync.Once
	clientErr  error
)

func firstEnv(defaultVal string, keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return defaultVal
}

// healthPaths are probed in order; the first is moto, the second MinIO.
var healthPaths = []string{"/moto-api/", "/minio/health/live"}

// Available checks if the endpoint is reachable.
func Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, path := range healthPaths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(Endpoint, "/")+path, nil)
		if err != nil {
			return false
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

// SkipIfUnavailable skips the test if no endpoint is available.
func SkipIfUnavailable(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skipf("S3 test endpoint not available at %s (start moto on :5555 or set CLOUDTEST_ENDPOINT)", Endpoint)
	}
}

// Client returns a shared S3 client for the test endpoint.
func Client() (*s3.Client, error) {
	clientOnce.Do(func() {
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				AccessKeyID,
				SecretAccessKey,
				"",
			)),
		)
		if err != nil {
			clientErr = fmt.Errorf("load config: %w", err)
			return
		}

		client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(Endpoint)
			o.UsePathStyle = true
		})
	})

	return client, clientErr
}

// ClientT returns the S3 client, failing the test on error.
func ClientT(t *testing.T) *s3.Client {
	t.Helper()
	c, err := Client()
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	return c
}

// CreateBucket creates a test bucket with a unique name and registers cleanup.
func CreateBucket(t *testing.T, ctx context.Context) string {
	t.Helper()

	c := ClientT(t)

	name := strings.ToLower(t.Name())
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "_", "-")
	// Bucket names are limited to 63 characters.
	if len(name) > 50 {
		name = name[:50]
	}
	name = strings.Trim(name, "-")
	name = fmt.Sprintf("%s-%d", name, time.Now().UnixNano()%100000)

	_, err := c.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		t.Fatalf("failed to create bucket %s: %v", name, err)
	}

	t.Cleanup(func() {
		DeleteBucket(t, context.Background(), name)
	})

	return name
}

// DeleteBucket deletes a bucket and all its contents.
func DeleteBucket(t *testing.T, ctx context.Context, bucket string) {
	t.Helper()

	c := ClientT(t)

	paginator := s3.NewListObjectsV2Paginator(c, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			t.Logf("warning: failed to list objects in bucket %s: %v", bucket, err)
			return
		}

		for _, obj := range page.Contents {
			_, err := c.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(bucket),
				Key:    obj.Key,
			})
			if err != nil {
				t.Logf("warning: failed to delete object %s: %v", aws.ToString(obj.Key), err)
			}
		}
	}

	_, err := c.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		t.Logf("warning: failed to delete bucket %s: %v", bucket, err)
	}
}

// GetObject downloads an object and returns its body and content type.
func GetObject(t *testing.T, ctx context.Context, bucket, key string) ([]byte, string) {
	t.Helper()

	out, err := ClientT(t).GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		t.Fatalf("failed to get object %s/%s: %v", bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		t.Fatalf("failed to read object %s/%s: %v", bucket, key, err)
	}
	return body, aws.ToString(out.ContentType)
}

// ListKeys returns every key in bucket.
func ListKeys(t *testing.T, ctx context.Context, bucket string) []string {
	t.Helper()

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(ClientT(t), &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			t.Fatalf("failed to list bucket %s: %v", bucket, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys
}

// SetMinIOEnv points the MINIO_* variables at the test endpoint and bucket.
func SetMinIOEnv(t *testing.T, bucket string) {
	t.Helper()
	t.Setenv("MINIO_API_URL", Endpoint)
	t.Setenv("MINIO_ACCESS_KEY", AccessKeyID)
	t.Setenv("MINIO_SECRET_KEY", SecretAccessKey)
	t.Setenv("MINIO_BUCKET", bucket)
	t.Setenv("MINIO_REGION", Region)
	t.Setenv("MINIO_CONSOLE_URL", "")
}

// PutBucketPolicy sets a bucket policy.
func PutBucketPolicy(t *testing.T, ctx context.Context, bucket, policyJSON string) {
	t.Helper()

	_, err := ClientT(t).PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(policyJSON),
	})
	if err != nil {
		t.Fatalf("failed to put bucket policy for %s: %v", bucket, err)
	}
}
