package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "empty bucket",
			config:  Config{},
			wantErr: "bucket name is required",
		},
		{
			name:   "valid minimal config",
			config: Config{Bucket: "share"},
		},
		{
			name: "valid MinIO config",
			config: Config{
				Bucket:          "share",
				Endpoint:        "https://minio.example.com",
				ForcePathStyle:  true,
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
			},
		},
		{
			name: "access key without secret",
			config: Config{
				Bucket:      "share",
				AccessKeyID: "minioadmin",
			},
			wantErr: "both access key ID and secret access key must be provided together",
		},
		{
			name: "secret without access key",
			config: Config{
				Bucket:          "share",
				SecretAccessKey: "minioadmin",
			},
			wantErr: "both access key ID and secret access key must be provided together",
		},
		{
			name: "bad endpoint scheme",
			config: Config{
				Bucket:   "share",
				Endpoint: "ftp://minio.example.com",
			},
			wantErr: "unsupported scheme",
		},
		{
			name: "endpoint with scheme only",
			config: Config{
				Bucket:   "share",
				Endpoint: "https://",
			},
			wantErr: "missing host",
		},
		{
			name: "http endpoint with empty host",
			config: Config{
				Bucket:   "share",
				Endpoint: "http:///",
			},
			wantErr: "missing host",
		},
		{
			name: "part size too small",
			config: Config{
				Bucket:   "share",
				PartSize: 1024,
			},
			wantErr: "part size must be at least",
		},
		{
			name: "part size at minimum",
			config: Config{
				Bucket:   "share",
				PartSize: MinPartSize,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "Bucket",
		Message: "bucket name is required",
	}
	assert.Equal(t, "s3 config: Bucket: bucket name is required", err.Error())
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://minio.example.com", want: "https://minio.example.com"},
		{in: "https://minio.example.com/", want: "https://minio.example.com"},
		{in: "http://localhost:9000", want: "http://localhost:9000"},
		{in: "HTTP://localhost:9000", want: "http://localhost:9000"},
		{in: "minio.example.com", want: "https://minio.example.com"},
		{in: "minio.example.com:9000/", want: "https://minio.example.com:9000"},
		{in: "  https://s3.example.com/minio  ", want: "https://s3.example.com/minio"},
		{in: "", wantErr: true},
		{in: "ftp://files.example.com", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "http:///", wantErr: true},
		{in: "https:///bucket", wantErr: true},
		{in: "http://:9000", wantErr: true},
		{in: "/", wantErr: true},
		{in: "https://s3.example.com/minio/", want: "https://s3.example.com/minio"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEndpoint(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSecureEndpoint(t *testing.T) {
	assert.True(t, IsSecureEndpoint("https://minio.example.com"))
	assert.True(t, IsSecureEndpoint("minio.example.com"))
	assert.False(t, IsSecureEndpoint("http://localhost:9000"))
	assert.False(t, IsSecureEndpoint(""))
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "us-east-1", DefaultAWSRegion)
	assert.Equal(t, "168h0m0s", MaxPresignExpiry.String())
	assert.Equal(t, 5*1024*1024, MinPartSize)
}
