package blob

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(provider string) *Config {
	return &Config{
		Provider:     provider,
		Region:       "us-east-1",
		AccessKey:    "test-access-key",
		SecretKey:    "test-secret-key",
		Endpoint:     "http://localhost:9000",
		UploadExpiry: 2 * time.Minute,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "default-provider", mutate: func(c *Config) { c.Provider = "" }},
		{name: "unknown-provider", mutate: func(c *Config) { c.Provider = "gcs" }, wantErr: "unknown provider"},
		{name: "minio-needs-endpoint", mutate: func(c *Config) { c.Provider = ProviderMinio; c.Endpoint = "" }, wantErr: "endpoint required"},
		{name: "no-region", mutate: func(c *Config) { c.Region = "" }, wantErr: "region required"},
		{name: "no-access-key", mutate: func(c *Config) { c.AccessKey = "" }, wantErr: "access_key required"},
		{name: "no-secret-key", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "secret_key required"},
		{name: "bad-endpoint", mutate: func(c *Config) { c.Endpoint = "localhost:9000" }, wantErr: "invalid endpoint"},
		{name: "bad-public-url", mutate: func(c *Config) { c.PublicURL = "cdn" }, wantErr: "invalid public_url"},
		{name: "negative-expiry", mutate: func(c *Config) { c.UploadExpiry = -time.Second }, wantErr: "upload_expiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(ProviderS3)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewBackend(t *testing.T) {
	s3b, err := NewBackend(testConfig(ProviderS3))
	require.NoError(t, err)
	assert.Equal(t, ProviderS3, s3b.Provider())

	mb, err := NewBackend(testConfig(ProviderMinio))
	require.NoError(t, err)
	assert.Equal(t, ProviderMinio, mb.Provider())

	_, err = NewBackend(&Config{Provider: "gcs"})
	assert.Error(t, err)
}

func TestS3Backend_PutObjectPresigned(t *testing.T) {
	backend, err := NewS3BackendWithConfig(testConfig(ProviderS3))
	require.NoError(t, err)

	signed, err := backend.PutObjectPresigned(context.Background(), &PresignParams{
		Bucket:      "figure-images",
		Key:         "1760000000000_k3x9qa.jpg",
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/figure-images/1760000000000_k3x9qa.jpg", u.Path)
	assert.Equal(t, "120", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "1760000000000_k3x9qa.jpg", signed.Path)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, u.Query().Get("X-Amz-Signature"), signed.Token)
}

func TestMinioBackend_PutObjectPresigned(t *testing.T) {
	backend, err := NewMinioBackendWithConfig(testConfig(ProviderMinio))
	require.NoError(t, err)

	signed, err := backend.PutObjectPresigned(context.Background(), &PresignParams{
		Bucket: "figure-images",
		Key:    "1760000000000_k3x9qa.png",
	})
	require.NoError(t, err)
	assert.Contains(t, signed.URL, "/figure-images/1760000000000_k3x9qa.png")
	assert.NotEmpty(t, signed.Token)
}

func TestBackends_RejectInvalidKeys(t *testing.T) {
	for _, provider := range []string{ProviderS3, ProviderMinio} {
		backend, err := NewBackend(testConfig(provider))
		require.NoError(t, err)

		_, err = backend.PutObject(context.Background(), &PutObjectParams{
			Bucket: "figure-images",
			Key:    "../escape.jpg",
			Body:   bytes.NewReader([]byte("x")),
			Size:   1,
		})
		assert.ErrorIs(t, err, ErrInvalidKey, provider)

		_, err = backend.PutObjectPresigned(context.Background(), &PresignParams{Bucket: "NO", Key: "a.jpg"})
		assert.ErrorIs(t, err, ErrInvalidBucket, provider)
	}
}

func TestBlobService(t *testing.T) {
	svc, err := NewBlobService(testConfig(ProviderS3))
	require.NoError(t, err)
	assert.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, ProviderS3, svc.Backend().Provider())
	assert.Equal(t, "http://localhost:9000/figures/a.jpg", svc.Backend().ObjectURL("figures", "a.jpg"))
	assert.NoError(t, svc.Shutdown(context.Background()))
}
