package blob

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioBackend struct {
	client *minio.Client
	config *Config
}

func NewMinioBackendWithConfig(cfg *Config) (*MinioBackend, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	// the default transport keeps 2 idle conns per host, too few for a batch
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	client, err := minio.New(u.Host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    strings.EqualFold(u.Scheme, "https"),
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, err
	}

	return &MinioBackend{client: client, config: cfg}, nil
}

func (m *MinioBackend) Provider() string {
	return ProviderMinio
}

func (m *MinioBackend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if err := validate(params.Bucket, params.Key); err != nil {
		return nil, err
	}

	size := params.Size
	if size <= 0 {
		size = -1
	}

	info, err := m.client.PutObject(ctx, params.Bucket, params.Key, params.Body, size, minio.PutObjectOptions{
		ContentType: params.ContentType,
	})
	if err != nil {
		return nil, err
	}

	return &PutObjectResponse{
		Bucket: params.Bucket,
		Key:    params.Key,
		ETag:   info.ETag,
		Size:   info.Size,
		URL:    m.ObjectURL(params.Bucket, params.Key),
	}, nil
}

func (m *MinioBackend) PutObjectPresigned(ctx context.Context, params *PresignParams) (*PresignedUpload, error) {
	if err := validate(params.Bucket, params.Key); err != nil {
		return nil, err
	}

	u, err := m.client.PresignedPutObject(ctx, params.Bucket, params.Key, m.config.uploadExpiry())
	if err != nil {
		return nil, err
	}

	signed := u.String()
	return &PresignedUpload{
		URL:   signed,
		Path:  params.Key,
		Token: tokenFromPresignedURL(signed),
	}, nil
}

func (m *MinioBackend) ObjectURL(bucket, key string) string {
	return objectURL(m.config.PublicURL, m.config.Endpoint, m.config.Region, bucket, key)
}

var _ Backend = (*MinioBackend)(nil)
