package blob

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Backend struct {
	s3Client    *s3.Client
	s3Presigner *s3.PresignClient
	config      *Config
}

func NewS3Backend(s3Client *s3.Client, config *Config) *S3Backend {
	return &S3Backend{
		s3Client:    s3Client,
		s3Presigner: s3.NewPresignClient(s3Client),
		config:      config,
	}
}

func NewS3BackendWithConfig(cfg *Config) (*S3Backend, error) {
	// batches fan out one PutObject per file, keep enough idle conns around
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          200,
			MaxIdleConnsPerHost:   100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		Timeout: 60 * time.Second,
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}

	awsClient := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.UseAccelerate {
			o.UseAccelerate = true
		}
	})

	return NewS3Backend(awsClient, cfg), nil
}

func (s *S3Backend) Provider() string {
	return ProviderS3
}

func (s *S3Backend) PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error) {
	if err := validate(params.Bucket, params.Key); err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(params.Bucket),
		Key:    aws.String(params.Key),
		Body:   params.Body,
	}
	if params.Size > 0 {
		input.ContentLength = aws.Int64(params.Size)
	}
	if params.ContentType != "" {
		input.ContentType = aws.String(params.ContentType)
	}

	resp, err := s.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, err
	}

	return &PutObjectResponse{
		Bucket: params.Bucket,
		Key:    params.Key,
		Size:   params.Size,
		ETag:   strings.ReplaceAll(aws.ToString(resp.ETag), "\"", ""),
		URL:    s.ObjectURL(params.Bucket, params.Key),
	}, nil
}

func (s *S3Backend) PutObjectPresigned(ctx context.Context, params *PresignParams) (*PresignedUpload, error) {
	if err := validate(params.Bucket, params.Key); err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(params.Bucket),
		Key:    aws.String(params.Key),
	}
	if params.ContentType != "" {
		input.ContentType = aws.String(params.ContentType)
	}

	req, err := s.s3Presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = s.config.uploadExpiry()
	})
	if err != nil {
		return nil, err
	}

	return &PresignedUpload{
		URL:   req.URL,
		Path:  params.Key,
		Token: tokenFromPresignedURL(req.URL),
	}, nil
}

func (s *S3Backend) ObjectURL(bucket, key string) string {
	return objectURL(s.config.PublicURL, s.config.Endpoint, s.config.Region, bucket, key)
}

var _ Backend = (*S3Backend)(nil)
