package server

import (
	"context"
	"fmt"

	"github.com/figurevault/figurevault/internal/server/blob"
	"github.com/figurevault/figurevault/internal/server/upload"
)

type Services struct {
	Blob   *blob.BlobService
	Upload *upload.UploadService
}

func NewServices(config *Config) (*Services, error) {
	blobSvc, err := blob.NewBlobService(&config.Blob)
	if err != nil {
		return nil, fmt.Errorf("create blob service: %w", err)
	}
	return newServicesWithBlob(config, blobSvc), nil
}

func newServicesWithBlob(config *Config, blobSvc *blob.BlobService) *Services {
	return &Services{
		Blob:   blobSvc,
		Upload: upload.NewUploadService(&config.Upload, blobSvc.Backend()),
	}
}

func (s *Services) Start(ctx context.Context) error {
	if err := s.Blob.Start(ctx); err != nil {
		return fmt.Errorf("start blob service: %w", err)
	}

	if err := s.Upload.Start(ctx); err != nil {
		return fmt.Errorf("start upload service: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	if err := s.Upload.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop upload service: %w", err)
	}

	if err := s.Blob.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop blob service: %w", err)
	}
	return nil
}
