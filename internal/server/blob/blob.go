package blob

import (
	"context"
	"log/slog"
)

// BlobService owns the storage backend used by the upload handlers.
type BlobService struct {
	backend Backend
}

func NewBlobService(cfg *Config) (*BlobService, error) {
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}
	return NewBlobServiceWithBackend(backend), nil
}

// NewBlobServiceWithBackend wraps an existing backend, tests use it with fakes.
func NewBlobServiceWithBackend(backend Backend) *BlobService {
	return &BlobService{backend: backend}
}

func (b *BlobService) Start(ctx context.Context) error {
	slog.Debug("blob service start", "provider", b.backend.Provider())
	return nil
}

func (b *BlobService) Shutdown(ctx context.Context) error {
	slog.Debug("blob service shutdown")
	return nil
}

func (b *BlobService) Backend() Backend {
	return b.backend
}
