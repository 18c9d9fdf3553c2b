package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/figurevault/figurevault/internal/batch"
	"github.com/figurevault/figurevault/internal/server/blob"
	"github.com/google/uuid"
)

var (
	ErrMissingBucket = errors.New("bucket is required")
	ErrNoFiles       = errors.New("no files provided")
	ErrEmptyKey      = errors.New("file key is required")
	ErrDuplicateKey  = errors.New("duplicate file key")
)

// UploadService uploads keyed batches to the blob backend. It keeps no state
// between requests.
type UploadService struct {
	backend blob.Backend
	pacer   *batch.Pacer
	limit   int
	now     func() time.Time
}

func NewUploadService(cfg *Config, backend blob.Backend) *UploadService {
	return &UploadService{
		backend: backend,
		pacer:   batch.NewPacer(cfg.SignChunkSize, cfg.SignChunkDelay),
		limit:   cfg.MaxConcurrency,
		now:     time.Now,
	}
}

func (s *UploadService) Start(ctx context.Context) error {
	slog.Debug("upload service start", "signChunkSize", s.pacer.ChunkSize, "signChunkDelay", s.pacer.Delay, "maxConcurrency", s.limit)
	return nil
}

func (s *UploadService) Shutdown(ctx context.Context) error {
	slog.Debug("upload service shutdown")
	return nil
}

// UploadBatch stores every item under a generated path. Every item settles,
// and the response carries exactly one result per input key.
func (s *UploadService) UploadBatch(ctx context.Context, bucket string, items []*Item) (*BatchResponse, error) {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	if err := validateBatch(bucket, keys); err != nil {
		return nil, err
	}

	log := slog.With("batch", uuid.NewString(), "bucket", bucket)
	start := time.Now()
	outcomes := batch.SettleAll(ctx, items, s.limit, func(ctx context.Context, item *Item) (*blob.PutObjectResponse, error) {
		return s.backend.PutObject(ctx, &blob.PutObjectParams{
			Bucket:      bucket,
			Key:         GeneratePath(item.ContentType, s.now()),
			ContentType: item.ContentType,
			Size:        item.Size,
			Body:        item.Body,
		})
	})

	var totalBytes int64
	failed := 0
	results := make([]*Result, len(items))
	for i, o := range outcomes {
		key := items[i].Key
		if !o.OK() {
			failed++
			log.Warn("upload item failed", "key", key, "file", items[i].FileName, "error", o.Err)
			results[i] = &Result{Key: key, Error: o.Err.Error()}
			continue
		}
		totalBytes += o.Value.Size
		results[i] = &Result{Key: key, Success: true, URL: o.Value.URL, Path: o.Value.Key}
	}

	log.Info("upload batch",
		"total", len(items),
		"failed", failed,
		"size", humanize.Bytes(uint64(totalBytes)),
		"took", time.Since(start))

	return &BatchResponse{
		Success: failed == 0,
		Results: results,
		Summary: summarize(len(items), failed),
	}, nil
}

// SignBatch mints signed upload URLs in paced chunks so the credential issuer
// is not hit with the whole batch at once.
func (s *UploadService) SignBatch(ctx context.Context, bucket string, reqs []*SignRequest) (*SignBatchResponse, error) {
	keys := make([]string, len(reqs))
	for i, r := range reqs {
		keys[i] = r.Key
	}
	if err := validateBatch(bucket, keys); err != nil {
		return nil, err
	}

	log := slog.With("batch", uuid.NewString(), "bucket", bucket)
	start := time.Now()
	outcomes := batch.RunPaced(ctx, s.pacer, reqs, func(ctx context.Context, r *SignRequest) (*blob.PresignedUpload, error) {
		return s.backend.PutObjectPresigned(ctx, &blob.PresignParams{
			Bucket:      bucket,
			Key:         GeneratePath(r.ContentType, s.now()),
			ContentType: r.ContentType,
		})
	})

	failed := 0
	results := make([]*SignResult, len(reqs))
	for i, o := range outcomes {
		key := reqs[i].Key
		if !o.OK() {
			failed++
			log.Warn("signed url failed", "key", key, "file", reqs[i].FileName, "error", o.Err)
			results[i] = &SignResult{Key: key, Error: o.Err.Error()}
			continue
		}
		results[i] = &SignResult{
			Key:       key,
			Success:   true,
			SignedURL: o.Value.URL,
			Path:      o.Value.Path,
			Token:     o.Value.Token,
		}
	}

	log.Info("signed url batch", "total", len(reqs), "failed", failed, "took", time.Since(start))

	return &SignBatchResponse{
		Success:    failed == 0,
		SignedURLs: results,
		Summary:    summarize(len(reqs), failed),
	}, nil
}

func validateBatch(bucket string, keys []string) error {
	if bucket == "" {
		return ErrMissingBucket
	}
	if len(keys) == 0 {
		return ErrNoFiles
	}

	seen := mapset.NewThreadUnsafeSetWithSize[string](len(keys))
	for _, key := range keys {
		if key == "" {
			return ErrEmptyKey
		}
		if !seen.Add(key) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
	}
	return nil
}
