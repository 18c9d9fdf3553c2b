package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/figurevault/figurevault/internal/batch"
	"github.com/figurevault/figurevault/internal/uploadsdk"
)

// Item is one keyed file handed to the coordinator.
type Item = uploadsdk.File

var errMissingResult = errors.New("no result for key")

// Uploader is the transport the coordinator drives. *uploadsdk.Client
// implements it.
type Uploader interface {
	UploadBatch(ctx context.Context, bucket string, files []*uploadsdk.File) (*uploadsdk.BatchResponse, error)
	SignedUploadURLs(ctx context.Context, bucket string, files []*uploadsdk.SignedURLRequest) (*uploadsdk.SignedURLBatchResponse, error)
	PutSigned(ctx context.Context, signedURL string, f *uploadsdk.File) error
}

type Coordinator struct {
	client Uploader
	limit  int
}

// New returns a coordinator. limit bounds concurrent direct PUTs, zero means
// unbounded.
func New(client Uploader, limit int) *Coordinator {
	return &Coordinator{client: client, limit: limit}
}

// Upload sends the whole batch in one request through the server. Every key
// ends up done or failed in progress. A transport error fails every key and is
// returned; per-item failures are only visible in the response.
func (c *Coordinator) Upload(ctx context.Context, bucket string, items []*Item, progress *Progress) (*uploadsdk.BatchResponse, error) {
	keys := itemKeys(items)
	progress.setAll(keys, StatusPending)
	progress.setAll(keys, StatusUploading)

	resp, err := c.client.UploadBatch(ctx, bucket, items)
	if err != nil {
		progress.setAll(keys, StatusFailed)
		return nil, fmt.Errorf("upload batch: %w", err)
	}

	for _, key := range keys {
		if res := resp.Lookup(key); res != nil && res.Success {
			progress.Set(key, StatusDone)
		} else {
			progress.Set(key, StatusFailed)
		}
	}

	slog.Debug("upload batch done", "bucket", bucket, "total", resp.Summary.Total, "failed", resp.Summary.Failed)
	return resp, nil
}

// UploadDirect asks the server for signed URLs and PUTs every file straight to
// storage. The returned response has the same shape as Upload's.
func (c *Coordinator) UploadDirect(ctx context.Context, bucket string, items []*Item, progress *Progress) (*uploadsdk.BatchResponse, error) {
	keys := itemKeys(items)
	progress.setAll(keys, StatusPending)

	reqs := make([]*uploadsdk.SignedURLRequest, len(items))
	for i, item := range items {
		reqs[i] = &uploadsdk.SignedURLRequest{Key: item.Key, FileName: item.Name, ContentType: item.ContentType}
	}

	signed, err := c.client.SignedUploadURLs(ctx, bucket, reqs)
	if err != nil {
		progress.setAll(keys, StatusFailed)
		return nil, fmt.Errorf("signed upload urls: %w", err)
	}

	byKey := make(map[string]*uploadsdk.SignedURLResult, len(signed.SignedURLs))
	for _, s := range signed.SignedURLs {
		if s != nil {
			byKey[s.Key] = s
		}
	}

	outcomes := batch.SettleAll(ctx, items, c.limit, func(ctx context.Context, item *Item) (*uploadsdk.Result, error) {
		s, ok := byKey[item.Key]
		if !ok {
			return nil, errMissingResult
		}
		if !s.Success {
			if s.Error == "" {
				return nil, errors.New("signing failed")
			}
			return nil, errors.New(s.Error)
		}

		progress.Set(item.Key, StatusUploading)
		if err := c.client.PutSigned(ctx, s.SignedURL, item); err != nil {
			return nil, err
		}
		return &uploadsdk.Result{Key: item.Key, Success: true, URL: stripQuery(s.SignedURL), Path: s.Path}, nil
	})

	resp := &uploadsdk.BatchResponse{Results: make([]*uploadsdk.Result, len(items))}
	for i, o := range outcomes {
		key := items[i].Key
		if !o.OK() {
			resp.Summary.Failed++
			progress.Set(key, StatusFailed)
			resp.Results[i] = &uploadsdk.Result{Key: key, Error: o.Err.Error()}
			continue
		}
		progress.Set(key, StatusDone)
		resp.Results[i] = o.Value
	}
	resp.Summary.Total = len(items)
	resp.Summary.Succeeded = len(items) - resp.Summary.Failed
	resp.Success = resp.Summary.Failed == 0

	slog.Debug("direct upload done", "bucket", bucket, "total", resp.Summary.Total, "failed", resp.Summary.Failed)
	return resp, nil
}

func itemKeys(items []*Item) []string {
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	return keys
}

// signed URLs point at the object, the query only carries the signature
func stripQuery(signedURL string) string {
	u, _, _ := strings.Cut(signedURL, "?")
	return u
}
