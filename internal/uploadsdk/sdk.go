package uploadsdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/figurevault/figurevault/internal/utils"
	"github.com/figurevault/figurevault/internal/version"
	"github.com/imroc/req/v3"
)

const DefaultTimeout = 2 * time.Minute

// Client talks to the FigureVault upload endpoints. It never retries, a
// failed batch is reported back to the caller as is.
type Client struct {
	api     *req.Client
	storage *req.Client
}

type Option func(*Client)

// WithTimeout bounds every request, including direct-to-storage PUTs.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.api.SetTimeout(d)
		c.storage.SetTimeout(d)
	}
}

func WithDebug() Option {
	return func(c *Client) {
		c.api.EnableDumpAllWithoutBody()
	}
}

func New(serverURL string, opts ...Option) (*Client, error) {
	if serverURL == "" {
		return nil, ErrNoServerURL
	}
	if !utils.IsValidURL(serverURL) {
		return nil, fmt.Errorf("sdk: invalid server url %q", serverURL)
	}

	c := &Client{
		api: req.C().
			SetBaseURL(serverURL).
			SetUserAgent(version.UserAgent()).
			SetTimeout(DefaultTimeout).
			SetJsonMarshal(jsonMarshal).
			SetJsonUnmarshal(jsonUnmarshal).
			SetCommonErrorResult(&APIError{}),
		storage: req.C().
			SetUserAgent(version.UserAgent()).
			SetTimeout(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadBatch sends every file in one multipart request. The server answers
// 200 with per-key results even when some items failed.
func (c *Client) UploadBatch(ctx context.Context, bucket string, files []*File) (apiResp *BatchResponse, err error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	uploads := make([]req.FileUpload, len(files))
	for i, f := range files {
		uploads[i] = fileUpload(f)
	}

	r := c.api.R().
		SetContext(ctx).
		SetFormData(map[string]string{fieldBucket: bucket})
	// one upload per call: req's SetFileUpload keeps &loopVar, which aliases
	// under pre-1.22 loop semantics when given several uploads at once
	for _, u := range uploads {
		r.SetFileUpload(u)
	}
	resp, err := r.
		SetSuccessResult(&apiResp).
		Post(pathUploadBatch)

	if err := handleAPIError(resp, err, "upload batch"); err != nil {
		return nil, err
	}
	return apiResp, nil
}

// SignedUploadURLs asks the server for one signed PUT URL per file.
func (c *Client) SignedUploadURLs(ctx context.Context, bucket string, files []*SignedURLRequest) (apiResp *SignedURLBatchResponse, err error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(&signedURLBatchRequest{Bucket: bucket, Files: files}).
		SetSuccessResult(&apiResp).
		Post(pathSignedUploadURLs)

	if err := handleAPIError(resp, err, "signed upload urls"); err != nil {
		return nil, err
	}
	return apiResp, nil
}

// PutSigned uploads f straight to object storage using a signed URL.
func (c *Client) PutSigned(ctx context.Context, signedURL string, f *File) error {
	resp, err := c.storage.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentTypeOf(f)).
		SetBodyBytes(f.Data).
		Put(signedURL)
	if err != nil {
		return fmt.Errorf("put signed %s: %w", f.Key, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("put signed %s: %w", f.Key, &APIError{StatusCode: resp.StatusCode, Message: resp.Status})
	}
	return nil
}
