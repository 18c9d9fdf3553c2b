package blob

import (
	"context"
	"io"
)

// Backend is the object storage collaborator. It stores bytes under a key in
// a bucket and hands back retrievable URLs or short-lived upload credentials.
// Implementations must be safe for concurrent use with distinct keys.
type Backend interface {
	// PutObject uploads a single object and returns where it can be retrieved
	PutObject(ctx context.Context, params *PutObjectParams) (*PutObjectResponse, error)

	// PutObjectPresigned mints a signed URL the caller can PUT the object to directly
	PutObjectPresigned(ctx context.Context, params *PresignParams) (*PresignedUpload, error)

	// ObjectURL returns the retrievable URL of an object, without checking it exists
	ObjectURL(bucket, key string) string

	// Provider names the implementation, for logs
	Provider() string
}

type PutObjectParams struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PutObjectResponse struct {
	Bucket string
	Key    string
	ETag   string
	Size   int64
	URL    string
}

type PresignParams struct {
	Bucket      string
	Key         string
	ContentType string
}

type PresignedUpload struct {
	URL   string
	Path  string
	Token string
}
