package upload

import "github.com/figurevault/figurevault/internal/server/upload"

const (
	FieldBucket    = "bucket"
	FileKeyPrefix  = "file-"
	sniffReadLimit = 3072
)

type SignedUploadRequest struct {
	Bucket string                `json:"bucket"`
	Files  []*upload.SignRequest `json:"files"`
}
