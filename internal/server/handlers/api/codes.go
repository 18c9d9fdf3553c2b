package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeNotFound       = "E_NOT_FOUND"       // no such route
	CodeNotAllowed     = "E_METHOD_NOT_ALLOWED"

	// Upload errors
	CodeUploadMissingBucket = "E_UPLOAD_MISSING_BUCKET" // the batch did not name a destination bucket.
	CodeUploadNoFiles       = "E_UPLOAD_NO_FILES"       // the batch carried zero files.
	CodeUploadDuplicateKey  = "E_UPLOAD_DUPLICATE_KEY"  // two files in the batch share a key.
	CodeUploadFailed        = "E_UPLOAD_FAILED"         // the batch could not be processed at all.
)
