package uploadsdk

const (
	pathUploadBatch      = "/api/upload-batch"
	pathSignedUploadURLs = "/api/upload-batch/signed-upload-url"

	fieldBucket = "bucket"
)

// File is one keyed local file. Key doubles as the multipart field name, so
// it should start with "file-".
type File struct {
	Key         string
	Name        string
	ContentType string
	Data        []byte
}

type Result struct {
	Key     string `json:"key"`
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type BatchResponse struct {
	Success bool      `json:"success"`
	Results []*Result `json:"results"`
	Summary Summary   `json:"summary"`
}

// Lookup returns the result for key, or nil.
func (r *BatchResponse) Lookup(key string) *Result {
	if r == nil {
		return nil
	}
	for _, res := range r.Results {
		if res != nil && res.Key == key {
			return res
		}
	}
	return nil
}

type SignedURLRequest struct {
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type SignedURLResult struct {
	Key       string `json:"key"`
	Success   bool   `json:"success"`
	SignedURL string `json:"signedUrl,omitempty"`
	Path      string `json:"path,omitempty"`
	Token     string `json:"token,omitempty"`
	Error     string `json:"error,omitempty"`
}

type SignedURLBatchResponse struct {
	Success    bool               `json:"success"`
	SignedURLs []*SignedURLResult `json:"signedUrls"`
	Summary    Summary            `json:"summary"`
}

type signedURLBatchRequest struct {
	Bucket string              `json:"bucket"`
	Files  []*SignedURLRequest `json:"files"`
}
