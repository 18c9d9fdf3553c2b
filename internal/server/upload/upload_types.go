package upload

import (
	"io"
)

// Item is one keyed file of a proxied batch.
type Item struct {
	Key         string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
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

type SignRequest struct {
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type SignResult struct {
	Key       string `json:"key"`
	Success   bool   `json:"success"`
	SignedURL string `json:"signedUrl,omitempty"`
	Path      string `json:"path,omitempty"`
	Token     string `json:"token,omitempty"`
	Error     string `json:"error,omitempty"`
}

type SignBatchResponse struct {
	Success    bool          `json:"success"`
	SignedURLs []*SignResult `json:"signedUrls"`
	Summary    Summary       `json:"summary"`
}

func summarize(total, failed int) Summary {
	return Summary{Total: total, Succeeded: total - failed, Failed: failed}
}
