package uploadsdk

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL = errors.New("sdk: server url missing")
	ErrNoBucket    = errors.New("sdk: bucket missing")
	ErrNoFiles     = errors.New("sdk: no files")
)

// APIError is a non-2xx answer from the upload server. Request-shape errors
// carry a Code, batch failures carry Details.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
	Details    string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error: status=%d", e.StatusCode)
	if e.Code != "" {
		msg += " code=" + e.Code
	}
	msg += " message=" + e.Message
	if e.Details != "" {
		msg += " details=" + e.Details
	}
	return msg
}

// IsBadRequest reports whether err is a 400 from the server.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 400
}

func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok && (apiErr.Message != "" || apiErr.Code != "") {
			apiErr.StatusCode = resp.StatusCode
			return fmt.Errorf("%s: %w", operation, apiErr)
		}
		return fmt.Errorf("%s: %w", operation, &APIError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	return nil
}
