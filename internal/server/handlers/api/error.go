package api

import "fmt"

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("figurevault api error: code=%s, message=%s", e.Code, e.Message)
}

// BatchFailure is the body of a 500 from the batch endpoints. Callers match on
// the fixed Error string and read Details for the cause.
type BatchFailure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

const BatchFailedMessage = "batch upload failed"
