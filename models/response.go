package models

import "net/http"

// RunResponse is the outcome of one tracker invocation, shaped like a
// function-runtime response.
type RunResponse struct {
	StatusCode int     `json:"statusCode"`
	Body       RunBody `json:"body"`
}

// RunBody carries either the run counters or the error message.
type RunBody struct {
	Message           string `json:"message,omitempty"`
	ProfilesProcessed int    `json:"profilesProcessed"`
	EmailsSent        int    `json:"emailsSent"`
	Error             string `json:"error,omitempty"`
}

// NewRunSuccess builds the 200 response.
func NewRunSuccess(processed, sent int) RunResponse {
	return RunResponse{
		StatusCode: http.StatusOK,
		Body: RunBody{
			Message:           "Records updated successfully",
			ProfilesProcessed: processed,
			EmailsSent:        sent,
		},
	}
}

// NewRunFailure builds the 500 response.
func NewRunFailure(err error) RunResponse {
	return RunResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       RunBody{Error: err.Error()},
	}
}
