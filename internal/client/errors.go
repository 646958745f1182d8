package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/edugen/studio/internal/validator"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// Unauthorized reports whether the backend rejected the session.
func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// errorBody is the structured error the backend returns. Only "error" is
// guaranteed; the rest is present on newer backends.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = strings.TrimSpace(body.Error)
		apiErr.Code = body.Code
		apiErr.RequestID = body.RequestID
	}
	return apiErr
}

// Fallback messages shown when the backend gives no structured error.
const (
	FallbackLogin             = "Login failed. Please try again."
	FallbackRegister          = "Registration failed. Please try again."
	FallbackLoad              = "Failed to load material."
	FallbackList              = "Failed to load materials."
	FallbackSave              = "Failed to save changes."
	FallbackDelete            = "Failed to delete material."
	FallbackGenerate          = "Failed to generate material. Please try again."
	FallbackGenerateQuestions = "Failed to generate questions. Please try again."
	FallbackExport            = "Failed to export material."
	FallbackLogout            = "Logout failed."
)

// Message returns the text to show a user for err. Backend errors use the
// structured message when there is one, local validation errors their field
// messages, and everything else falls back to fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var verr *validator.Error
	if errors.As(err, &verr) {
		return strings.TrimPrefix(verr.Error(), "validation failed: ")
	}

	return fallback
}
