package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyResponse is returned when the vendor answered without any text.
	ErrEmptyResponse = errors.New("ai: empty response")
	// ErrContentBlocked is wrapped by ProviderError when the vendor refused
	// the prompt or the answer on content-safety grounds.
	ErrContentBlocked = errors.New("ai: content blocked by safety filters")
)

// ProviderError is the structured failure signal of a vendor call.
type ProviderError struct {
	Provider   string
	StatusCode int
	// Status is the vendor's symbolic code, e.g. "UNAVAILABLE" or "invalid_api_key".
	Status  string
	Message string
	Blocked bool
	Err     error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Blocked:
		return fmt.Sprintf("%s: blocked: %s", e.Provider, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d %s: %s", e.Provider, e.StatusCode, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *ProviderError) Unwrap() error {
	if e.Blocked && e.Err == nil {
		return ErrContentBlocked
	}
	return e.Err
}

// NewStatusError builds a ProviderError for a non-2xx vendor response.
func NewStatusError(provider string, status int, code, message string) *ProviderError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &ProviderError{Provider: provider, StatusCode: status, Status: code, Message: message}
}

// NewBlockedError builds a ProviderError for a content-safety refusal.
func NewBlockedError(provider, reason string) *ProviderError {
	return &ProviderError{Provider: provider, Message: reason, Blocked: true, Err: ErrContentBlocked}
}
