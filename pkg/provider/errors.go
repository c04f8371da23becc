package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Error is a classified failure from a provider client.
type Error struct {
	Provider string
	Kind     models.ErrorKind
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind from any error produced inside the
// dispatch path. Unrecognized errors count as network failures.
func KindOf(err error) models.ErrorKind {
	if err == nil {
		return models.ErrKindNone
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return models.ErrKindCancelled
	}
	return models.ErrKindNetworkFailure
}

// classifyStatus maps an HTTP status code to an error kind. 5xx is
// transient; 429 is rate limiting; 401/403 is a credential problem;
// any other non-200 means the provider rejected the request outright.
func classifyStatus(code int) models.ErrorKind {
	switch {
	case code == http.StatusTooManyRequests:
		return models.ErrKindRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return models.ErrKindAuthFailure
	case code >= 500:
		return models.ErrKindNetworkFailure
	default:
		return models.ErrKindInvalidResponse
	}
}

// classifyTransport maps a transport-level error. Caller cancellation
// stays distinct from timeouts and connection failures.
func classifyTransport(provider string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Provider: provider, Kind: models.ErrKindCancelled, Message: "request cancelled", Err: err}
	}
	return &Error{Provider: provider, Kind: models.ErrKindNetworkFailure, Message: "request failed", Err: err}
}
