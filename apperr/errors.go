// Package apperr holds the error taxonomy shared by the analysis chain.
// Every failure is terminal for the operation in flight; nothing retries.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Match with errors.Is.
var (
	ErrInvalidURL  = errors.New("invalid repository url; use github.com/owner/repo or owner/repo")
	ErrNotFound    = errors.New("repository not found")
	ErrFileMissing = errors.New("file not found in repository")
	ErrUpstream    = errors.New("upstream request failed")
	ErrMissingData = errors.New("no completed analysis to export")
)

// UpstreamError carries the status and message of a failed remote call.
type UpstreamError struct {
	Service string // "github" or "chat"
	Status  int    // HTTP status, 0 when the call never got a response
	Message string
	Err     error // transport cause, nil for HTTP error responses
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Err}
}

// Upstream builds an *UpstreamError.
func Upstream(service string, status int, msg string) error {
	return &UpstreamError{Service: service, Status: status, Message: msg}
}

// Transport builds an *UpstreamError for a call that never got a response.
// The cause stays reachable, so a context deadline still matches
// context.DeadlineExceeded.
func Transport(service string, err error) error {
	return &UpstreamError{Service: service, Message: err.Error(), Err: err}
}
