package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a looked-up entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when registering a duplicate username.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUpstream marks failures talking to a provider or the search API.
	ErrUpstream = errors.New("upstream error")
	// ErrUnsupportedProvider is returned for provider tags with no client.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrInvalidRequest is returned when input fails validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// UpstreamError wraps a failure from an upstream call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: upstream error", e.Provider)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// NewUpstreamError wraps err as an UpstreamError for provider.
func NewUpstreamError(provider string, err error) error {
	return &UpstreamError{Provider: provider, Err: err}
}
