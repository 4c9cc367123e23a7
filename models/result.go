package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for a missing message or an empty context set.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetchFailed is returned when a page could not be acquired or parsed.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrNoContext is returned when none of the requested URLs has stored content.
	ErrNoContext = errors.New("no website content available, please scrape a website first")
	// ErrUpstreamFailure is returned when the remote completion call fails.
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrEmptyResponse is the UpstreamFailure for a blank completion.
	ErrEmptyResponse = fmt.Errorf("%w: empty response", ErrUpstreamFailure)
	// ErrStorageCorrupt is returned when a persisted value cannot be decoded.
	ErrStorageCorrupt = errors.New("storage corrupt")
)

// Result is the uniform outcome of an answer request.
type Result struct {
	Success  bool     `json:"success"`
	Response string   `json:"response,omitempty"`
	Error    string   `json:"error,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	// Err keeps the classified error for callers mapping it to a status code.
	Err error `json:"-"`
}

// Failure builds an unsuccessful Result from err.
func Failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}
