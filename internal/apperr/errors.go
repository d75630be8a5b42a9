// Package apperr defines the sentinel error kinds used across the pipeline.
// All of them are caught at per-channel granularity; only errors raised
// outside the channel loop abort a run.
package apperr

import "errors"

var (
	// ErrNotFound marks a missing transcript or summary.
	ErrNotFound = errors.New("not found")
	// ErrFetch marks a failed upstream fetch (transport error or non-2xx).
	ErrFetch = errors.New("fetch failed")
	// ErrParse marks a malformed upstream response body.
	ErrParse = errors.New("parse failed")
	// ErrIO marks a file read or write failure.
	ErrIO = errors.New("io failure")
)
