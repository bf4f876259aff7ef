package models

import "errors"

var (
	// ErrEmptyQuery rejects a search before any work is done.
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrStoreUnavailable means the rate-limit store could not be reached.
	// Callers decide fail-open vs fail-closed; they must not ignore it.
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
