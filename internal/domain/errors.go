package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the coverage store is missing or cannot be queried
	ErrStoreUnavailable = errors.New("coverage store unavailable")
	// ErrUnresolvedTestID is returned when a raw test id matches no known test file
	ErrUnresolvedTestID = errors.New("unresolved test id")
)
