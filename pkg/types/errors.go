package types

import (
	"errors"
	"fmt"
)

// Validation errors. Reported synchronously to the caller; the store is
// left unchanged.
var (
	ErrNameEmpty = errors.New("name must not be empty")
	ErrInvalidID = errors.New("invalid entity ID")
)

// Lookup errors. A mutation against a missing entity or item is a no-op,
// never fatal.
var (
	ErrNotFound = errors.New("account not found")
)

// Persistence errors.
var (
	// ErrCorruptState marks a local blob that failed to parse or had the
	// wrong shape. Loaders recover with an empty initial state.
	ErrCorruptState = errors.New("corrupt local state")

	// ErrRemoteUnavailable marks a missing or unreachable remote store.
	// Callers fall back to local-only operation.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Drag gesture errors.
var (
	ErrNotDragging  = errors.New("no drag in progress")
	ErrNoDropTarget = errors.New("no drop target")
)

// SyncError wraps a persistence adapter failure observed by the sync
// controller. The originating local mutation has already been applied and
// stands; the error is advisory only.
type SyncError struct {
	Op  string // "upsert", "patch", or "delete"
	ID  string // account ID the write targeted
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
