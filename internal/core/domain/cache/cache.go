package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotFound reports an absent key. It is a normal outcome, not a failure.
	ErrNotFound = errors.New("cache: key not found")
	// ErrInvalidCapacity is returned when a cache is built with capacity <= 0.
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
)

// StoreUnavailableError wraps any failure of the backing store (timeout,
// refused connection, protocol error). Callers may retry.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("cache store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Timeout reports whether the store call hit its deadline.
func (e *StoreUnavailableError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Temporary is always true: every store failure is retryable.
func (e *StoreUnavailableError) Temporary() bool { return true }

// IsStoreUnavailable reports whether err is, or wraps, a StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var sue *StoreUnavailableError
	return errors.As(err, &sue)
}

// Entry is a single cached payload with its recency score.
type Entry struct {
	Key   string
	Value []byte
	Score float64
}

// Mutation is a batch applied atomically by a RecencyStore: every key in
// Remove loses both its value and its recency entry, then Put (if any) is
// written to both structures.
type Mutation struct {
	Remove []string
	Put    *Entry
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Size     int64 `json:"size"`
	Capacity int   `json:"capacity"`
}
