package session

import (
	"context"
	"errors"
	"fmt"
)

// Store defines the interface for per-client state persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load retrieves the value stored under key.
	// Returns (nil, nil) if the key doesn't exist.
	// Returns (nil, err) on backend errors.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the value stored under key.
	// Concurrent saves to the same key are last-writer-wins.
	Save(ctx context.Context, key string, data []byte) error

	// SaveIfAbsent stores data under key only if the key has no value yet.
	// It returns the value that is stored after the call and whether this
	// call was the one that stored it. Two concurrent callers for the same
	// key observe the same winning value.
	SaveIfAbsent(ctx context.Context, key string, data []byte) (current []byte, stored bool, err error)

	// Delete removes a key. Should not return an error if the key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrUnavailable matches every error caused by the backing store being
// unreachable, closed, or otherwise unable to complete an operation.
var ErrUnavailable = errors.New("session: store unavailable")

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "session store is closed"
}

// Is reports a closed store as unavailable.
func (e ErrStoreClosed) Is(target error) bool {
	return target == ErrUnavailable
}

// StoreError wraps a backend failure with the operation and key involved.
type StoreError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

// Error returns the error message with backend context.
func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("session: %s %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("session: %s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports every StoreError as unavailable.
func (e *StoreError) Is(target error) bool {
	return target == ErrUnavailable
}

func storeError(backend, op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Backend: backend, Op: op, Key: key, Err: err}
}

// maxCreateAttempts bounds SaveIfAbsent retries when the winning value
// disappears between the failed create and the follow-up read.
const maxCreateAttempts = 3

var errCreateRace = errors.New("value vanished during atomic create")
