package state

import "errors"

var (
	// ErrNoSession is returned when a mutation targets a client that has no
	// bound state yet.
	ErrNoSession = errors.New("state: no session")

	// ErrItemNotFound is returned when a to-do item ID is not in the list.
	ErrItemNotFound = errors.New("state: item not found")

	// ErrUnsupportedVersion is returned when a stored record was written
	// by a newer serialization format.
	ErrUnsupportedVersion = errors.New("state: unsupported record version")
)
