package store

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound indicates no snapshot exists under the requested key.
var ErrKeyNotFound = errors.New("store: key not found")

// SerializationError wraps a failed history snapshot encode or decode.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("store: serialization error for key %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
