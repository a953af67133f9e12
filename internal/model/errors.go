package model

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a lookup matched nothing. For most read paths
// this is a valid empty state rather than a failure; only direct
// single-entity lookups surface it to callers.
var ErrNotFound = errors.New("record not found")

// ErrMalformedRecord indicates a remote payload failed to decode into
// the expected shape. Tolerant callers (search, weekly fetch) treat it
// like ErrNotFound; direct-id lookups propagate it.
var ErrMalformedRecord = errors.New("malformed remote record")

// TransportError wraps a failed remote call (network, auth, quota).
// The sync layer never retries these; retry policy belongs to callers
// and to the remote transport itself.
type TransportError struct {
	Op  string // remote operation that failed, e.g. "get product"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
