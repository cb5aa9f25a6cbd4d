package models

import (
	"errors"
	"fmt"
)

// ErrCatalogUnavailable is the terminal failure of the acquisition chain,
// reachable only when even the demo dataset is empty.
var ErrCatalogUnavailable = errors.New("catalog temporarily unavailable")

// NetworkError reports a non-success HTTP status from a remote call.
type NetworkError struct {
	StatusCode int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote returned status %d", e.StatusCode)
}

// TimeoutError reports an aborted call whose deadline was exceeded.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a response body that violates the expected contract.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Reason)
}

// StorageError reports a persistence failure. It is always recovered locally
// and never surfaces past the cache store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing required server-side setting, surfaced only
// at the search proxy boundary.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Missing)
}
