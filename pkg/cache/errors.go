package cache

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrUnsupported is matched by every UnsupportedError.
	ErrUnsupported = errors.New("operation not supported")

	// ErrClosed is returned by pools used after Close.
	ErrClosed = errors.New("cache pool is closed")
)

// StorageError wraps an I/O failure in a backend.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *StorageError) StatusCode() int {
	return http.StatusInternalServerError
}

// UnsupportedError is returned for operations a pool does not implement.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Op, ErrUnsupported)
}

// Is reports whether target is ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// StatusCode returns the HTTP status code for this error.
func (e *UnsupportedError) StatusCode() int {
	return http.StatusNotImplemented
}

// ValidationError is returned for invalid pool configuration or arguments.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Wrap turns err into a StorageError unless it already carries a cache error type.
func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	var ve *ValidationError
	if errors.As(err, &se) || errors.As(err, &ve) || errors.Is(err, ErrUnsupported) {
		return err
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
