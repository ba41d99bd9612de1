package resource

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrUnsupportedType is matched by errors for unregistered content types.
	ErrUnsupportedType = errors.New("unsupported resource type")

	// ErrInvalidHandler is returned when a handler cannot be registered.
	ErrInvalidHandler = errors.New("invalid resource handler")

	// ErrInvalidOverride is returned when Replace cannot apply an override.
	ErrInvalidOverride = errors.New("cannot replace resource using input")

	// ErrCannotGenerate is returned when no factory accepts an input.
	ErrCannotGenerate = errors.New("could not generate resource from input")
)

// UnsupportedTypeError is returned when no handler is registered for a content type.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cannot handle resource of type %q", e.ContentType)
}

// Is reports whether target is ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// StatusCode returns the HTTP status code for this error.
func (e *UnsupportedTypeError) StatusCode() int {
	return http.StatusUnsupportedMediaType
}

// DecodeError is returned when raw content cannot be decoded for its content type.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *DecodeError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// FileError is returned when a resource file is unreadable at every candidate location.
type FileError struct {
	Path  string
	Tried []string
	Err   error
}

func (e *FileError) Error() string {
	if len(e.Tried) > 1 {
		return fmt.Sprintf("could not read file %s (tried %s)", e.Path, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("could not read file %s", e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *FileError) StatusCode() int {
	return http.StatusNotFound
}

// GenerationError wraps a failure to turn an input into a resource.
type GenerationError struct {
	// Input names the Go type of the rejected input.
	Input string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate resource from %s: %v", e.Input, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
// Wrapped errors that carry their own status take precedence.
func (e *GenerationError) StatusCode() int {
	var sc interface{ StatusCode() int }
	if errors.As(e.Err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusUnprocessableEntity
}

// EncodingError is returned when a body cannot be encoded in the declared charset.
type EncodingError struct {
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode body as %q: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for this error.
func (e *EncodingError) StatusCode() int {
	return http.StatusInternalServerError
}
