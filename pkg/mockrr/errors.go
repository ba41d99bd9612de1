package mockrr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getmockd/mockrr/pkg/cache"
)

var (
	// ErrVersioningDisabled is returned by version reads when versioning is off.
	ErrVersioningDisabled = fmt.Errorf("versioning is disabled: %w", &cache.UnsupportedError{Op: "versions"})

	// ErrContention is returned when a compare-and-swap cycle keeps losing.
	ErrContention = errors.New("too many concurrent updates")
)

// OutOfRangeError is returned when a sequence cursor points past its inputs.
type OutOfRangeError struct {
	Sequence string
	Cursor   int
	Len      int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("sequence %q: cursor %d out of range for %d inputs", e.Sequence, e.Cursor, e.Len)
}

// StatusCode returns the HTTP status code for this error.
func (e *OutOfRangeError) StatusCode() int {
	return http.StatusUnprocessableEntity
}
