package mockrr

import (
	"fmt"
	"strings"

	"github.com/getmockd/mockrr/internal/id"
	"github.com/getmockd/mockrr/pkg/cache"
)

// Reserved keys.
const (
	IndexKey      = "resources.cached"
	VersionsKey   = "resource.versions"
	CursorPrefix  = "seq_idx_"
	VersionPrefix = "resource.version."
)

// versionLayout formats snapshot timestamps so they sort lexically.
const versionLayout = "20060102T150405.000000000Z"

// IsReservedKey reports whether key is used for bookkeeping.
func IsReservedKey(key string) bool {
	return key == IndexKey ||
		key == VersionsKey ||
		strings.HasPrefix(key, CursorPrefix) ||
		strings.HasPrefix(key, VersionPrefix)
}

// ResourceID derives a deterministic id from parts. See id.From.
func ResourceID(parts ...any) string {
	return id.From(parts...).String()
}

func cursorKey(seq string) string {
	return CursorPrefix + seq
}

func versionKey(ts string) string {
	return VersionPrefix + ts
}

func checkID(key string) error {
	if key == "" {
		return &cache.ValidationError{Field: "id", Message: "must not be empty"}
	}
	if IsReservedKey(key) {
		return &cache.ValidationError{Field: "id", Message: fmt.Sprintf("%q is a reserved key", key)}
	}
	return nil
}
