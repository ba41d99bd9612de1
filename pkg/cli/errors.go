package cli

import "errors"

// Common CLI errors
var (
	ErrNotCached = errors.New("not cached")
	ErrNotJSON   = errors.New("--path needs a JSON resource")
)
