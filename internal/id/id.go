// Package id derives deterministic resource identifiers.
package id

import (
	"crypto/md5" //nolint:gosec // ids are names, not signatures
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ID is an opaque, immutable resource identifier.
type ID string

// String returns the hex digest.
func (i ID) String() string {
	return string(i)
}

// From derives an ID from the concatenation of parts.
func From(parts ...any) ID {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(literal(p))
	}
	sum := md5.Sum([]byte(b.String())) //nolint:gosec
	return ID(hex.EncodeToString(sum[:]))
}

// literal returns the string contributed by a single part.
func literal(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return ""
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(p)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return literal(rv.Bool())
	}

	data, err := json.Marshal(p)
	if err != nil {
		// Unserializable parts (channels, funcs) still need a stable name.
		return fmt.Sprintf("%T", p)
	}
	return string(data)
}
