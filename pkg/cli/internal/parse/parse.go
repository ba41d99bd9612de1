// Package parse turns command-line arguments into mockrr values.
package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KeyValue splits s at the first of delimiters, ':' by default.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}
	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Headers parses "Name: value" strings. Names and values are trimmed; an
// entry without a colon or with an empty name is an error.
func Headers(headers []string) (map[string]string, error) {
	result := make(map[string]string, len(headers))
	for _, h := range headers {
		key, value, ok := KeyValue(h, ':')
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

// JSON decodes arg when it is a JSON document and returns it unchanged
// otherwise.
func JSON(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err == nil {
		return v
	}
	return arg
}

// Structured decodes arg when it is a JSON object or array.
func Structured(arg string) (any, bool) {
	trimmed := strings.TrimSpace(arg)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return v, true
}
