package id

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestFrom_Format(t *testing.T) {
	got := From("users", 42)
	if !hexDigest.MatchString(got.String()) {
		t.Errorf("From() = %q, want 32 hex characters", got)
	}
}

func TestFrom_KnownDigest(t *testing.T) {
	// md5("") and md5("abc") are fixed points of the hash.
	assert.Equal(t, ID("d41d8cd98f00b204e9800998ecf8427e"), From())
	assert.Equal(t, ID("900150983cd24fb0d6963f7d28e17f72"), From("abc"))
	assert.Equal(t, From("abc"), From("a", "b", "c"), "parts are concatenated")
}

func TestFrom_Literals(t *testing.T) {
	tests := []struct {
		name  string
		parts []any
		same  []any
	}{
		{"int", []any{7}, []any{"7"}},
		{"int64", []any{int64(-3)}, []any{"-3"}},
		{"uint", []any{uint8(9)}, []any{"9"}},
		{"float", []any{1.5}, []any{"1.5"}},
		{"true", []any{true}, []any{"1"}},
		{"false", []any{"x", false}, []any{"x"}},
		{"bytes", []any{[]byte("raw")}, []any{"raw"}},
		{"map", []any{map[string]int{"a": 1}}, []any{`{"a":1}`}},
		{"slice", []any{[]string{"a", "b"}}, []any{`["a","b"]`}},
		{"nil", []any{nil}, []any{"null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, From(tt.same...), From(tt.parts...))
		})
	}
}

type named string

func TestFrom_StringKinds(t *testing.T) {
	assert.Equal(t, From("abc"), From(named("abc")))
}

func TestFrom_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		parts := []any{"seq", i, map[string]any{"n": i}}
		if From(parts...) != From(parts...) {
			t.Fatalf("From(%v) is not deterministic", parts)
		}
	}
}

func TestFrom_DistinctInputs(t *testing.T) {
	seen := make(map[ID]string, 10000)
	for i := 0; i < 10000; i++ {
		key := fmt.Sprintf("resource-%d", i)
		got := From("sequence", key)
		if prev, ok := seen[got]; ok {
			t.Fatalf("From() collision between %q and %q", prev, key)
		}
		seen[got] = key
	}
}
