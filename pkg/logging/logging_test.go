package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},

		{"DEBUG", LevelDebug},
		{"WARNING", LevelWarn},
		{"Error", LevelError},
		{"dEbUg", LevelDebug},

		// Empty and unrecognized default to Info
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromStrings_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := Component(FromStrings("debug", "json", &buf), "cache")

	log.Debug("saved", "key", "k")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if entry["msg"] != "saved" || entry["component"] != "cache" || entry["key"] != "k" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestFromStrings_Level(t *testing.T) {
	var buf bytes.Buffer
	log := FromStrings("warn", "text", &buf)

	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info entry written at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestComponent_NilLogger(t *testing.T) {
	if Component(nil, "x") == nil {
		t.Fatal("Component(nil) returned nil")
	}
}
