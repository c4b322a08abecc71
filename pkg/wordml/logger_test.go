package wordml

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(buf, LogWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the level must be suppressed")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the level must be written")
	}
}

func TestLoggerWithFields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(buf, LogInfo)

	logger.WithField("part", "word/document.xml").Info("loaded")
	if out := buf.String(); !strings.Contains(out, "part=word/document.xml") {
		t.Errorf("field missing from output: %q", out)
	}

	buf.Reset()
	logger.WithFields(Fields{"a": 1, "b": 2}).Info("pair")
	out := buf.String()
	if !strings.Contains(out, "a=1") || !strings.Contains(out, "b=2") {
		t.Errorf("fields missing from output: %q", out)
	}

	// The base logger must stay field-free.
	buf.Reset()
	logger.Info("bare")
	if out := buf.String(); strings.Contains(out, "part=") {
		t.Errorf("WithField must not mutate the parent logger: %q", out)
	}
}

func TestLoggerFormatting(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(buf, LogInfo)

	logger.Info("merged %d styles", 3)
	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("level tag missing: %q", out)
	}
	if !strings.Contains(out, "merged 3 styles") {
		t.Errorf("printf args not applied: %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogDebug},
		{"info", LogInfo},
		{"warn", LogWarn},
		{"error", LogError},
		{"off", LogOff},
		{"bogus", LogInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerNilWriter(t *testing.T) {
	logger := NewLogger(nil, LogDebug)
	// Must not panic.
	logger.Debug("into the void")
	if logger.IsDebugMode() != true {
		t.Error("IsDebugMode = false at debug level")
	}
}
