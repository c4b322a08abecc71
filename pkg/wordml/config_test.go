package wordml

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Author != "" || cfg.StrictMode {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("WORDML_LOG_LEVEL", "debug")
	t.Setenv("WORDML_AUTHOR", "Env Author")
	t.Setenv("WORDML_STRICT_MODE", "true")

	cfg := ConfigFromEnvironment()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Author != "Env Author" {
		t.Errorf("Author = %q", cfg.Author)
	}
	if !cfg.StrictMode {
		t.Error("StrictMode = false, want true")
	}
}

func TestConfigValidate(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "off"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", level, err)
		}
	}
	cfg := DefaultConfig()
	cfg.LogLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate(verbose) = nil, want error")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		if got := parseBool(tt.in); got != tt.want {
			t.Errorf("parseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGlobalConfigSwap(t *testing.T) {
	orig := GetGlobalConfig()
	t.Cleanup(func() { SetGlobalConfig(orig) })

	custom := &Config{LogLevel: "error", Author: "Swap"}
	SetGlobalConfig(custom)
	if got := GetGlobalConfig(); got.Author != "Swap" {
		t.Errorf("GetGlobalConfig().Author = %q", got.Author)
	}
}
