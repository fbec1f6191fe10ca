package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"info", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesKeyValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	logger := New(&buf, "test")

	logger.Debug("round ended", "score", 120)

	out := buf.String()
	if !strings.Contains(out, "round ended") || !strings.Contains(out, "score=120") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestSetupReadsLevelFromDotEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	var buf bytes.Buffer
	logger, err := Setup(&buf, "test", path)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("spawned", "category", "rare")

	if !strings.Contains(buf.String(), "category=rare") {
		t.Fatalf("debug line dropped, level from .env ignored: %q", buf.String())
	}
}

func TestSetupReportsUnreadableDotEnv(t *testing.T) {
	// A directory exists but cannot be read as an env file.
	var buf bytes.Buffer
	logger, err := Setup(&buf, "test", t.TempDir())
	if err == nil {
		t.Fatalf("Setup accepted an unreadable .env")
	}
	if logger == nil {
		t.Fatalf("Setup returned no logger alongside the error")
	}
}
