package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")

	logger, err := New(Options{Level: "debug", File: path, Prefix: "arena"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Debug("tick", "n", 42)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "tick") || !strings.Contains(line, "n=42") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")

	logger, err := New(Options{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("warn line should be written")
	}
}
