package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("loud", ""); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNewFileOnlyWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sim.log")
	log, err := NewFileOnly("debug", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("period started")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"period started"`) || !strings.Contains(string(data), `"ts":`) {
		t.Errorf("unexpected log output %q", data)
	}
}

func TestNewFileOnlyWithoutFile(t *testing.T) {
	log, err := NewFileOnly("info", "")
	if err != nil || log == nil {
		t.Fatalf("expected a no-op logger, got %v %v", log, err)
	}
}
