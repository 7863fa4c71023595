package config

import (
	"path/filepath"
	"testing"
	"time"
)

// TestLoadCLIDefaults verifies the CLI defaults and trailing-slash trimming.
func TestLoadCLIDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LIFTLOG_SERVER", "http://liftlog.tailnet.ts.net/")
	t.Setenv("LIFTLOG_STATE_DIR", "")
	t.Setenv("LIFTLOG_TIMEOUT", "")

	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server != "http://liftlog.tailnet.ts.net" {
		t.Errorf("server = %q", cfg.Server)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("timeout = %s, want 15s", cfg.Timeout)
	}
	if want := filepath.Join(home, ".liftlog"); cfg.StateDir != want {
		t.Errorf("state dir = %q, want %q", cfg.StateDir, want)
	}
	if want := filepath.Join(home, ".liftlog", "mirror.db"); cfg.MirrorPath() != want {
		t.Errorf("mirror path = %q, want %q", cfg.MirrorPath(), want)
	}
}

// TestLoadCLIOverrides verifies explicit values win over defaults.
func TestLoadCLIOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LIFTLOG_SERVER", "https://gym.example.com")
	t.Setenv("LIFTLOG_STATE_DIR", dir)
	t.Setenv("LIFTLOG_TIMEOUT", "3s")

	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateDir != dir || cfg.Timeout != 3*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestLoadCLIInvalid verifies that a missing or malformed server is rejected.
func TestLoadCLIInvalid(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		timeout string
	}{
		{"missing server", "", ""},
		{"no scheme", "liftlog.local:8080", ""},
		{"bad timeout", "http://localhost:8080", "soon"},
		{"zero timeout", "http://localhost:8080", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LIFTLOG_SERVER", tt.server)
			t.Setenv("LIFTLOG_TIMEOUT", tt.timeout)
			if _, err := LoadCLI(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
