package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// CLIConfig configures liftlog-cli. It is read from the environment only.
type CLIConfig struct {
	Server   string        `env:"LIFTLOG_SERVER,required,notEmpty"`
	StateDir string        `env:"LIFTLOG_STATE_DIR" envDefault:"~/.liftlog"`
	Timeout  time.Duration `env:"LIFTLOG_TIMEOUT" envDefault:"15s"`
}

// LoadCLI parses the CLI environment and expands a leading ~ in StateDir.
func LoadCLI() (*CLIConfig, error) {
	var cfg CLIConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg.Server = strings.TrimRight(cfg.Server, "/")
	if !strings.HasPrefix(cfg.Server, "http://") && !strings.HasPrefix(cfg.Server, "https://") {
		return nil, fmt.Errorf("LIFTLOG_SERVER must start with http:// or https://, got %q", cfg.Server)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("LIFTLOG_TIMEOUT must be positive, got %s", cfg.Timeout)
	}

	if rest, ok := strings.CutPrefix(cfg.StateDir, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, rest)
	}
	return &cfg, nil
}

// MirrorPath is the SQLite file holding offline session snapshots.
func (c *CLIConfig) MirrorPath() string {
	return filepath.Join(c.StateDir, "mirror.db")
}
