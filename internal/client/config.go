// Package client is the HTTP client side of the task tracker: an API client
// that attaches the stored bearer token to every request, the persisted
// session and the task list view the CLI renders.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds client settings.
type Config struct {
	APIURL      string        `env:"API_URL" envDefault:"http://localhost:3001"`
	TokenFile   string        `env:"TASKS_TOKEN_FILE"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads client settings from the environment.
// An empty TASKS_TOKEN_FILE selects DefaultTokenFile.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse client config: %w", err)
	}
	if cfg.TokenFile == "" {
		path, err := DefaultTokenFile()
		if err != nil {
			return nil, err
		}
		cfg.TokenFile = path
	}
	return cfg, nil
}

// DefaultTokenFile is token.json under the user's config directory.
func DefaultTokenFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "tasktrack", "token.json"), nil
}
