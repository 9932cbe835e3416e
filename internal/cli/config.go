package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/diewo77/invoice-dashboard/internal/search"
	"gopkg.in/yaml.v3"
)

// Config is read from the --config YAML file. Flags win over it.
type Config struct {
	Server string        `yaml:"server"`
	Delay  time.Duration `yaml:"delay"`
}

// DefaultConfig targets a local server with the standard debounce delay.
func DefaultConfig() Config {
	server := os.Getenv("INVOICES_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}
	return Config{Server: server, Delay: search.DefaultDelay}
}

// LoadConfig overlays the file at path on DefaultConfig. A missing file is
// not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if file.Server != "" {
		cfg.Server = file.Server
	}
	if file.Delay < 0 {
		return Config{}, fmt.Errorf("invalid %s: delay must not be negative", path)
	}
	if file.Delay > 0 {
		cfg.Delay = file.Delay
	}
	return cfg, nil
}
