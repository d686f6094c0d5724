package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the optional project config file, read with a tolerant
// JSON parser so comments and trailing commas don't break a hand-edited
// file.
const ConfigFileName = "config.json"

// Config holds the settings a Janus root directory may override.
type Config struct {
	DebounceMillis int `json:"debounce_ms,omitempty"`
}

// DefaultConfig returns the built-in defaults, used when no config file is
// present or a field is omitted.
func DefaultConfig() Config {
	return Config{DebounceMillis: 150}
}

// Load reads root's optional config.json, tolerantly (comments and
// trailing commas allowed via hujson). Returns defaults, no error, if the
// file does not exist.
func Load(root string) (Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(root, ConfigFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	standard, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := json.Unmarshal(standard, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
