// pkg/core/load.go
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	manifest "github.com/joeydtaylor/steeze-webapp/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML manifest at path on top of manifest.Default,
// applies env overrides and validates. A missing file yields the defaults.
func LoadConfig(path string) (manifest.Config, error) {
	cfg := manifest.Default()

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return manifest.Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return manifest.Config{}, err
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}
