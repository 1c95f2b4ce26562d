package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MIRTK/NeoSeg/internal/defs"
)

// Loader reads configuration from the neoseg.yaml parameters file.
// It is thread-safe via sync.Mutex.
type Loader struct {
	mu         sync.Mutex
	fileLoaded bool
}

// NewLoader creates a new Loader instance.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration file from the given parameters directory and
// returns a Config with defaults applied for missing fields. A missing file
// yields pure defaults with a warning; invalid YAML is an error.
func (l *Loader) Load(paramsDir string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fileLoaded = false
	cfg := NewDefaultConfig()

	path := filepath.Join(filepath.Clean(paramsDir), defs.ConfigYAML)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("configuration file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// Unmarshal over the defaults so absent fields keep their default values.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}

	// An atlases key present but empty would otherwise erase the default
	// registry; keep the compiled default in that case.
	if len(cfg.Atlases) == 0 {
		cfg.Atlases = NewDefaultConfig().Atlases
	}

	l.fileLoaded = true
	return cfg, nil
}

// FileLoaded reports whether the last Load read a configuration file
// (as opposed to returning pure defaults).
func (l *Loader) FileLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fileLoaded
}
