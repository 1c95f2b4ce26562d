package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MIRTK/NeoSeg/internal/defs"
)

// managerState represents the lifecycle state of the Manager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// Manager provides thread-safe configuration management.
// It must be initialized via Load() before use.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	root   string
	state  managerState
	loader *Loader
}

// NewManager creates a new Manager instance in uninitialized state.
func NewManager() *Manager {
	return &Manager{
		loader: NewLoader(),
		state:  stateUninitialized,
	}
}

// Load reads configuration from the installation's parameters directory.
// It merges file values with compiled defaults and applies environment
// variable overrides. The configuration is validated before being stored.
func (m *Manager) Load(installRoot string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	paramsDir := filepath.Join(filepath.Clean(installRoot), defs.ParametersDir)

	// Support NEOSEG_CONFIG_DIR environment variable override
	if envDir := os.Getenv(defs.ConfigDirEnv); envDir != "" {
		paramsDir = filepath.Clean(envDir)
	}

	cfg, err := m.loader.Load(paramsDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Apply environment variable overrides (higher priority than the file)
	applyEnvOverrides(cfg)

	// Validate the merged configuration
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	m.config = cfg
	m.root = installRoot
	m.state = stateInitialized

	return cfg, nil
}

// Get returns the current in-memory configuration.
// Returns nil if the manager has not been initialized via Load().
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Root returns the installation root the configuration was loaded from.
// Returns ErrNotInitialized if Load() has not been called.
func (m *Manager) Root() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == stateUninitialized {
		return "", ErrNotInitialized
	}
	return m.root, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// NEOSEG_LOG_LEVEL and the conventional NO_COLOR take precedence over file
// values so batch systems can adjust runs without editing neoseg.yaml.
func applyEnvOverrides(cfg *Config) {
	if lvl := os.Getenv("NEOSEG_LOG_LEVEL"); lvl != "" {
		cfg.System.LogLevel = lvl
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.System.NoColor = true
	}
}
