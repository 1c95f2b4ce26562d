// Package cli provides the Cobra command tree and dependency wiring for the
// NeoSeg CLI. This file defines the Dependencies struct (Composition Root)
// that wires the configuration, atlas registry, and UI layers together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MIRTK/NeoSeg/internal/atlas"
	"github.com/MIRTK/NeoSeg/internal/config"
	"github.com/MIRTK/NeoSeg/internal/defs"
)

// Dependencies holds the services used by CLI commands. It is the only place
// where concrete types are instantiated and wired together.
type Dependencies struct {
	Config *config.Manager
	Logger *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
// CLI commands access this through the package-level variable.
var deps *Dependencies

// InitDependencies creates and wires the CLI dependencies. It should be
// called once during application startup. Installation-bound dependencies
// (configuration, atlas registry) are initialized lazily because --help and
// --version must work without DRAWEMDIR.
func InitDependencies() {
	// CLI output goes through the UI layer; the structured logger stays
	// quiet unless a command raises its level.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps = &Dependencies{
		Config: config.NewManager(),
		Logger: logger,
	}
}

// GetDeps returns the current Dependencies instance.
// Returns nil if InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// Installation is the resolved Draw-EM installation a command operates on.
type Installation struct {
	Root    string
	Config  *config.Config
	Atlases *atlas.Registry
}

// ScriptsDir returns the stage scripts directory.
func (i *Installation) ScriptsDir() string {
	return filepath.Join(i.Root, defs.ScriptsDir)
}

// AtlasesDir returns the atlas root directory.
func (i *Installation) AtlasesDir() string {
	return filepath.Join(i.Root, defs.AtlasesDir)
}

// loadInstallation resolves DRAWEMDIR, loads and validates the configuration,
// and builds the atlas registry. Every command that touches the installation
// goes through here so the failure modes stay uniform.
func loadInstallation() (*Installation, error) {
	root := os.Getenv(defs.DrawEMDirEnv)
	if root == "" {
		return nil, fmt.Errorf("%w: %s is not set", config.ErrInstallNotFound, defs.DrawEMDirEnv)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s=%s", config.ErrInstallNotFound, defs.DrawEMDirEnv, root)
	}

	cfg, err := deps.Config.Load(root)
	if err != nil {
		return nil, err
	}

	entries := make([]atlas.Atlas, len(cfg.Atlases))
	for i, a := range cfg.Atlases {
		entries[i] = atlas.Atlas{
			Name:        a.Name,
			MinAge:      a.MinAge,
			MaxAge:      a.MaxAge,
			TissueAtlas: a.TissueAtlas,
			Path:        a.Path,
		}
	}
	reg, err := atlas.NewRegistry(entries, cfg.DefaultAtlas)
	if err != nil {
		return nil, err
	}

	return &Installation{Root: root, Config: cfg, Atlases: reg}, nil
}

// newLogger builds the command logger: verbose runs log at debug to stderr,
// otherwise the configured level applies.
func newLogger(cfg *config.Config, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	} else {
		switch strings.ToLower(cfg.System.LogLevel) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "error":
			level = slog.LevelError
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
