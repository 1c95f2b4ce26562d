package config

// Config is the root configuration aggregate read from neoseg.yaml.
type Config struct {
	System       SystemConfig   `yaml:"system"`
	Pipeline     PipelineConfig `yaml:"pipeline"`
	Atlases      []AtlasEntry   `yaml:"atlases"`
	DefaultAtlas string         `yaml:"default_atlas"`
}

// SystemConfig represents the system configuration section.
type SystemConfig struct {
	LogLevel       string `yaml:"log_level"`
	NoColor        bool   `yaml:"no_color"`
	NonInteractive bool   `yaml:"non_interactive"`
	DefaultThreads int    `yaml:"default_threads"`
}

// PipelineConfig represents the pipeline configuration section.
type PipelineConfig struct {
	// StageTimeoutSeconds bounds each stage; 0 disables the timeout.
	StageTimeoutSeconds int `yaml:"stage_timeout_seconds"`

	// Cleanup controls whether intermediate files are removed after a
	// successful run. Overridable per run with --cleanup.
	Cleanup *bool `yaml:"cleanup"`

	// SavePosteriors exports posterior probability maps after segmentation.
	SavePosteriors bool `yaml:"save_posteriors"`

	// Scripts overrides the script filename for a stage, keyed by stage name
	// (e.g. "segmentation": "segmentation-v2.sh").
	Scripts map[string]string `yaml:"scripts"`
}

// AtlasEntry represents one atlas registry entry.
type AtlasEntry struct {
	Name        string `yaml:"name"`
	MinAge      int    `yaml:"min_age"`
	MaxAge      int    `yaml:"max_age"`
	TissueAtlas string `yaml:"tissue_atlas"`
	Path        string `yaml:"path"`
}

// CleanupEnabled resolves the cleanup flag, defaulting to true.
func (p PipelineConfig) CleanupEnabled() bool {
	if p.Cleanup == nil {
		return true
	}
	return *p.Cleanup
}
