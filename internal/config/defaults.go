package config

// Default value constants to avoid magic numbers and strings.
const (
	DefaultLogLevel = "warn"
	DefaultThreads  = 1

	// DefaultStageTimeoutSeconds of 0 keeps stages unbounded; registration
	// of a full atlas set routinely runs for hours.
	DefaultStageTimeoutSeconds = 0

	// The ALBERT atlas set covers 28 to 44 gestational weeks.
	DefaultAtlasName   = "albert"
	DefaultAtlasMinAge = 28
	DefaultAtlasMaxAge = 44
)

// NewDefaultConfig returns a Config populated with compiled defaults.
// File values are merged on top of it by the Loader.
func NewDefaultConfig() *Config {
	return &Config{
		System: SystemConfig{
			LogLevel:       DefaultLogLevel,
			DefaultThreads: DefaultThreads,
		},
		Pipeline: PipelineConfig{
			StageTimeoutSeconds: DefaultStageTimeoutSeconds,
		},
		Atlases: []AtlasEntry{
			{
				Name:   DefaultAtlasName,
				MinAge: DefaultAtlasMinAge,
				MaxAge: DefaultAtlasMaxAge,
			},
		},
		DefaultAtlas: DefaultAtlasName,
	}
}
