package config

import (
	"fmt"
	"slices"
	"strings"
)

// validLogLevels are the slog levels the driver accepts.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for correctness. It aggregates all
// problems into a single ValidationErrors so a misconfigured installation
// is reported in one pass.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateSystem(&cfg.System)...)
	errs = append(errs, validatePipeline(&cfg.Pipeline)...)
	errs = append(errs, validateAtlases(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateSystem validates the system section value ranges.
func validateSystem(s *SystemConfig) []ValidationError {
	var errs []ValidationError

	if s.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		errs = append(errs, ValidationError{
			Field:   "system.log_level",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLogLevels, ", ")),
			Value:   s.LogLevel,
			Wrapped: ErrInvalidLogLevel,
		})
	}

	if s.DefaultThreads < 0 {
		errs = append(errs, ValidationError{
			Field:   "system.default_threads",
			Message: "must not be negative",
			Value:   s.DefaultThreads,
			Wrapped: ErrInvalidConfig,
		})
	}

	return errs
}

// validatePipeline validates the pipeline section.
func validatePipeline(p *PipelineConfig) []ValidationError {
	var errs []ValidationError

	if p.StageTimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.stage_timeout_seconds",
			Message: "must not be negative (0 disables the timeout)",
			Value:   p.StageTimeoutSeconds,
			Wrapped: ErrInvalidConfig,
		})
	}

	for stage, script := range p.Scripts {
		if strings.ContainsAny(script, "/\\") {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pipeline.scripts.%s", stage),
				Message: "must be a bare filename under $DRAWEMDIR/scripts",
				Value:   script,
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	return errs
}

// validateAtlases validates the atlas registry entries.
func validateAtlases(cfg *Config) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(cfg.Atlases))
	for i, a := range cfg.Atlases {
		field := fmt.Sprintf("atlases[%d]", i)

		if a.Name == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "required field is empty",
				Wrapped: ErrInvalidConfig,
			})
			continue
		}
		if seen[a.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: "duplicate atlas name",
				Value:   a.Name,
				Wrapped: ErrInvalidConfig,
			})
		}
		seen[a.Name] = true

		if a.MinAge <= 0 || a.MaxAge <= 0 || a.MinAge > a.MaxAge {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "age range must satisfy 0 < min_age <= max_age",
				Value:   fmt.Sprintf("[%d, %d]", a.MinAge, a.MaxAge),
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	if cfg.DefaultAtlas != "" && !seen[cfg.DefaultAtlas] {
		errs = append(errs, ValidationError{
			Field:   "default_atlas",
			Message: "not present in the atlases list",
			Value:   cfg.DefaultAtlas,
			Wrapped: ErrInvalidConfig,
		})
	}

	return errs
}
