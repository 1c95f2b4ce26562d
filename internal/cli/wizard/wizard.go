// Package wizard provides the interactive prompts used when `neoseg run`
// is launched on a TTY without its positional arguments.
package wizard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/MIRTK/NeoSeg/internal/atlas"
)

// Sentinel errors for wizard execution.
var (
	// ErrCancelled indicates the user aborted the wizard.
	ErrCancelled = errors.New("wizard: cancelled by user")
)

// Result holds the user's answers.
type Result struct {
	T2Path string
	Age    float64
	Atlas  string
}

// Run prompts for any of the run command's inputs that are still missing.
// Pre-filled fields in seed are kept and not asked again. Each question runs
// as its own huh.Form, matching the driver's sequential prompt flow.
func Run(seed Result, atlases *atlas.Registry) (*Result, error) {
	result := seed

	if result.T2Path == "" {
		if err := askT2Path(&result.T2Path); err != nil {
			return nil, err
		}
	}
	if result.Age <= 0 {
		if err := askAge(&result.Age); err != nil {
			return nil, err
		}
	}
	if result.Atlas == "" {
		if err := askAtlas(&result.Atlas, atlases); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// askT2Path prompts for the T2 image path and verifies the file exists.
func askT2Path(dst *string) error {
	var value string
	inp := huh.NewInput().
		Title("T2-weighted image").
		Description("Path to the subject's T2 image (.nii or .nii.gz)").
		Value(&value).
		Validate(func(val string) error {
			v := strings.TrimSpace(val)
			if v == "" {
				return errors.New("a T2 image is required")
			}
			if _, err := os.Stat(v); err != nil {
				return fmt.Errorf("file not found: %s", v)
			}
			return nil
		})

	if err := runForm(inp); err != nil {
		return err
	}
	*dst = strings.TrimSpace(value)
	return nil
}

// askAge prompts for the age at scan in gestational weeks.
func askAge(dst *float64) error {
	var value string
	inp := huh.NewInput().
		Title("Age at scan").
		Description("Gestational age in weeks, e.g. 40 or 36.5").
		Value(&value).
		Validate(func(val string) error {
			age, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return errors.New("age must be a number")
			}
			return atlas.ParseAge(age)
		})

	if err := runForm(inp); err != nil {
		return err
	}
	age, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("wizard: parse age: %w", err)
	}
	*dst = age
	return nil
}

// askAtlas prompts for the label atlas from the configured registry.
func askAtlas(dst *string, atlases *atlas.Registry) error {
	names := atlases.Names()
	opts := make([]huh.Option[string], len(names))
	for i, n := range names {
		opts[i] = huh.NewOption(n, n)
	}

	selected := atlases.Default().Name
	sel := huh.NewSelect[string]().
		Title("Atlas").
		Description("Label atlas used for multi-atlas registration").
		Options(opts...).
		Value(&selected)

	if err := runForm(sel); err != nil {
		return err
	}
	*dst = selected
	return nil
}

// runForm wraps a single field in its own form, mapping user aborts to
// ErrCancelled.
func runForm(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(false)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}
