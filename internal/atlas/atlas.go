// Package atlas defines the atlas registry used to resolve label and tissue
// atlases and to clamp subject ages to the range an atlas was built for.
package atlas

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
)

// Sentinel errors for atlas resolution.
var (
	// ErrUnknownAtlas indicates the requested atlas is not in the registry.
	ErrUnknownAtlas = errors.New("atlas: unknown atlas")

	// ErrInvalidAge indicates the age could not be interpreted.
	ErrInvalidAge = errors.New("atlas: invalid age")

	// ErrEmptyRegistry indicates no atlases are configured.
	ErrEmptyRegistry = errors.New("atlas: empty registry")
)

// Atlas describes one atlas shipped with the Draw-EM installation.
type Atlas struct {
	// Name is the registry key, e.g. "albert".
	Name string

	// MinAge and MaxAge bound the gestational age (weeks) the atlas covers.
	// Subject ages outside the range are clamped, not rejected.
	MinAge int
	MaxAge int

	// TissueAtlas names the atlas providing tissue priors. Empty means the
	// atlas carries its own priors.
	TissueAtlas string

	// Path is the atlas directory relative to $DRAWEMDIR/atlases.
	Path string
}

// Dir returns the atlas directory under the given atlases root.
func (a Atlas) Dir(atlasesRoot string) string {
	p := a.Path
	if p == "" {
		p = a.Name
	}
	return filepath.Join(atlasesRoot, p)
}

// ClampAge rounds the scan age to whole weeks and clamps it to the atlas
// range. The second return value reports whether clamping occurred.
func (a Atlas) ClampAge(age float64) (int, bool) {
	rounded := int(math.Round(age))
	switch {
	case rounded < a.MinAge:
		return a.MinAge, true
	case rounded > a.MaxAge:
		return a.MaxAge, true
	default:
		return rounded, false
	}
}

// ParseAge validates a scan age in gestational weeks. Non-finite and
// non-positive values are rejected; clamping to an atlas range happens later.
func ParseAge(age float64) error {
	if math.IsNaN(age) || math.IsInf(age, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAge, age)
	}
	if age <= 0 {
		return fmt.Errorf("%w: age must be positive, got %v", ErrInvalidAge, age)
	}
	return nil
}
