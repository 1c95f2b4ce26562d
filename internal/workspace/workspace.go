// Package workspace manages the working directory a segmentation run writes
// into: the fixed directory tree, staged copies of the input images, and the
// per-stage log file locations.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/MIRTK/NeoSeg/internal/defs"
)

// Sentinel errors for workspace operations.
var (
	// ErrInputNotFound indicates an input image does not exist.
	ErrInputNotFound = errors.New("workspace: input file not found")

	// ErrBadSubjectID indicates the subject ID derived from the T2 filename
	// is unusable.
	ErrBadSubjectID = errors.New("workspace: invalid subject ID")

	// ErrBadExtension indicates an input image is not a NIfTI file.
	ErrBadExtension = errors.New("workspace: input must be a .nii or .nii.gz file")
)

// subdirs is the fixed directory tree created under the data directory.
var subdirs = []string{
	defs.T2Dir,
	defs.SegmentationsDir,
	defs.SegmentationsDataDir,
	defs.PosteriorsDir,
	defs.DofsDir,
	defs.BiasDir,
	defs.LogsDir,
}

// Workspace is a prepared working directory for one subject.
type Workspace struct {
	// Root is the data directory all paths below live under.
	Root string

	// Subject is the ID derived from the T2 filename.
	Subject string

	// t2Ext is the extension of the staged T2 image. Uncompressed inputs
	// keep their .nii extension; the preprocessing stage converts them.
	t2Ext string
}

// SubjectID derives the subject identifier from a T2 image path: the base
// name with the NIfTI extension stripped, normalized to NFC. IDs containing
// whitespace are rejected because they are spliced into script arguments.
func SubjectID(t2Path string) (string, error) {
	base := filepath.Base(t2Path)
	switch {
	case strings.HasSuffix(base, defs.ExtNiiGz):
		base = strings.TrimSuffix(base, defs.ExtNiiGz)
	case strings.HasSuffix(base, defs.ExtNii):
		base = strings.TrimSuffix(base, defs.ExtNii)
	default:
		return "", fmt.Errorf("%w: %s", ErrBadExtension, base)
	}

	id := norm.NFC.String(base)
	if id == "" || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadSubjectID, id)
	}
	if strings.ContainsAny(id, " \t\n") {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrBadSubjectID, id)
	}
	return id, nil
}

// Prepare creates the working directory tree under dataDir for the given
// subject. Directory creation is idempotent so re-runs over an existing
// workspace are allowed.
func Prepare(dataDir, subject string) (*Workspace, error) {
	root := filepath.Clean(dataDir)
	for _, d := range subdirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", d, err)
		}
	}
	return &Workspace{Root: root, Subject: subject, t2Ext: defs.ExtNiiGz}, nil
}

// T2Path returns the staged T2 image location.
func (w *Workspace) T2Path() string {
	return filepath.Join(w.Root, defs.T2Dir, w.Subject+w.t2Ext)
}

// MaskPath returns the staged brain mask location.
func (w *Workspace) MaskPath() string {
	return filepath.Join(w.Root, defs.SegmentationsDataDir, w.Subject+"-mask"+defs.ExtNiiGz)
}

// LogPath returns the stdout log file for the named stage.
func (w *Workspace) LogPath(stage string) string {
	return filepath.Join(w.Root, defs.LogsDir, w.Subject+"."+stage+".log")
}

// ErrPath returns the stderr log file for the named stage.
func (w *Workspace) ErrPath(stage string) string {
	return filepath.Join(w.Root, defs.LogsDir, w.Subject+"."+stage+".err")
}
