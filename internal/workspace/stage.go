package workspace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MIRTK/NeoSeg/internal/defs"
)

// StageT2 copies the input T2 image into the workspace. The staged copy is
// overwritten on re-runs so a corrected input takes effect.
func (w *Workspace) StageT2(t2Path string) error {
	if strings.HasSuffix(t2Path, defs.ExtNii) && !strings.HasSuffix(t2Path, defs.ExtNiiGz) {
		w.t2Ext = defs.ExtNii
	} else {
		w.t2Ext = defs.ExtNiiGz
	}
	return stageFile(t2Path, w.T2Path())
}

// StageMask copies an optional precomputed brain mask into the workspace.
func (w *Workspace) StageMask(maskPath string) error {
	return stageFile(maskPath, w.MaskPath())
}

// stageFile copies src to dst, verifying src exists first.
func stageFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, src)
		}
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputNotFound, src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
