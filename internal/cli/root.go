package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MIRTK/NeoSeg/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "neoseg",
	Short: "NeoSeg: Draw-EM neonatal brain MRI segmentation driver",
	Long: `NeoSeg drives the Draw-EM neonatal brain MRI segmentation workflow.

It stages a T2-weighted image into a working directory and runs the fixed
sequence of Draw-EM stages (preprocessing, multi-atlas registration,
labeling, segmentation, hemisphere separation, correction, postprocessing),
aborting on the first failure.

The DRAWEMDIR environment variable must point at the Draw-EM installation.`,
	Version: version.GetVersion(),
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	InitDependencies()
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("neoseg %s\n", version.GetFullVersion()))
}
