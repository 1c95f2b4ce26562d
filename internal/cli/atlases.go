package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MIRTK/NeoSeg/internal/ui"
)

var atlasesCmd = &cobra.Command{
	Use:   "atlases",
	Short: "List the configured atlases",
	RunE:  runAtlases,
}

func init() {
	rootCmd.AddCommand(atlasesCmd)
}

// runAtlases prints the atlas registry with the default marked.
func runAtlases(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	inst, err := loadInstallation()
	if err != nil {
		return err
	}

	theme := ui.NewTheme(os.Getenv("NO_COLOR") != "" || inst.Config.System.NoColor)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, theme.Title.Render("Atlases"))
	defaultName := inst.Atlases.Default().Name
	for _, name := range inst.Atlases.Names() {
		a, _ := inst.Atlases.Get(name)

		marker := " "
		if name == defaultName {
			marker = "*"
		}
		tissue := a.TissueAtlas
		if tissue == "" {
			tissue = "built-in"
		}
		fmt.Fprintf(out, "%s %-20s %s\n", marker, name,
			theme.Muted.Render(fmt.Sprintf("ages %d-%d weeks, tissue priors: %s", a.MinAge, a.MaxAge, tissue)))
	}
	return nil
}
