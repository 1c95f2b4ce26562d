package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/MIRTK/NeoSeg/internal/defs"
	"github.com/MIRTK/NeoSeg/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <atlas>",
	Short: "Show the README for an atlas",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// runInfo renders the atlas README to the terminal.
func runInfo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	inst, err := loadInstallation()
	if err != nil {
		return err
	}

	a, err := inst.Atlases.Get(args[0])
	if err != nil {
		return err
	}

	readme := filepath.Join(a.Dir(inst.AtlasesDir()), defs.AtlasReadme)
	data, err := os.ReadFile(readme)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("atlas %q has no %s", a.Name, defs.AtlasReadme)
		}
		return fmt.Errorf("read %s: %w", readme, err)
	}

	// Plain output without a TTY or when color is disabled.
	style := "auto"
	if ui.NewHeadlessManager().IsHeadless() || inst.Config.System.NoColor || os.Getenv("NO_COLOR") != "" {
		style = "notty"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("render %s: %w", readme, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
