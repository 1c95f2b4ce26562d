package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MIRTK/NeoSeg/internal/pipeline"
	"github.com/MIRTK/NeoSeg/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate the Draw-EM installation",
	Long: `Check that the environment is ready to run the pipeline:
DRAWEMDIR is set and exists, the configuration parses and validates,
the stage scripts are present and executable, and every configured
atlas directory exists.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck is one named validation with its outcome.
type doctorCheck struct {
	name string
	err  error
}

// runDoctor runs all installation checks and reports them. Any failing check
// makes the command exit non-zero.
func runDoctor(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	out := cmd.OutOrStdout()
	theme := ui.NewTheme(os.Getenv("NO_COLOR") != "")

	inst, err := loadInstallation()
	if err != nil {
		fmt.Fprintln(out, theme.Fail(fmt.Sprintf("installation: %v", err)))
		return fmt.Errorf("environment is not ready")
	}
	fmt.Fprintln(out, theme.OK(fmt.Sprintf("installation: %s", inst.Root)))
	fmt.Fprintln(out, theme.OK("configuration: valid"))

	checks := scriptChecks(inst)
	checks = append(checks, atlasChecks(inst)...)

	failed := 0
	for _, c := range checks {
		if c.err != nil {
			failed++
			fmt.Fprintln(out, theme.Fail(fmt.Sprintf("%s: %v", c.name, c.err)))
		} else {
			fmt.Fprintln(out, theme.OK(c.name))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Fprintln(out, theme.Title.Render("environment is ready"))
	return nil
}

// scriptChecks verifies every stage script exists and is executable.
func scriptChecks(inst *Installation) []doctorCheck {
	var checks []doctorCheck

	scriptsDir := inst.ScriptsDir()
	if info, err := os.Stat(scriptsDir); err != nil || !info.IsDir() {
		return []doctorCheck{{
			name: "scripts directory",
			err:  fmt.Errorf("missing: %s", scriptsDir),
		}}
	}

	plan := pipeline.Plan{
		Subject:         "subject",
		UseTissuePriors: true,
		SavePosteriors:  true,
		Cleanup:         true,
		ScriptOverrides: inst.Config.Pipeline.Scripts,
	}
	for _, stage := range plan.Stages() {
		path := filepath.Join(scriptsDir, stage.Script)
		name := fmt.Sprintf("script %s", stage.Script)

		info, err := os.Stat(path)
		switch {
		case err != nil:
			checks = append(checks, doctorCheck{name: name, err: fmt.Errorf("missing")})
		case info.Mode()&0o111 == 0:
			checks = append(checks, doctorCheck{name: name, err: fmt.Errorf("not executable")})
		default:
			checks = append(checks, doctorCheck{name: name})
		}
	}
	return checks
}

// atlasChecks verifies every configured atlas directory exists.
func atlasChecks(inst *Installation) []doctorCheck {
	var checks []doctorCheck
	for _, name := range inst.Atlases.Names() {
		a, _ := inst.Atlases.Get(name)
		dir := a.Dir(inst.AtlasesDir())
		check := doctorCheck{name: fmt.Sprintf("atlas %s", name)}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			check.err = fmt.Errorf("missing: %s", dir)
		}
		checks = append(checks, check)
	}
	return checks
}
