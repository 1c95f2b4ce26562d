package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MIRTK/NeoSeg/internal/atlas"
	"github.com/MIRTK/NeoSeg/internal/cli/wizard"
	"github.com/MIRTK/NeoSeg/internal/defs"
	"github.com/MIRTK/NeoSeg/internal/pipeline"
	"github.com/MIRTK/NeoSeg/internal/ui"
	"github.com/MIRTK/NeoSeg/internal/workspace"
)

var runCmd = &cobra.Command{
	Use:   "run <T2-image> <age-at-scan>",
	Short: "Run the segmentation pipeline for one subject",
	Long: `Run the Draw-EM segmentation pipeline for one subject.

The T2 image is staged into the working directory and the stage scripts are
invoked in order, each logging to <data-dir>/logs/<subject>.<stage>.log.
The age at scan is given in gestational weeks; it is rounded to whole weeks
and clamped to the selected atlas's age range.

Missing arguments are prompted for interactively on a terminal unless
--non-interactive is set.

Examples:
  neoseg run sub-01_T2w.nii.gz 40
  neoseg run sub-01_T2w.nii.gz 36.5 -a albert -t 8 -d /out/sub-01
  neoseg run sub-01_T2w.nii.gz 40 -m sub-01_mask.nii.gz --save-posteriors`,
	Args: cobra.MaximumNArgs(2),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("atlas", "a", "", "Label atlas (default from configuration)")
	runCmd.Flags().String("tissue-atlas", "", "Atlas providing tissue priors (overrides the label atlas's default)")
	runCmd.Flags().StringP("mask", "m", "", "Precomputed brain mask image")
	runCmd.Flags().StringP("data-dir", "d", "", "Working/output directory (default: current directory)")
	runCmd.Flags().IntP("threads", "t", 0, "Thread count for registration (default from configuration)")
	runCmd.Flags().Bool("cleanup", true, "Remove intermediate files after a successful run")
	runCmd.Flags().BoolP("save-posteriors", "p", false, "Export posterior probability maps")
	runCmd.Flags().BoolP("verbose", "v", false, "Stream stage output to the console as well as the log files")
	runCmd.Flags().Duration("timeout", 0, "Per-stage timeout (0 disables)")
	runCmd.Flags().Bool("non-interactive", false, "Never prompt; fail when arguments are missing")
}

// runRun executes the segmentation pipeline end to end: argument resolution,
// environment validation, file staging, then the fixed stage sequence.
func runRun(cmd *cobra.Command, args []string) error {
	inst, err := loadInstallation()
	if err != nil {
		return err
	}

	inputs, err := resolveRunInputs(cmd, args, inst)
	if err != nil {
		return err
	}

	// Past this point failures are runtime errors, not usage errors.
	cmd.SilenceUsage = true

	logger := newLogger(inst.Config, inputs.verbose)

	labelAtlas, err := inst.Atlases.Resolve(inputs.atlasName)
	if err != nil {
		return err
	}

	age, clamped := labelAtlas.ClampAge(inputs.age)
	if clamped {
		logger.Warn("age clamped to atlas range",
			"age", inputs.age,
			"clamped", age,
			"atlas", labelAtlas.Name)
	}

	// A tissue atlas is validated against the registry; the tissue-priors
	// stage runs only when it differs from the label atlas's own priors.
	useTissuePriors := false
	if inputs.tissueAtlas != "" && inputs.tissueAtlas != labelAtlas.TissueAtlas {
		if _, err := inst.Atlases.Get(inputs.tissueAtlas); err != nil {
			return err
		}
		useTissuePriors = true
	}

	subject, err := workspace.SubjectID(inputs.t2Path)
	if err != nil {
		return err
	}

	ws, err := workspace.Prepare(inputs.dataDir, subject)
	if err != nil {
		return err
	}
	if err := ws.StageT2(inputs.t2Path); err != nil {
		return err
	}
	if inputs.maskPath != "" {
		if err := ws.StageMask(inputs.maskPath); err != nil {
			return err
		}
	}

	plan := pipeline.Plan{
		Subject:         subject,
		Age:             age,
		Threads:         inputs.threads,
		UseTissuePriors: useTissuePriors,
		SavePosteriors:  inputs.savePosteriors,
		Cleanup:         inputs.cleanup,
		ScriptOverrides: inst.Config.Pipeline.Scripts,
	}
	stages := plan.Stages()

	theme := ui.NewTheme(inst.Config.System.NoColor)
	headless := ui.NewHeadlessManager()
	if inputs.verbose || inputs.nonInteractive {
		// Stage output on the console does not mix with an animated bar.
		headless.ForceHeadless(true)
	}
	tracker := ui.NewStageTracker(theme, headless, cmd.OutOrStdout())

	runner := &pipeline.Runner{
		ScriptsDir:   inst.ScriptsDir(),
		Workspace:    ws,
		Env:          stageEnv(inst, labelAtlas, inputs),
		StageTimeout: inputs.stageTimeout,
		Progress: func(index, total int, stage string) {
			tracker.StageStarted(index, total, stage)
		},
		Logger: logger,
	}
	if inputs.verbose {
		runner.Console = cmd.OutOrStdout()
	}

	logger.Info("starting pipeline",
		"subject", subject,
		"age", age,
		"atlas", labelAtlas.Name,
		"threads", inputs.threads,
		"stages", len(stages))

	_, runErr := runner.Run(cmd.Context(), stages)
	tracker.Done(runErr == nil)
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "subject %s segmented, results under %s\n",
		subject, ws.Root)
	return nil
}

// runInputs are the fully resolved inputs for one pipeline run.
type runInputs struct {
	t2Path         string
	age            float64
	atlasName      string
	tissueAtlas    string
	maskPath       string
	dataDir        string
	threads        int
	cleanup        bool
	savePosteriors bool
	verbose        bool
	stageTimeout   time.Duration
	nonInteractive bool
}

// resolveRunInputs merges positional arguments, flags, configuration defaults
// and (interactively) wizard answers into a validated runInputs.
func resolveRunInputs(cmd *cobra.Command, args []string, inst *Installation) (*runInputs, error) {
	in := &runInputs{
		atlasName:      getStringFlag(cmd, "atlas"),
		tissueAtlas:    getStringFlag(cmd, "tissue-atlas"),
		maskPath:       getStringFlag(cmd, "mask"),
		dataDir:        getStringFlag(cmd, "data-dir"),
		savePosteriors: getBoolFlag(cmd, "save-posteriors"),
		verbose:        getBoolFlag(cmd, "verbose"),
		nonInteractive: getBoolFlag(cmd, "non-interactive") || inst.Config.System.NonInteractive,
	}

	if len(args) > 0 {
		in.t2Path = args[0]
	}
	if len(args) > 1 {
		age, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid age %q: must be a number of gestational weeks", args[1])
		}
		if err := atlas.ParseAge(age); err != nil {
			return nil, err
		}
		in.age = age
	}

	// Prompt for whatever is still missing, or fail in non-interactive runs.
	if in.t2Path == "" || in.age <= 0 {
		if in.nonInteractive || !isInteractive() {
			return nil, errors.New("missing required arguments: <T2-image> <age-at-scan>")
		}
		answers, err := wizard.Run(wizard.Result{T2Path: in.t2Path, Age: in.age, Atlas: in.atlasName}, inst.Atlases)
		if err != nil {
			return nil, err
		}
		in.t2Path = answers.T2Path
		in.age = answers.Age
		in.atlasName = answers.Atlas
	}

	if _, err := os.Stat(in.t2Path); err != nil {
		return nil, fmt.Errorf("%w: %s", workspace.ErrInputNotFound, in.t2Path)
	}
	if in.maskPath != "" {
		if _, err := os.Stat(in.maskPath); err != nil {
			return nil, fmt.Errorf("%w: %s", workspace.ErrInputNotFound, in.maskPath)
		}
	}

	if in.dataDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		in.dataDir = cwd
	}

	in.threads = getIntFlag(cmd, "threads")
	if in.threads <= 0 {
		in.threads = inst.Config.System.DefaultThreads
	}
	if in.threads <= 0 {
		in.threads = 1
	}

	// --cleanup has an explicit default of true; the configuration only
	// applies when the flag was not set on the command line.
	if cmd.Flags().Changed("cleanup") {
		in.cleanup = getBoolFlag(cmd, "cleanup")
	} else {
		in.cleanup = inst.Config.Pipeline.CleanupEnabled()
	}

	if !in.savePosteriors {
		in.savePosteriors = inst.Config.Pipeline.SavePosteriors
	}

	in.stageTimeout = getDurationFlag(cmd, "timeout")
	if in.stageTimeout == 0 && inst.Config.Pipeline.StageTimeoutSeconds > 0 {
		in.stageTimeout = time.Duration(inst.Config.Pipeline.StageTimeoutSeconds) * time.Second
	}

	return in, nil
}

// stageEnv builds the extra environment every stage inherits.
func stageEnv(inst *Installation, labelAtlas atlas.Atlas, in *runInputs) []string {
	env := []string{
		defs.DrawEMDirEnv + "=" + inst.Root,
		defs.ThreadsEnv + "=" + strconv.Itoa(in.threads),
		"NEOSEG_ATLAS=" + labelAtlas.Name,
		"NEOSEG_ATLAS_DIR=" + labelAtlas.Dir(inst.AtlasesDir()),
	}

	tissue := in.tissueAtlas
	if tissue == "" {
		tissue = labelAtlas.TissueAtlas
	}
	if tissue != "" {
		env = append(env, "NEOSEG_TISSUE_ATLAS="+tissue)
	}
	return env
}

// isInteractive reports whether stdin is attached to a terminal.
func isInteractive() bool {
	return !ui.NewHeadlessManager().IsHeadless()
}
