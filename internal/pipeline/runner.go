package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/MIRTK/NeoSeg/internal/workspace"
)

// Result records the outcome of one executed stage.
type Result struct {
	Stage    string
	Script   string
	ExitCode int
	Duration time.Duration
	LogPath  string
	ErrPath  string
}

// ProgressFunc is notified before each stage starts.
type ProgressFunc func(index, total int, stage string)

// Runner executes a stage sequence synchronously and in order, stopping at
// the first failure.
type Runner struct {
	// ScriptsDir is the directory holding the stage scripts.
	ScriptsDir string

	// Workspace provides the working directory and log file locations.
	Workspace *workspace.Workspace

	// Env entries are appended to the inherited environment for every stage
	// (DRAWEMDIR, OMP_NUM_THREADS).
	Env []string

	// StageTimeout bounds each stage; 0 disables the timeout.
	StageTimeout time.Duration

	// Console receives a tee of stage output in verbose mode; nil disables
	// the tee.
	Console io.Writer

	// Progress is notified before each stage; nil disables notifications.
	Progress ProgressFunc

	// Logger receives per-stage structured log records.
	Logger *slog.Logger
}

// Run executes the stages in order. It returns the results of all completed
// stages; on failure the last result describes the failed stage and the
// returned error is a *StageError.
func (r *Runner) Run(ctx context.Context, stages []Stage) ([]Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, 0, len(stages))
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return results, &StageError{Stage: stage.Name, Script: stage.Script, ExitCode: -1, Err: err}
		}

		if r.Progress != nil {
			r.Progress(i, len(stages), stage.Name)
		}

		res, err := r.runStage(ctx, stage)
		results = append(results, res)
		if err != nil {
			logger.Error("stage failed",
				"stage", stage.Name,
				"exit_code", res.ExitCode,
				"duration", res.Duration,
				"stderr_log", res.ErrPath)
			return results, err
		}

		logger.Info("stage completed",
			"stage", stage.Name,
			"duration", res.Duration)
	}
	return results, nil
}

// runStage executes one stage script, appending its output to the per-stage
// log files and optionally teeing to the console.
func (r *Runner) runStage(ctx context.Context, stage Stage) (Result, error) {
	start := time.Now()
	res := Result{Stage: stage.Name, Script: stage.Script}

	script := filepath.Join(r.ScriptsDir, stage.Script)
	if _, err := os.Stat(script); err != nil {
		res.ExitCode = -1
		res.Duration = time.Since(start)
		return res, &StageError{
			Stage:    stage.Name,
			Script:   stage.Script,
			ExitCode: -1,
			Err:      fmt.Errorf("%w: %s", ErrScriptNotFound, script),
		}
	}

	outLog, errLog, err := r.openLogs(stage.Name, &res)
	if err != nil {
		res.ExitCode = -1
		res.Duration = time.Since(start)
		return res, &StageError{Stage: stage.Name, Script: stage.Script, ExitCode: -1, Err: err}
	}
	defer outLog.Close()
	defer errLog.Close()

	runCtx := ctx
	if r.StageTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.StageTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, script, stage.Args...)
	cmd.Dir = r.Workspace.Root
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdout = outLog
	cmd.Stderr = errLog
	if r.Console != nil {
		cmd.Stdout = io.MultiWriter(outLog, r.Console)
		cmd.Stderr = io.MultiWriter(errLog, r.Console)
	}

	runErr := cmd.Run()
	res.Duration = time.Since(start)

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		serr := &StageError{
			Stage:    stage.Name,
			Script:   stage.Script,
			ExitCode: res.ExitCode,
			LogPath:  res.ErrPath,
		}
		// A non-zero exit is fully described by the exit code and stderr
		// log; spawn failures (permission denied, bad interpreter) carry
		// the cause instead, and timeouts/cancellations override both.
		if _, ok := runErr.(*exec.ExitError); !ok {
			serr.Err = runErr
		}
		if ctxErr := runCtx.Err(); ctxErr != nil {
			serr.Err = ctxErr
		}
		return res, serr
	}

	res.ExitCode = 0
	return res, nil
}

// openLogs opens the per-stage log files in append mode, mirroring the
// original driver's `1>>log 2>>err` redirection.
func (r *Runner) openLogs(stage string, res *Result) (outLog, errLog *os.File, err error) {
	res.LogPath = r.Workspace.LogPath(stage)
	res.ErrPath = r.Workspace.ErrPath(stage)

	outLog, err = os.OpenFile(res.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open stage log: %w", err)
	}
	errLog, err = os.OpenFile(res.ErrPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		outLog.Close()
		return nil, nil, fmt.Errorf("open stage error log: %w", err)
	}
	return outLog, errLog, nil
}
