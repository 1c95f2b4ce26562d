package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MIRTK/NeoSeg/internal/workspace"
)

// writeScript creates an executable stage script in dir.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
}

// newTestRunner builds a runner over a fresh workspace and scripts directory.
func newTestRunner(t *testing.T) (*Runner, string) {
	t.Helper()
	scriptsDir := t.TempDir()
	ws, err := workspace.Prepare(t.TempDir(), "sub-01")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	return &Runner{ScriptsDir: scriptsDir, Workspace: ws}, scriptsDir
}

func TestRunnerRunsStagesInOrder(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	marker := filepath.Join(r.Workspace.Root, "order.txt")

	writeScript(t, scriptsDir, "a.sh", fmt.Sprintf(`echo "a $1" >> %s`, marker))
	writeScript(t, scriptsDir, "b.sh", fmt.Sprintf(`echo "b $1 $2" >> %s`, marker))

	stages := []Stage{
		{Name: "alpha", Script: "a.sh", Args: []string{"sub-01"}},
		{Name: "beta", Script: "b.sh", Args: []string{"sub-01", "40"}},
	}

	var seen []string
	r.Progress = func(index, total int, stage string) {
		seen = append(seen, fmt.Sprintf("%d/%d %s", index, total, stage))
	}

	results, err := r.Run(context.Background(), stages)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, res := range results {
		if res.ExitCode != 0 {
			t.Errorf("stage %s exit code = %d, want 0", res.Stage, res.ExitCode)
		}
	}

	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if got, want := string(data), "a sub-01\nb sub-01 40\n"; got != want {
		t.Errorf("execution order = %q, want %q", got, want)
	}

	wantSeen := []string{"0/2 alpha", "1/2 beta"}
	if len(seen) != 2 || seen[0] != wantSeen[0] || seen[1] != wantSeen[1] {
		t.Errorf("progress = %v, want %v", seen, wantSeen)
	}
}

func TestRunnerFailFast(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	marker := filepath.Join(r.Workspace.Root, "order.txt")

	writeScript(t, scriptsDir, "ok.sh", fmt.Sprintf("echo ok >> %s", marker))
	writeScript(t, scriptsDir, "fail.sh", "echo boom >&2; exit 3")
	writeScript(t, scriptsDir, "never.sh", fmt.Sprintf("echo never >> %s", marker))

	stages := []Stage{
		{Name: "first", Script: "ok.sh"},
		{Name: "second", Script: "fail.sh"},
		{Name: "third", Script: "never.sh"},
	}

	results, err := r.Run(context.Background(), stages)
	if err == nil {
		t.Fatal("Run() error = nil, want stage failure")
	}

	var serr *StageError
	if !errors.As(err, &serr) {
		t.Fatalf("Run() error = %T, want *StageError", err)
	}
	if serr.Stage != "second" || serr.ExitCode != 3 {
		t.Errorf("StageError = %+v, want stage second exit 3", serr)
	}
	if !errors.Is(err, ErrStageFailed) {
		t.Errorf("errors.Is(err, ErrStageFailed) = false")
	}

	// Only the first two stages ran.
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	data, _ := os.ReadFile(marker)
	if strings.Contains(string(data), "never") {
		t.Error("third stage ran after failure")
	}

	// The stderr log captured the diagnostic and the error names it.
	errData, err := os.ReadFile(r.Workspace.ErrPath("second"))
	if err != nil {
		t.Fatalf("read stderr log: %v", err)
	}
	if !strings.Contains(string(errData), "boom") {
		t.Errorf("stderr log = %q, want to contain boom", errData)
	}
	if serr.LogPath != r.Workspace.ErrPath("second") {
		t.Errorf("LogPath = %q, want %q", serr.LogPath, r.Workspace.ErrPath("second"))
	}
}

func TestRunnerWritesStageLogs(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	writeScript(t, scriptsDir, "noisy.sh", "echo to-stdout; echo to-stderr >&2")

	_, err := r.Run(context.Background(), []Stage{{Name: "noisy", Script: "noisy.sh"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out, err := os.ReadFile(r.Workspace.LogPath("noisy"))
	if err != nil {
		t.Fatalf("read stdout log: %v", err)
	}
	if !strings.Contains(string(out), "to-stdout") {
		t.Errorf("stdout log = %q, want to contain to-stdout", out)
	}
	errOut, err := os.ReadFile(r.Workspace.ErrPath("noisy"))
	if err != nil {
		t.Fatalf("read stderr log: %v", err)
	}
	if !strings.Contains(string(errOut), "to-stderr") {
		t.Errorf("stderr log = %q, want to contain to-stderr", errOut)
	}
}

func TestRunnerVerboseTee(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	writeScript(t, scriptsDir, "echo.sh", "echo hello")

	var console strings.Builder
	r.Console = &console

	_, err := r.Run(context.Background(), []Stage{{Name: "echo", Script: "echo.sh"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(console.String(), "hello") {
		t.Errorf("console = %q, want tee of stage output", console.String())
	}
	out, _ := os.ReadFile(r.Workspace.LogPath("echo"))
	if !strings.Contains(string(out), "hello") {
		t.Errorf("log file = %q, want stage output despite tee", out)
	}
}

func TestRunnerScriptNotExecutable(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	path := filepath.Join(scriptsDir, "locked.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\ntrue\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	_, err := r.Run(context.Background(), []Stage{{Name: "locked", Script: "locked.sh"}})
	if err == nil {
		t.Fatal("Run() error = nil, want spawn failure")
	}

	var serr *StageError
	if !errors.As(err, &serr) {
		t.Fatalf("Run() error = %T, want *StageError", err)
	}
	if serr.Err == nil {
		t.Error("StageError.Err = nil, want the spawn failure as cause")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("errors.Is(err, fs.ErrPermission) = false, err = %v", err)
	}
	if !strings.Contains(err.Error(), "permission") {
		t.Errorf("error %q does not name the cause", err)
	}
}

func TestRunnerMissingScript(t *testing.T) {
	r, _ := newTestRunner(t)

	_, err := r.Run(context.Background(), []Stage{{Name: "ghost", Script: "ghost.sh"}})
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("Run() error = %v, want ErrScriptNotFound", err)
	}
}

func TestRunnerStageTimeout(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	writeScript(t, scriptsDir, "slow.sh", "sleep 5")
	r.StageTimeout = 100 * time.Millisecond

	start := time.Now()
	_, err := r.Run(context.Background(), []Stage{{Name: "slow", Script: "slow.sh"}})
	if err == nil {
		t.Fatal("Run() error = nil, want timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("stage was not killed by timeout, ran %v", elapsed)
	}
}

func TestRunnerContextCancelled(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	writeScript(t, scriptsDir, "a.sh", "true")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, []Stage{{Name: "a", Script: "a.sh"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunnerStageEnv(t *testing.T) {
	r, scriptsDir := newTestRunner(t)
	marker := filepath.Join(r.Workspace.Root, "env.txt")
	writeScript(t, scriptsDir, "env.sh", fmt.Sprintf(`echo "$OMP_NUM_THREADS" > %s`, marker))
	r.Env = []string{"OMP_NUM_THREADS=8"}

	if _, err := r.Run(context.Background(), []Stage{{Name: "env", Script: "env.sh"}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	data, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if strings.TrimSpace(string(data)) != "8" {
		t.Errorf("OMP_NUM_THREADS in stage = %q, want 8", strings.TrimSpace(string(data)))
	}
}
