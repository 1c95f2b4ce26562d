package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// StageTracker reports pipeline stage progress. Implementations must be safe
// to drive from the goroutine running the pipeline.
type StageTracker interface {
	// StageStarted is called before stage index (0-based) of total starts.
	StageStarted(index, total int, stage string)

	// Done finishes the tracker. ok reports whether the run succeeded.
	Done(ok bool)
}

// NewStageTracker returns a tracker appropriate for the environment: an
// animated progress bar on a TTY, plain log lines to w otherwise.
// A nil w falls back to os.Stdout.
func NewStageTracker(theme *Theme, hm *HeadlessManager, w io.Writer) StageTracker {
	if w == nil {
		w = os.Stdout
	}
	if hm.IsHeadless() || theme.NoColor {
		return &headlessTracker{theme: theme, writer: w}
	}
	return newInteractiveTracker(theme)
}

// --- headlessTracker ---

// headlessTracker prints one line per stage.
type headlessTracker struct {
	theme  *Theme
	writer io.Writer
}

func (t *headlessTracker) StageStarted(index, total int, stage string) {
	fmt.Fprintf(t.writer, "[%d/%d] %s\n", index+1, total, stage)
}

func (t *headlessTracker) Done(ok bool) {
	if ok {
		fmt.Fprintln(t.writer, t.theme.OK("pipeline completed"))
	} else {
		fmt.Fprintln(t.writer, t.theme.Fail("pipeline failed"))
	}
}

// --- interactiveTracker ---

// stageMsg updates the bar to the given stage.
type stageMsg struct {
	index int
	total int
	stage string
}

// doneMsg stops the program.
type doneMsg struct{ ok bool }

// trackerModel is the bubbletea Model for the stage progress bar.
type trackerModel struct {
	bar     progress.Model
	theme   *Theme
	stage   string
	current int
	total   int
	done    bool
	ok      bool
}

func newTrackerModel(theme *Theme) trackerModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return trackerModel{bar: bar, theme: theme}
}

func (m trackerModel) Init() tea.Cmd {
	return nil
}

func (m trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		m.current = msg.index
		m.total = msg.total
		m.stage = msg.stage
		return m, nil
	case doneMsg:
		m.done = true
		m.ok = msg.ok
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m trackerModel) View() string {
	if m.done {
		if m.ok {
			return m.theme.OK("pipeline completed") + "\n"
		}
		return m.theme.Fail("pipeline failed") + "\n"
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + fmt.Sprintf(" [%d/%d] %s\n", m.current+1, m.total, m.stage)
}

// interactiveTracker drives a bubbletea program in a background goroutine.
type interactiveTracker struct {
	program *tea.Program
	once    sync.Once
}

func newInteractiveTracker(theme *Theme) *interactiveTracker {
	p := tea.NewProgram(newTrackerModel(theme))
	t := &interactiveTracker{program: p}

	go func() {
		_, _ = p.Run()
	}()

	return t
}

func (t *interactiveTracker) StageStarted(index, total int, stage string) {
	t.program.Send(stageMsg{index: index, total: total, stage: stage})
}

func (t *interactiveTracker) Done(ok bool) {
	t.once.Do(func() {
		t.program.Send(doneMsg{ok: ok})
		t.program.Wait()
	})
}
