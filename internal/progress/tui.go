package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// TUIReporter implements Reporter with a single-line animated status bar,
// replaced in place as items complete (no scrollback spam for a corpus that
// might be thousands of lines long).
type TUIReporter struct {
	program  *tea.Program
	model    *tuiModel
	out      io.Writer
	mu       sync.Mutex
	finished bool
}

// NewTUIReporter creates a TUI reporter writing to w.
func NewTUIReporter(w io.Writer) *TUIReporter {
	model := newTUIModel()

	opts := []tea.ProgramOption{tea.WithOutput(w), tea.WithoutSignalHandler()}

	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		opts = append(opts, tea.WithInput(nil))
	}

	return &TUIReporter{program: tea.NewProgram(model, opts...), model: model, out: w}
}

// Start implements Reporter.
func (r *TUIReporter) Start(total int) error {
	r.model.total = total

	go func() {
		_, _ = r.program.Run()
	}()

	time.Sleep(20 * time.Millisecond)

	return nil
}

// Report implements Reporter.
func (r *TUIReporter) Report(item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished {
		return nil
	}

	r.program.Send(itemMsg(item))

	return nil
}

// Summary implements Reporter.
func (r *TUIReporter) Summary(result Result) error {
	r.mu.Lock()
	r.finished = true
	r.mu.Unlock()

	r.program.Send(doneMsg{result: result})
	r.program.Wait()

	_, err := io.WriteString(r.out, r.model.finalView()+"\n")

	return err
}

type (
	itemMsg itemMsgPayload
	doneMsg struct{ result Result }
)

type itemMsgPayload Item

type tuiModel struct {
	styles  *Styles
	spinner spinner.Model

	total     int
	done      int
	okCount   int
	failed    int
	startTime time.Time
	endTime   time.Time

	lastItem Item
	isDone   bool
	result   Result
}

func newTUIModel() *tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{Frames: SpinnerFrames(), FPS: time.Second / 10}
	s.Style = DefaultStyles().Running

	return &tuiModel{styles: DefaultStyles(), spinner: s, startTime: time.Now()}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if m.isDone {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case itemMsg:
		m.done++
		m.lastItem = Item(msg)

		if m.lastItem.OK {
			m.okCount++
		} else {
			m.failed++
		}

		return m, nil

	case doneMsg:
		m.isDone = true
		m.endTime = time.Now()
		m.result = msg.result

		return m, tea.Quit
	}

	return m, nil
}

func (m *tuiModel) View() string {
	return m.render() + "\033[K"
}

func (m *tuiModel) finalView() string {
	return m.render()
}

func (m *tuiModel) render() string {
	elapsed := time.Since(m.startTime)
	if !m.endTime.IsZero() {
		elapsed = m.endTime.Sub(m.startTime)
	}

	status := m.spinner.View()
	if m.isDone {
		if m.failed > 0 {
			status = m.styles.Fail.Render(m.styles.SymbolFail)
		} else {
			status = m.styles.OK.Render(m.styles.SymbolOK)
		}
	}

	bar := progressBar(m.styles, m.done, m.total, 20)

	line := fmt.Sprintf("%s %s %d/%d  %s passed %s failed  [%s]",
		status, bar, m.done, m.total,
		m.styles.OK.Render(fmt.Sprintf("%d", m.okCount)),
		m.styles.Fail.Render(fmt.Sprintf("%d", m.failed)),
		formatDuration(elapsed),
	)

	return line
}
