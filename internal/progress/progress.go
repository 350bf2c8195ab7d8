// Package progress reports progress of a batch linearise/evaluate run over a
// corpus: one line (or one file) at a time, with a live terminal view on a
// TTY and a plain scrolling log otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Item is one unit of work finishing: one source line or file processed.
type Item struct {
	Label   string
	OK      bool
	Elapsed time.Duration
}

// Result is the final tally of a batch run.
type Result struct {
	Total   int
	OK      int
	Failed  int
	Elapsed time.Duration
}

// Reporter is notified as a batch run progresses.
type Reporter interface {
	Start(total int) error
	Report(Item) error
	Summary(Result) error
}

// New returns a TUI Reporter when out is a real terminal, and a plain
// VerboseReporter otherwise — mirroring the teacher's isatty-gated choice
// between its animated and line-oriented formatters.
func New(out io.Writer) Reporter { //nolint:ireturn
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return NewTUIReporter(f)
	}

	return NewVerboseReporter(out)
}

// VerboseReporter writes one line per item, go test style.
type VerboseReporter struct {
	out io.Writer
}

// NewVerboseReporter returns a Reporter that writes plain lines to out.
func NewVerboseReporter(out io.Writer) *VerboseReporter {
	return &VerboseReporter{out: out}
}

// Start implements Reporter.
func (r *VerboseReporter) Start(total int) error {
	_, err := fmt.Fprintf(r.out, "=== RUN   %d items\n", total)

	return err
}

// Report implements Reporter.
func (r *VerboseReporter) Report(item Item) error {
	status := "PASS"
	if !item.OK {
		status = "FAIL"
	}

	_, err := fmt.Fprintf(r.out, "--- %s: %s (%s)\n", status, item.Label, formatDuration(item.Elapsed))

	return err
}

// Summary implements Reporter.
func (r *VerboseReporter) Summary(result Result) error {
	status := "ok"
	if result.Failed > 0 {
		status = "FAIL"
	}

	_, err := fmt.Fprintf(r.out, "%s  %d/%d passed (%s)\n", status, result.OK, result.Total, formatDuration(result.Elapsed))

	return err
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}

func progressBar(styles *Styles, done, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}

	pct = min(pct, 1.0)

	filled := max(min(int(pct*float64(width)), width), 0)
	empty := width - filled

	filledChar, emptyChar := ProgressChars()

	return styles.ProgressFilled.Render(strings.Repeat(filledChar, filled)) +
		styles.ProgressEmpty.Render(strings.Repeat(emptyChar, empty))
}
