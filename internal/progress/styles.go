package progress

import "github.com/charmbracelet/lipgloss"

var (
	colorOK      = lipgloss.Color("#10b981") // green-500
	colorFail    = lipgloss.Color("#ef4444") // red-500
	colorRunning = lipgloss.Color("#06b6d4") // cyan-500
	colorDim     = lipgloss.Color("#6b7280") // gray-500
	colorAccent  = lipgloss.Color("#3b82f6") // blue-500
	colorBorder  = lipgloss.Color("#374151") // gray-700
)

// Styles holds the lipgloss styles for the batch progress view.
type Styles struct {
	OK      lipgloss.Style
	Fail    lipgloss.Style
	Running lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	SymbolOK   string
	SymbolFail string
}

// DefaultStyles returns the default batch progress styles.
func DefaultStyles() *Styles {
	return &Styles{
		OK:      lipgloss.NewStyle().Foreground(colorOK).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(colorFail).Bold(true),
		Running: lipgloss.NewStyle().Foreground(colorRunning).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(colorDim),
		Bold:    lipgloss.NewStyle().Bold(true),

		ProgressFilled: lipgloss.NewStyle().Foreground(colorAccent),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(colorBorder),

		SymbolOK:   "✓",
		SymbolFail: "✗",
	}
}

// SpinnerFrames returns the braille spinner animation frames.
func SpinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}

// ProgressChars returns the progress bar fill/empty characters.
func ProgressChars() (string, string) {
	return "█", "░"
}
