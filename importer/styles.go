package importer

import "github.com/charmbracelet/lipgloss"

// Styles bundles the lipgloss styles used by the progress TUI.
type Styles struct {
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Muted   lipgloss.Style
	Running lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Skip    lipgloss.Style
	Error   lipgloss.Style

	TypeName lipgloss.Style
	Path     lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	SymbolPass string
	SymbolFail string
	SymbolSkip string
}

// DefaultStyles returns the default TUI styles.
func DefaultStyles() *Styles {
	return &Styles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9B9B9B")),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E2C08D")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),

		TypeName: lipgloss.NewStyle().Foreground(lipgloss.Color("#DDDDDD")),
		Path:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),

		ProgressFilled: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		ProgressEmpty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3C3C3C")),

		SymbolPass: "✓",
		SymbolFail: "✗",
		SymbolSkip: "∅",
	}
}

// SpinnerFrames returns the spinner animation frames.
func SpinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}

// ProgressChars returns the filled and empty progress bar characters.
func ProgressChars() (string, string) {
	return "━", "╌"
}
