package render

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW        = 11 // width of each step column in characters
	labelVisualW = 7  // visual width of qubit label area
	gateNameW    = 5  // width of gate name inside box
	gateBoxW     = 7  // ┤ + gateNameW + ├
	barWidth     = 30 // histogram bar length at 100%
)

// Styles holds the lipgloss styles used for diagrams and result tables.
type Styles struct {
	Title        lipgloss.Style
	Gate         lipgloss.Style
	QubitLabel   lipgloss.Style
	Dim          lipgloss.Style
	Accent       lipgloss.Style
	CbitLabel    lipgloss.Style
	CbitWire     lipgloss.Style
	CbitConnect  lipgloss.Style
	Bar          lipgloss.Style
	Error        lipgloss.Style
	Panel        lipgloss.Style
	EditorPanel  lipgloss.Style
	ResultsPanel lipgloss.Style
	HelpPanel    lipgloss.Style
	Selected     lipgloss.Style
	Normal       lipgloss.Style
}

// DefaultStyles returns the colored terminal theme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64")),
		Gate: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca")),
		QubitLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")),
		CbitLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")),
		CbitWire: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")),
		CbitConnect: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true),
		Bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a")),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f7768e")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1),
		EditorPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Padding(1),
		ResultsPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ece6a")).
			Padding(0, 1),
		HelpPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff9e64")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5")),
	}
}

// PlainStyles returns styles that leave text untouched, for piped output and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:        plain,
		Gate:         plain,
		QubitLabel:   plain,
		Dim:          plain,
		Accent:       plain,
		CbitLabel:    plain,
		CbitWire:     plain,
		CbitConnect:  plain,
		Bar:          plain,
		Error:        plain,
		Panel:        plain,
		EditorPanel:  plain,
		ResultsPanel: plain,
		HelpPanel:    plain,
		Selected:     plain,
		Normal:       plain,
	}
}
