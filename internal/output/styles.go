package output

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#FF0000")
	colorGreen  = lipgloss.Color("#00FF00")
	colorYellow = lipgloss.Color("#FFFF00")
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGray   = lipgloss.Color("#666666")
)

// styles are bound to the formatter's writer so color is dropped when it is not a terminal
type styles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
	label   lipgloss.Style
	divider lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorCyan),
		ok:      r.NewStyle().Foreground(colorGreen),
		warn:    r.NewStyle().Foreground(colorYellow),
		err:     r.NewStyle().Foreground(colorRed).Bold(true),
		dim:     r.NewStyle().Foreground(colorGray),
		label:   r.NewStyle().Foreground(colorCyan),
		divider: r.NewStyle().Foreground(colorGray),
	}
}
