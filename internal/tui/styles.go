package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// styles lays out panels. Frames are painted cell by cell onto a tcell
// screen, so the renderer is pinned to the ASCII profile and emits no
// escape sequences.
type styles struct {
	box     lipgloss.Style
	focused lipgloss.Style
	title   lipgloss.Style
	subtle  lipgloss.Style
}

func newStyles() styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)

	return styles{
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()),
		focused: r.NewStyle().Border(lipgloss.ThickBorder()),
		title:   r.NewStyle().Bold(true),
		subtle:  r.NewStyle().Faint(true),
	}
}
