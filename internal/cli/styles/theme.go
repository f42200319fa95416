// Package styles holds the lipgloss theme and renderers shared by the CLI
// commands and the preview.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the palette and the styles derived from it.
type Theme struct {
	Background     lipgloss.Color
	Surface        lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color
	Error          lipgloss.Color
	Warning        lipgloss.Color
	Success        lipgloss.Color

	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Document references and the frames they open.
	Ref           lipgloss.Style
	RefOpen       lipgloss.Style
	FrameBorder   lipgloss.Style
	FrameFocused  lipgloss.Style
	FramePinned   lipgloss.Style
	FrameFading   lipgloss.Style
	FrameTitleBar lipgloss.Style
	FrameButton   lipgloss.Style
	FrameBody     lipgloss.Style
	StatusBar     lipgloss.Style
}

// NewTheme returns the dark theme.
func NewTheme() *Theme {
	t := &Theme{
		Background:     lipgloss.Color("#0a0a0b"),
		Surface:        lipgloss.Color("#1a1a1b"),
		SurfaceVariant: lipgloss.Color("#2d2d2d"),
		Text:           lipgloss.Color("#ffffff"),
		Muted:          lipgloss.Color("#909090"),
		Accent:         lipgloss.Color("#4ade80"),
		Border:         lipgloss.Color("#333333"),
		Error:          lipgloss.Color("#ef4444"),
		Warning:        lipgloss.Color("#f59e0b"),
	}
	t.Success = t.Accent
	t.derive()
	return t
}

func (t *Theme) derive() {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	onSurface := func(c lipgloss.Color) lipgloss.Style { return fg(c).Background(t.Surface) }
	onBar := func(c lipgloss.Color) lipgloss.Style { return fg(c).Background(t.SurfaceVariant) }

	t.Title = fg(t.Text).Bold(true)
	t.Subtle = fg(t.Muted)
	t.Highlight = fg(t.Accent).Bold(true)

	t.HelpKey = fg(t.Accent)
	t.HelpDesc = fg(t.Muted)

	t.Ref = fg(t.Accent).Underline(true)
	t.RefOpen = fg(t.Background).Background(t.Accent)

	t.FrameBorder = onSurface(t.Border)
	t.FrameFocused = onSurface(t.Accent)
	t.FramePinned = onSurface(t.Warning)
	t.FrameFading = onSurface(t.Muted).Faint(true)
	t.FrameBody = onSurface(t.Text)
	t.StatusBar = onSurface(t.Muted)

	t.FrameTitleBar = onBar(t.Text).Bold(true)
	t.FrameButton = onBar(t.Accent)
}
