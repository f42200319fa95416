package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config and preference messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigPath renders the config file location.
func (r *ConfigRenderer) RenderConfigPath(path string, exists bool) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	pathStyle := r.theme.Subtle

	status := ""
	if !exists {
		status = "\n  " + r.theme.Subtle.Render("Config file will be created on first run with all defaults.")
	}
	return fmt.Sprintf("\n  %s Config %s%s\n", iconStyle.Render(IconConfig), pathStyle.Render(path), status)
}

// RenderTilingKeys renders the stored tiling key bindings.
func (r *ConfigRenderer) RenderTilingKeys(keys string, enabled bool, actions []string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	if !enabled {
		return fmt.Sprintf("\n  %s Tiling keys %s\n", iconStyle.Render(IconKeyboard), r.theme.Subtle.Render("disabled"))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s Tiling keys %s\n", iconStyle.Render(IconKeyboard), r.theme.Highlight.Render(keys)))
	for i, k := range []rune(keys) {
		if i >= len(actions) {
			break
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n",
			iconStyle.Render(IconCursor),
			r.theme.Highlight.Render(string(k)),
			r.theme.Subtle.Render(actions[i]),
		))
	}
	return sb.String()
}

// RenderSaved renders a confirmation after a preference was stored.
func (r *ConfigRenderer) RenderSaved(what string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s %s saved\n", iconStyle.Render(IconCheck), what)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
