// Package report renders the last team analysis as Markdown.
package report

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dragon-GCS/lolhelper/internal/analysis"
	"github.com/Dragon-GCS/lolhelper/internal/theme"
)

const defaultWidth = 80

// Model caches the rendered report until the scores or width change.
type Model struct {
	width    int
	source   string
	rendered string
}

func New() Model {
	return Model{width: defaultWidth}
}

// SetReport updates the scores shown, re-rendering only when the Markdown
// changed.
func (m *Model) SetReport(mode string, scores []analysis.PlayerScore) {
	src := analysis.Markdown(mode, scores)
	if src == m.source && m.rendered != "" {
		return
	}
	m.source = src
	m.rendered = render(src, m.innerWidth())
}

// SetWidth updates the panel width.
func (m *Model) SetWidth(width int) {
	if width == m.width {
		return
	}
	m.width = width
	if m.source != "" {
		m.rendered = render(m.source, m.innerWidth())
	}
}

func (m Model) innerWidth() int {
	return max(m.width-4, 20)
}

// View renders the report panel.
func (m Model) View(height int) string {
	body := m.rendered
	if body == "" {
		body = theme.StyleDimmed.Render("  No report yet.")
	}
	help := theme.StyleDimmed.Render("r/esc:close")
	return lipgloss.NewStyle().
		Width(m.innerWidth()).
		MaxHeight(max(height, 5)).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, help))
}

// render falls back to the raw Markdown when glamour cannot render it.
func render(src string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}
