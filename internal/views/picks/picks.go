// Package picks renders the two champion lists of the auto-pick config and
// tracks the cursor in each.
package picks

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dragon-GCS/lolhelper/internal/state"
	"github.com/Dragon-GCS/lolhelper/internal/theme"
)

// List identifies one of the two columns.
type List int

const (
	ListSelected List = iota
	ListUnselected
)

// Model holds the pick list view state.
type Model struct {
	Selected   []state.Champion
	Unselected []state.Champion
	Focus      List
	cursor     [2]int
	Width      int
	Height     int
}

// New creates an empty pick list model focused on the priority list.
func New() Model {
	return Model{}
}

// SetConfig replaces both lists, keeping the cursors in range.
func (m *Model) SetConfig(cfg state.AutoPickConfig) {
	m.Selected = cfg.Selected
	m.Unselected = cfg.Unselected
	m.clamp()
}

// Toggle switches focus to the other list.
func (m *Model) Toggle() {
	m.Focus = 1 - m.Focus
}

// Cursor returns the cursor index in the focused list.
func (m Model) Cursor() int {
	return m.cursor[m.Focus]
}

// SetCursor moves the focused cursor to i, clamped.
func (m *Model) SetCursor(i int) {
	m.cursor[m.Focus] = i
	m.clamp()
}

// Up moves the focused cursor up.
func (m *Model) Up() { m.SetCursor(m.Cursor() - 1) }

// Down moves the focused cursor down.
func (m *Model) Down() { m.SetCursor(m.Cursor() + 1) }

func (m *Model) clamp() {
	lens := [2]int{len(m.Selected), len(m.Unselected)}
	for i, n := range lens {
		m.cursor[i] = min(max(m.cursor[i], 0), max(n-1, 0))
	}
}

// View renders the lists side by side.
func (m Model) View() string {
	colW := max((m.Width-4)/2, 20)
	rows := max(m.Height-3, 3)

	left := m.column("PRIORITY", m.Selected, ListSelected, colW, rows, true)
	right := m.column("OWNED", m.Unselected, ListUnselected, colW, rows, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) column(title string, champs []state.Champion, list List, width, rows int, numbered bool) string {
	focused := m.Focus == list
	header := theme.StyleHeader.Render(fmt.Sprintf("%s (%d)", title, len(champs)))
	if !focused {
		header = theme.StyleDimmed.Render(fmt.Sprintf("%s (%d)", title, len(champs)))
	}

	lines := []string{header}
	if len(champs) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  empty"))
	}

	// Keep the cursor inside the visible window.
	cur := m.cursor[list]
	start := 0
	if cur >= rows {
		start = cur - rows + 1
	}
	end := min(start+rows, len(champs))
	for i := start; i < end; i++ {
		name := champs[i].Name
		if numbered {
			name = fmt.Sprintf("%2d. %s", i+1, name)
		}
		if len(name) > width-4 {
			name = name[:width-7] + "..."
		}
		if focused && i == cur {
			lines = append(lines, theme.StyleSelected.Render("> "+name))
			continue
		}
		lines = append(lines, "  "+name)
	}
	if end < len(champs) {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  ↓ %d more", len(champs)-end)))
	}

	style := theme.StyleBorder.Width(width)
	if focused {
		style = style.BorderForeground(theme.ColorAccent)
	}
	return style.Render(strings.Join(lines, "\n"))
}
