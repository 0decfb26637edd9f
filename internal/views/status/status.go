package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dragon-GCS/lolhelper/internal/state"
	"github.com/Dragon-GCS/lolhelper/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Snapshot state.Snapshot
	Spinner  string // rendered spinner frame shown while waiting for the client
	Width    int
}

// New creates a status bar model.
func New() Model {
	return Model{}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}
	s := m.Snapshot
	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")

	var connStr string
	switch {
	case s.Listening && s.Summoner.PUUID != "":
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● " + s.Summoner.Name())
	case s.Listening:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorWarning).Render(m.Spinner + " Waiting for client...")
	default:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Stopped")
	}

	phase := lipgloss.NewStyle().Foreground(theme.PhaseColor(s.Phase)).Bold(true).Render(s.Phase.String())
	if s.GameMode != "" {
		phase += theme.StyleDimmed.Render(" " + s.GameMode)
	}

	latches := latch("accept", s.Accepted) + "  " + latch("pick", s.Picked) + "  " + latch("sent", s.AnalysisSent)

	settings := fmt.Sprintf("delay %ds  autopick %s  send %s",
		s.AcceptDelaySeconds, theme.Toggle(s.AutoPick.Enabled), theme.Toggle(s.AutoSendAnalysis))

	content := connStr + sep + phase + sep + latches + sep + settings

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func latch(label string, s state.LatchState) string {
	return lipgloss.NewStyle().Foreground(theme.LatchColor(s)).Render(theme.LatchGlyph(s) + " " + label)
}
