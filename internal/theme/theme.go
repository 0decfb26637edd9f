// Package theme provides the Lip Gloss color palette and reusable styles
// for the helper's TUI. It is a leaf package apart from the event and state
// enums it colors.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dragon-GCS/lolhelper/internal/event"
	"github.com/Dragon-GCS/lolhelper/internal/state"
)

// Phase colors.
var (
	ColorIdle        = lipgloss.Color("#4b5563")
	ColorLobby       = lipgloss.Color("#3b82f6")
	ColorQueue       = lipgloss.Color("#06b6d4")
	ColorReadyCheck  = lipgloss.Color("#f59e0b")
	ColorChampSelect = lipgloss.Color("#a855f7")
	ColorInGame      = lipgloss.Color("#22c55e")
)

// Log level colors.
var (
	ColorTrace = lipgloss.Color("#374151")
	ColorDebug = lipgloss.Color("#6b7280")
	ColorInfo  = lipgloss.Color("#2563eb")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorAccent  = lipgloss.Color("#c89b3c")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// PhaseColor returns the color for a game phase.
func PhaseColor(p event.GamePhase) lipgloss.Color {
	switch p {
	case event.PhaseLobby:
		return ColorLobby
	case event.PhaseMatchmaking:
		return ColorQueue
	case event.PhaseReadyCheck:
		return ColorReadyCheck
	case event.PhaseChampSelect:
		return ColorChampSelect
	case event.PhaseGameStart, event.PhaseInProgress, event.PhasePreEndOfGame:
		return ColorInGame
	default:
		return ColorIdle
	}
}

// LatchGlyph returns a glyph for a one-shot action's state.
func LatchGlyph(s state.LatchState) string {
	switch s {
	case state.InProgress:
		return "◌"
	case state.Committed:
		return "✓"
	default:
		return "·"
	}
}

// LatchColor returns the color for a one-shot action's state.
func LatchColor(s state.LatchState) lipgloss.Color {
	switch s {
	case state.InProgress:
		return ColorWarning
	case state.Committed:
		return ColorHealthy
	default:
		return ColorDimmed
	}
}

// Toggle renders an on/off flag.
func Toggle(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render("on")
	}
	return lipgloss.NewStyle().Foreground(ColorDimmed).Render("off")
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)
)
