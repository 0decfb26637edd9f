// Package countdown draws the delayed ready-check accept as a draining bar.
// The bar eases toward the remaining fraction with a harmonica spring.
package countdown

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/Dragon-GCS/lolhelper/internal/theme"
)

const fps = 30

// FrameMsg advances the animation.
type FrameMsg time.Time

// Model animates the time left before an accept.
type Model struct {
	deadline time.Time
	total    time.Duration
	spring   harmonica.Spring
	pos      float64
	vel      float64
	bar      progress.Model
}

func New() Model {
	return Model{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Start arms the countdown for an accept at the given time. A zero time
// or non-positive total stops it.
func (m *Model) Start(at time.Time, total time.Duration) {
	if at.IsZero() || total <= 0 {
		m.Stop()
		return
	}
	if !at.Equal(m.deadline) {
		m.pos = 1
		m.vel = 0
	}
	m.deadline = at
	m.total = total
}

// Stop clears the countdown.
func (m *Model) Stop() {
	m.deadline = time.Time{}
	m.pos, m.vel = 0, 0
}

// Active reports whether an accept is scheduled.
func (m Model) Active() bool {
	return !m.deadline.IsZero()
}

// Remaining returns the time left at now, never negative.
func (m Model) Remaining(now time.Time) time.Duration {
	if !m.Active() {
		return 0
	}
	return max(m.deadline.Sub(now), 0)
}

// Fraction returns the share of the delay left at now, in [0, 1].
func (m Model) Fraction(now time.Time) float64 {
	if !m.Active() {
		return 0
	}
	return min(float64(m.Remaining(now))/float64(m.total), 1)
}

// Update steps the spring toward the fraction left.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	f, ok := msg.(FrameMsg)
	if !ok || !m.Active() {
		return m, nil
	}
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.Fraction(time.Time(f)))
	return m, Frame()
}

// Frame schedules the next animation frame.
func Frame() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// View renders the bar and the seconds left.
func (m Model) View(width int, now time.Time) string {
	if !m.Active() {
		return ""
	}
	m.bar.Width = max(width-24, 10)
	secs := m.Remaining(now).Round(100 * time.Millisecond).Seconds()
	label := theme.StyleSelected.Render(fmt.Sprintf("accepting in %.1fs", secs))
	return fmt.Sprintf(" %s  %s", label, m.bar.ViewAs(min(max(m.pos, 0), 1)))
}
