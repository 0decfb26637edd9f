// Package app is the root Bubble Tea model of the terminal UI. It polls the
// state store, drives the listener and edits the user's preferences.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/Dragon-GCS/lolhelper/internal/config"
	"github.com/Dragon-GCS/lolhelper/internal/logging"
	"github.com/Dragon-GCS/lolhelper/internal/state"
	"github.com/Dragon-GCS/lolhelper/internal/views/countdown"
	"github.com/Dragon-GCS/lolhelper/internal/views/debug"
	"github.com/Dragon-GCS/lolhelper/internal/views/picks"
	"github.com/Dragon-GCS/lolhelper/internal/views/report"
	"github.com/Dragon-GCS/lolhelper/internal/views/status"
)

const pollInterval = 250 * time.Millisecond

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayReport
	OverlayDebug
)

// Options wires the model to the rest of the program.
type Options struct {
	Store *state.Store
	// Listen runs the client listener until ctx is cancelled.
	Listen func(ctx context.Context) error
	// Save persists preferences after every edit.
	Save func(state.Preferences) error
	// Logs feeds the debug overlay. May be nil.
	Logs <-chan logging.Entry
	// AutoStart starts the listener as soon as the program runs.
	AutoStart bool
	Log       logrus.FieldLogger
}

type (
	tickMsg        time.Time
	logMsg         logging.Entry
	startListenMsg struct{}
	listenDoneMsg  struct {
		gen int
		err error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	help   help.Model
	width  int
	height int

	overlay Overlay

	// Listener state. gen tells a stale done message from the current run.
	listenCancel context.CancelFunc
	listenGen    int

	now time.Time

	spinner   spinner.Model
	statusBar status.Model
	picks     picks.Model
	countdown countdown.Model
	report    report.Model
	debug     debug.Model
}

// New creates the root model.
func New(opts Options) Model {
	if opts.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		opts.Log = l
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		statusBar: status.New(),
		picks:     picks.New(),
		countdown: countdown.New(),
		report:    report.New(),
		debug:     debug.New(),
		now:       time.Now(),
	}
	m.refresh()
	return m
}

// Init starts polling, the spinner and the log feed.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), m.spinner.Tick}
	if m.opts.Logs != nil {
		cmds = append(cmds, waitForLog(m.opts.Logs))
	}
	if m.opts.AutoStart {
		cmds = append(cmds, func() tea.Msg { return startListenMsg{} })
	}
	return tea.Batch(cmds...)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForLog(ch <-chan logging.Entry) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(e)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.picks.Width = msg.Width
		m.help.Width = msg.Width
		m.report.SetWidth(msg.Width)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.now = time.Time(msg)
		wasActive := m.countdown.Active()
		m.refresh()
		if !wasActive && m.countdown.Active() {
			return m, tea.Batch(tick(), countdown.Frame())
		}
		return m, tick()

	case countdown.FrameMsg:
		m.now = time.Time(msg)
		var cmd tea.Cmd
		m.countdown, cmd = m.countdown.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Spinner = m.spinner.View()
		return m, cmd

	case logMsg:
		m.debug.Add(logging.Entry(msg))
		return m, waitForLog(m.opts.Logs)

	case startListenMsg:
		return m.startListener()

	case listenDoneMsg:
		if msg.gen != m.listenGen {
			return m, nil
		}
		m.listenCancel = nil
		if msg.err != nil {
			m.opts.Log.WithError(msg.err).Warn("listener stopped")
		}
		m.refresh()
		return m, nil
	}

	return m, nil
}

// Listening reports whether the model has a listener running.
func (m Model) Listening() bool {
	return m.listenCancel != nil
}

func (m Model) startListener() (tea.Model, tea.Cmd) {
	if m.listenCancel != nil || m.opts.Listen == nil {
		return m, nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.listenCancel = cancel
	m.listenGen++
	gen, listen := m.listenGen, m.opts.Listen
	m.opts.Log.Info("listener started")
	return m, func() tea.Msg {
		return listenDoneMsg{gen: gen, err: listen(ctx)}
	}
}

func (m Model) stopListener() Model {
	if m.listenCancel == nil {
		return m
	}
	m.listenCancel()
	m.listenCancel = nil
	m.opts.Log.Info("listener stopped by user")
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m = m.stopListener()
		m.cancel()
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case m.overlay == OverlayReport && key.Matches(msg, m.keys.Report):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Listen):
		if m.listenCancel != nil {
			return m.stopListener(), nil
		}
		return m.startListener()

	case key.Matches(msg, m.keys.AutoPick):
		m.opts.Store.UpdateAutoPick(func(c *state.AutoPickConfig) { c.Enabled = !c.Enabled })
		m.save()

	case key.Matches(msg, m.keys.AutoSend):
		m.opts.Store.SetAutoSendAnalysis(!m.opts.Store.AutoSendAnalysis())
		m.save()

	case key.Matches(msg, m.keys.DelayUp):
		m.setDelay(m.opts.Store.AcceptDelaySeconds() + 1)

	case key.Matches(msg, m.keys.DelayDown):
		m.setDelay(m.opts.Store.AcceptDelaySeconds() - 1)

	case key.Matches(msg, m.keys.Tab):
		m.picks.Toggle()

	case key.Matches(msg, m.keys.Up):
		m.picks.Up()

	case key.Matches(msg, m.keys.Down):
		m.picks.Down()

	case key.Matches(msg, m.keys.Enter):
		m.toggleChampion()

	case key.Matches(msg, m.keys.MoveUp):
		m.moveChampion(-1)

	case key.Matches(msg, m.keys.MoveDown):
		m.moveChampion(1)

	case key.Matches(msg, m.keys.Report):
		m.overlay = OverlayReport

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}

	return m, nil
}

func (m *Model) setDelay(secs int) {
	limit := int(config.MaxAcceptDelay / time.Second)
	secs = min(max(secs, 0), limit)
	if secs == m.opts.Store.AcceptDelaySeconds() {
		return
	}
	m.opts.Store.SetAcceptDelaySeconds(secs)
	m.save()
}

// toggleChampion moves the champion under the cursor to the other list.
func (m *Model) toggleChampion() {
	i := m.picks.Cursor()
	var changed bool
	m.opts.Store.UpdateAutoPick(func(c *state.AutoPickConfig) {
		if m.picks.Focus == picks.ListSelected {
			changed = c.Deselect(i)
		} else {
			changed = c.Select(i)
		}
	})
	if changed {
		m.save()
	}
}

// moveChampion shifts the selected champion under the cursor by delta.
func (m *Model) moveChampion(delta int) {
	if m.picks.Focus != picks.ListSelected {
		return
	}
	i := m.picks.Cursor()
	j := i
	m.opts.Store.UpdateAutoPick(func(c *state.AutoPickConfig) { j = c.Move(i, delta) })
	if j == i {
		return
	}
	m.picks.SetConfig(m.opts.Store.AutoPick())
	m.picks.SetCursor(j)
	m.save()
}

// save persists preferences and refreshes the views from the store.
func (m *Model) save() {
	if m.opts.Save != nil {
		if err := m.opts.Save(m.opts.Store.Preferences()); err != nil {
			m.opts.Log.WithError(err).Warn("saving preferences failed")
		}
	}
	m.refresh()
}

// refresh copies the store into the sub-views.
func (m *Model) refresh() {
	s := m.opts.Store.Snapshot()
	// The store only reports a live connection; between retries the
	// listener is still running.
	s.Listening = s.Listening || m.listenCancel != nil
	m.statusBar.Snapshot = s
	m.picks.SetConfig(s.AutoPick)
	m.report.SetReport(s.GameMode, s.Report)
	m.countdown.Start(s.AcceptAt, time.Duration(s.AcceptDelaySeconds)*time.Second)
}

// layout gives the pick lists whatever height the chrome leaves.
func (m *Model) layout() {
	chrome := lipgloss.Height(m.statusBar.View()) + lipgloss.Height(m.help.View(m.keys)) + 2
	m.picks.Height = max(m.height-chrome, 5)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sections := []string{m.statusBar.View()}
	if m.countdown.Active() {
		sections = append(sections, m.countdown.View(m.width, m.now))
	}

	switch m.overlay {
	case OverlayReport:
		sections = append(sections, m.report.View(m.picks.Height))
	case OverlayDebug:
		sections = append(sections, m.debug.View(m.width, m.picks.Height))
	default:
		sections = append(sections, m.picks.View())
	}

	sections = append(sections, " "+m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
