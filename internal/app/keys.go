package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Listen    key.Binding
	AutoPick  key.Binding
	AutoSend  key.Binding
	DelayUp   key.Binding
	DelayDown key.Binding
	Tab       key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Report    key.Binding
	Debug     key.Binding
	Escape    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Listen: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/stop"),
		),
		AutoPick: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-pick"),
		),
		AutoSend: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "send analysis"),
		),
		DelayUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "delay up"),
		),
		DelayDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "delay down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch list"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/deselect"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "raise priority"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "lower priority"),
		),
		Report: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "report"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Listen, k.AutoPick, k.AutoSend, k.Enter, k.Report, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Listen, k.AutoPick, k.AutoSend, k.DelayUp, k.DelayDown},
		{k.Tab, k.Up, k.Down, k.Enter, k.MoveUp, k.MoveDown},
		{k.Report, k.Debug, k.Escape, k.Help, k.Quit},
	}
}
