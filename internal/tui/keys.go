package tui

import "github.com/charmbracelet/bubbles/key"

// Key strings matched in Update.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keyClose = "x"
	keyReset = "r"
	keyDebug = "d"
)

// KeyMap describes the gallery bindings for the help line.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding
	Reset key.Binding
	Debug key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the gallery bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:  key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "details")),
		Close: key.NewBinding(key.WithKeys(keyEsc, keyClose), key.WithHelp("esc/x", "close")),
		Reset: key.NewBinding(key.WithKeys(keyReset), key.WithHelp("r", "reload")),
		Debug: key.NewBinding(key.WithKeys(keyDebug), key.WithHelp("d", "debug")),
		Quit:  key.NewBinding(key.WithKeys(keyQuit, keyCtrlC), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Close, k.Reset, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Close},
		{k.Reset, k.Debug, k.Quit},
	}
}
