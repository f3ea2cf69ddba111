package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Solute       key.Binding
	Blood        key.Binding
	ToggleMode   key.Binding
	VolumeUp     key.Binding
	VolumeDown   key.Binding
	DurationUp   key.Binding
	DurationDown key.Binding
	Start        key.Binding
	Stop         key.Binding
	Escape       key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Solute: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "solute"),
		),
		Blood: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "blood"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch mode"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "volume +"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "volume -"),
		),
		DurationUp: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "duration +"),
		),
		DurationDown: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "duration -"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", " ", "space"),
			key.WithHelp("enter", "start metronome"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy rate"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleMode, k.Start, k.Stop, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Solute, k.Blood, k.ToggleMode},
		{k.VolumeUp, k.VolumeDown, k.DurationUp, k.DurationDown},
		{k.Start, k.Stop, k.Escape},
		{k.Copy, k.Help, k.Quit},
	}
}
