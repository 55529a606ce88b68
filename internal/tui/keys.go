package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the dashboard keybindings.
type KeyMap struct {
	QuickAdd []key.Binding

	Custom key.Binding
	Submit key.Binding
	Cancel key.Binding

	Reset           key.Binding
	ToggleReminders key.Binding
	CycleInterval   key.Binding

	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap binds 1..n to the quick-add amounts.
func DefaultKeyMap(quickAdd []int) *KeyMap {
	km := &KeyMap{
		Custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "custom amount"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset day"),
		),
		ToggleReminders: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle reminders"),
		),
		CycleInterval: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "reminder interval"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}

	for i, ml := range quickAdd {
		if i >= 9 {
			break
		}
		k := fmt.Sprintf("%d", i+1)
		km.QuickAdd = append(km.QuickAdd, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, fmt.Sprintf("+%dml", ml)),
		))
	}
	return km
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	out := append([]key.Binding(nil), k.QuickAdd...)
	return append(out, k.Custom, k.Reset, k.ToggleReminders, k.Help, k.Quit)
}

// FullHelp returns all bindings grouped for the help overlay.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append(append([]key.Binding(nil), k.QuickAdd...), k.Custom, k.Submit, k.Cancel),
		{k.Reset, k.ToggleReminders, k.CycleInterval},
		{k.Help, k.Quit},
	}
}
