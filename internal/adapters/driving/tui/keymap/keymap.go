// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the review TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in the record list.
	Up key.Binding

	// Down navigates down in the record list.
	Down key.Binding

	// Select opens the selected record.
	Select key.Binding

	// ToggleFlagged toggles the needs-review filter.
	ToggleFlagged key.Binding

	// MarkReviewed closes the selected record's review as reviewed.
	MarkReviewed key.Binding

	// MarkResolved closes the selected record's review as resolved.
	MarkResolved key.Binding

	// Refresh reloads the sheet.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		ToggleFlagged: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flagged only"),
		),
		MarkReviewed: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "mark reviewed"),
		),
		MarkResolved: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "mark resolved"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ListHelp returns keybindings for the record list view.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Up, k.Select, k.ToggleFlagged, k.Refresh}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.ToggleFlagged, k.MarkReviewed, k.MarkResolved},
		{k.Refresh, k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
