// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the transcript view.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Toggle     key.Binding
	NextOption key.Binding
	PrevOption key.Binding
	Choose     key.Binding
	RejectAll  key.Binding
	NextDiff   key.Binding
	PrevDiff   key.Binding
	ToggleDiff key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
	Input      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous tool call"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next tool call"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "first tool call"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "last tool call"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "expand/collapse"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("Tab", "next option"),
		),
		PrevOption: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-Tab", "previous option"),
		),
		Choose: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "choose option"),
		),
		RejectAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "reject all pending"),
		),
		NextDiff: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next diff"),
		),
		PrevDiff: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous diff"),
		),
		ToggleDiff: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "show all lines"),
		),
		DetailUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll output up"),
		),
		DetailDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll output down"),
		),
		Input: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/ or i", "slash commands"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q/C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Choose, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the full help view, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		// Rows
		{k.Toggle, k.NextDiff, k.PrevDiff, k.ToggleDiff, k.DetailUp, k.DetailDown},
		// Permissions
		{k.NextOption, k.PrevOption, k.Choose, k.RejectAll},
		// Other
		{k.Input, k.Help, k.Quit},
	}
}
