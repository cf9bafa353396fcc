// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: transcript counts, pending decisions, the
// current toast and key hints. Layout follows the theme's layout mode.
type StatusBar struct {
	Messages  int
	ToolCalls int
	Pending   int // permission decisions waiting on the user
	Toast     *Toast
	Width     int
}

// View renders the status bar.
func (s *StatusBar) View(theme *styles.Theme) string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	var parts []string
	if s.Toast != nil {
		parts = append(parts, s.Toast.View())
	}

	switch theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		parts = append(parts, theme.StatusLine.Render(fmt.Sprintf("%d/%d", s.Messages, s.ToolCalls)))
		if s.Pending > 0 {
			parts = append(parts, s.renderPending(fmt.Sprintf("%d!", s.Pending)))
		}
	default:
		parts = append(parts, theme.StatusLine.Render(fmt.Sprintf("%d messages, %d tool calls", s.Messages, s.ToolCalls)))
		if s.Pending > 0 {
			parts = append(parts, s.renderPending(fmt.Sprintf("%d awaiting permission", s.Pending)))
		}
		if theme.GetLayoutMode() == styles.LayoutWide {
			parts = append(parts, renderShortcuts())
		}
	}

	return lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(s.Width).
		MaxWidth(s.Width).
		Render(strings.Join(parts, sep))
}

func (s *StatusBar) renderPending(text string) string {
	return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).Render(text)
}

// renderShortcuts renders keyboard shortcut hints
func renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("↑↓") + descStyle.Render(" select"),
		keyStyle.Render("enter") + descStyle.Render(" expand"),
		keyStyle.Render("tab") + descStyle.Render(" option"),
		keyStyle.Render("space") + descStyle.Render(" choose"),
	}

	return strings.Join(shortcuts, " ")
}
