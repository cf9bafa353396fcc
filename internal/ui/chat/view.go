// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-acp/internal/ui/components"
)

// View renders the transcript view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	m.statusBar.Messages = m.store.Len()
	m.statusBar.ToolCalls = len(m.calls())
	m.statusBar.Pending = len(m.store.PendingPermissions())

	header := m.header.View(m.theme)
	status := m.statusBar.View(m.theme)
	input := m.renderInput()

	body := m.viewport.View()
	if m.inputFocused && m.completion.Visible {
		popup := m.popup.View(m.theme)
		body = overlayBottom(body, popup)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// renderInput renders the input line, or a hint while it is not focused.
func (m Model) renderInput() string {
	if !m.inputFocused && m.input.Value() == "" {
		return m.theme.StatusLine.Render("  / slash commands  ? help")
	}
	return m.input.View()
}

func (m Model) renderHelp() string {
	m.help.ShowAll = true
	title := m.theme.Header.Render("Keys")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.help.View(m.keyMap), "",
		m.theme.StatusLine.Render("press any key to close"))
}

// overlayBottom replaces the last lines of base with overlay.
func overlayBottom(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overLines := strings.Split(overlay, "\n")
	if len(overLines) >= len(baseLines) {
		return overlay
	}
	keep := baseLines[:len(baseLines)-len(overLines)]
	return strings.Join(append(keep, overLines...), "\n")
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// updateViewport re-renders the transcript and keeps the selected row in
// view.
func (m *Model) updateViewport() {
	content, selStart, selEnd := m.renderTranscript()
	m.viewport.SetContent(content)

	switch {
	case m.follow:
		m.viewport.GotoBottom()
	case selStart >= 0:
		top := m.viewport.YOffset
		bottom := top + m.viewport.Height - 1
		if selStart < top {
			m.viewport.SetYOffset(selStart)
		} else if selEnd > bottom {
			m.viewport.SetYOffset(min(selStart, selEnd-m.viewport.Height+1))
		}
	}
}

// renderTranscript renders every message and reports the line span of the
// selected row, or -1 when nothing is selected.
func (m *Model) renderTranscript() (string, int, int) {
	messages := m.store.Messages()
	if len(messages) == 0 {
		hint := "Waiting for tool calls"
		if m.opts.Source != "" {
			hint += " from " + m.opts.Source
		}
		return m.theme.StatusLine.Render(hint + "..."), -1, -1
	}

	var (
		b        strings.Builder
		lines    int
		selStart = -1
		selEnd   = -1
	)
	write := func(s string) int {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		start := lines
		b.WriteString(s)
		lines += strings.Count(s, "\n") + 1
		return start
	}

	for i, msg := range messages {
		if i > 0 {
			write("")
		}
		view := components.MessageView{Message: msg, Width: m.width}
		write(view.Head(m.theme, m.md))

		for _, tc := range msg.ToolCalls() {
			selected := tc.ToolCallID == m.selectedID
			start := write(m.list.RowView(tc, selected))
			if selected {
				selStart, selEnd = start, lines-1
			}
		}
	}

	return b.String(), selStart, selEnd
}
