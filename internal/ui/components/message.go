// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// MarkdownRenderer renders message bodies. The glamour renderer is rebuilt
// only when the wrap width changes.
type MarkdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

// Render renders markdown for terminal display. It returns the original text
// when rendering fails or colors are disabled.
func (m *MarkdownRenderer) Render(body string, width int) string {
	if body == "" {
		return ""
	}
	if lipgloss.ColorProfile() == termenv.Ascii {
		return body
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"), // avoid OSC background queries
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return body
		}
		m.renderer = r
		m.width = width
	}
	out, err := m.renderer.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders one transcript message: sender and time, the markdown
// body, then its tool calls.
type MessageView struct {
	Message    acp.Message
	SelectedID string
	Width      int
}

// View renders the message through the shared list and markdown renderers.
func (v MessageView) View(theme *styles.Theme, list *ToolCallList, md *MarkdownRenderer) string {
	parts := []string{v.Head(theme, md)}
	if calls := list.View(v.Message.ToolCalls(), v.SelectedID); calls != "" {
		parts = append(parts, calls)
	}
	return strings.Join(parts, "\n")
}

// Head renders the sender line and the body, without tool calls.
func (v MessageView) Head(theme *styles.Theme, md *MarkdownRenderer) string {
	header := theme.MessageSender.Render(senderName(v.Message.Sender))
	if ts := formatTimestamp(v.Message.Time); ts != "" {
		header += " " + theme.MessageTime.Render(ts)
	}
	if body := md.Render(v.Message.Body, wrapWidth(v.Width)); body != "" {
		return header + "\n" + body
	}
	return header
}

func senderName(sender string) string {
	if sender == "" {
		return "agent"
	}
	return sender
}

func wrapWidth(width int) int {
	if width <= 8 {
		return 72
	}
	return width - 4
}

// formatTimestamp renders "15:04" for today and "Jan 2 15:04" otherwise.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}
