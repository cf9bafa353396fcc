// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// =============================================================================
// CONNECTION STATE
// =============================================================================

// Connection is the state of the inbound feed as shown to the user.
type Connection int

const (
	ConnConnecting Connection = iota
	ConnLive
	ConnReconnecting
	ConnClosed
)

// String returns the display string for the connection
func (c Connection) String() string {
	switch c {
	case ConnConnecting:
		return "CONNECTING"
	case ConnLive:
		return "LIVE"
	case ConnReconnecting:
		return "RECONNECTING"
	case ConnClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

func (c Connection) style() lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch c {
	case ConnLive:
		return base.Foreground(styles.Emerald)
	case ConnReconnecting:
		return base.Foreground(styles.Amber)
	case ConnClosed:
		return base.Foreground(styles.TextMuted)
	default:
		return base.Foreground(styles.Cyan)
	}
}

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, feed source and connection state.
type Header struct {
	Title      string // default: "rigrun-acp"
	Source     string // feed description (file, stdin, websocket URL)
	Connection Connection
	Width      int
}

// NewHeader creates a new Header component with default values
func NewHeader() *Header {
	return &Header{
		Title: "rigrun-acp",
		Width: 80,
	}
}

// View renders the header on one line.
func (h *Header) View(theme *styles.Theme) string {
	width := h.Width
	if width < 20 {
		width = 20
	}

	brand := lipgloss.NewStyle().Foreground(styles.Purple).Render("< ") +
		theme.Header.Render(h.Title) +
		lipgloss.NewStyle().Foreground(styles.Purple).Render(" >")

	conn := h.Connection.style().Render("[" + h.Connection.String() + "]")

	parts := []string{brand}
	if h.Source != "" {
		room := width - util.StringWidth(h.Title) - util.StringWidth(h.Connection.String()) - 10
		if room > 8 {
			parts = append(parts, theme.StatusLine.Render(util.TruncateWidth(h.Source, room)))
		}
	}
	parts = append(parts, conn)

	return lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Render(strings.Join(parts, " "))
}
