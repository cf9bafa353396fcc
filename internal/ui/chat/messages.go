// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/feed"
)

// =============================================================================
// FEED MESSAGES
// =============================================================================

// FeedMessageMsg delivers a message snapshot from the feed.
type FeedMessageMsg struct {
	Message acp.Message
}

// FeedStatusMsg reports a change in the feed connection.
type FeedStatusMsg struct {
	Status feed.Status
}

// FeedDoneMsg reports that the feed stopped.
type FeedDoneMsg struct {
	Err error
}

// FeedHandler returns a feed.Handler that forwards into a running program.
// send is usually (*tea.Program).Send.
func FeedHandler(send func(msg tea.Msg)) feed.Handler {
	return feed.Funcs{
		Message: func(m acp.Message) { send(FeedMessageMsg{Message: m}) },
		Status:  func(s feed.Status) { send(FeedStatusMsg{Status: s}) },
	}
}

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// CommandsLoadedMsg reports a finished slash-command lookup.
type CommandsLoadedMsg struct {
	Persona string
	Count   int
}

// ClearTranscriptMsg empties the transcript.
type ClearTranscriptMsg struct{}

// SettingsMsg applies a reloaded configuration to a running view.
type SettingsMsg struct {
	ChatPath    string
	MaxMessages int
}
