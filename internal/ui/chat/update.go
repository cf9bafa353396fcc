// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/commands"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
	"github.com/jeranaias/rigrun-acp/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.inputFocused {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case FeedMessageMsg:
		return m.handleFeedMessage(msg)

	case FeedStatusMsg:
		return m.handleFeedStatus(msg)

	case FeedDoneMsg:
		m.header.Connection = components.ConnClosed
		if msg.Err != nil {
			cmd := m.showToast(components.NewErrorToast("feed stopped: "+msg.Err.Error(), m.now()))
			return m, cmd
		}
		return m, nil

	case components.PermissionResultMsg:
		if !m.rowAlive(msg.Decision.ToolCallID) {
			return m, nil
		}
		m.updateViewport()
		if msg.Err != nil {
			cmd := m.showToast(components.NewErrorToast("permission not sent: "+msg.Err.Error(), m.now()))
			return m, cmd
		}
		return m, nil

	case CommandsLoadedMsg:
		if msg.Persona == m.persona {
			m.refreshCompletions()
		}
		return m, nil

	case SettingsMsg:
		m.store.MaxMessages = msg.MaxMessages
		if msg.ChatPath == m.opts.ChatPath {
			return m, nil
		}
		m.opts.ChatPath = msg.ChatPath
		return m, m.loadCommands(m.persona)

	case ClearTranscriptMsg:
		m.list.Forget(m.store.Clear()...)
		m.list.Prune(m.store.LiveToolCalls())
		m.selectedID = ""
		m.updateViewport()
		return m, nil

	case components.ToastTickMsg:
		if m.toast != nil && m.toast.Expired(msg.Time) {
			m.toast = nil
			m.statusBar.Toast = nil
		}
		if m.toast == nil {
			m.ticking = false
			return m, nil
		}
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.list.Tick++
		if m.hasWorkingRows() {
			m.updateViewport()
		}
		return m, cmd

	default:
		var cmds []tea.Cmd
		if m.inputFocused {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// header + input + status bar, one line each
	const reservedHeight = 3

	m.viewport.Width = max(1, m.width)
	m.viewport.Height = max(1, m.height-reservedHeight)
	m.input.Width = max(10, m.width-4)
	m.help.Width = m.width

	m.theme.SetSize(m.width, m.height)
	m.list.Width = m.width
	m.header.Width = m.width
	m.statusBar.Width = m.width
	m.popup.Width = min(60, max(20, m.width-4))

	m.updateViewport()
	return m, nil
}

func (m Model) handleFeedMessage(msg FeedMessageMsg) (tea.Model, tea.Cmd) {
	dropped := m.store.Upsert(msg.Message)
	m.list.Forget(dropped...)
	m.list.Observe(msg.Message.ToolCalls())

	hadSelection := m.selectedID != ""
	if _, ok := m.selected(); !ok && hadSelection {
		m.selectedID = ""
		m.follow = true
	}
	if m.follow && hadSelection {
		m.selectEdge(true)
	}
	m.updateViewport()
	return m, nil
}

func (m Model) handleFeedStatus(msg FeedStatusMsg) (tea.Model, tea.Cmd) {
	prev := m.header.Connection
	m.header.Connection = connectionFor(msg.Status)

	if msg.Status == feed.StatusReconnecting && prev != components.ConnReconnecting {
		cmd := m.showToast(components.NewStatusToast("feed disconnected, reconnecting", m.now()))
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Input):
		m.inputFocused = true
		if msg.String() == "/" && m.input.Value() == "" {
			m.input.SetValue("/")
			m.input.CursorEnd()
			m.refreshCompletions()
		}
		cmd := m.input.Focus()
		return m, tea.Batch(cmd, textinput.Blink)

	case key.Matches(msg, m.keyMap.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keyMap.Home):
		m.selectEdge(false)
	case key.Matches(msg, m.keyMap.End):
		m.selectEdge(true)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		m.follow = false
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keyMap.RejectAll):
		return m.rejectAll()

	default:
		tc, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.handleRowKey(msg, tc)
	}

	m.updateViewport()
	return m, nil
}

// handleRowKey applies a key to the selected row.
func (m Model) handleRowKey(msg tea.KeyMsg, tc acp.ToolCall) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keyMap.Toggle):
		m.list.Toggle(tc)
	case key.Matches(msg, m.keyMap.NextOption):
		m.list.MoveButton(tc, 1)
	case key.Matches(msg, m.keyMap.PrevOption):
		m.list.MoveButton(tc, -1)
	case key.Matches(msg, m.keyMap.Choose):
		if sub, ok := m.list.Choose(tc); ok {
			cmd = components.SubmitPermissionCmd(m.ctx, sub)
		}
	case key.Matches(msg, m.keyMap.NextDiff):
		m.list.FocusDiff(tc, 1)
	case key.Matches(msg, m.keyMap.PrevDiff):
		m.list.FocusDiff(tc, -1)
	case key.Matches(msg, m.keyMap.ToggleDiff):
		m.list.ToggleDiff(tc)
	case key.Matches(msg, m.keyMap.DetailUp):
		m.list.ScrollDetail(tc, -1)
	case key.Matches(msg, m.keyMap.DetailDown):
		m.list.ScrollDetail(tc, 1)
	default:
		return m, nil
	}

	m.updateViewport()
	return m, cmd
}

// rejectAll rejects every pending decision of the selected row's session, or
// of every session with a pending decision when nothing pending is selected.
func (m Model) rejectAll() (tea.Model, tea.Cmd) {
	if m.perms == nil {
		return m, nil
	}

	pending := m.store.PendingPermissions()
	var sessions []string
	if tc, ok := m.selected(); ok && toolcall.OffersPermission(tc) {
		sessions = []string{tc.SessionID}
	} else {
		seen := make(map[string]bool)
		for _, tc := range pending {
			if !seen[tc.SessionID] {
				seen[tc.SessionID] = true
				sessions = append(sessions, tc.SessionID)
			}
		}
	}

	var cmds []tea.Cmd
	for _, session := range sessions {
		for _, sub := range m.perms.RejectAll(session, pending) {
			cmds = append(cmds, components.SubmitPermissionCmd(m.ctx, sub))
		}
	}
	if len(cmds) == 0 {
		cmd := m.showToast(components.NewStatusToast("nothing to reject", m.now()))
		return m, cmd
	}

	m.updateViewport()
	cmds = append(cmds, m.showToast(components.NewStatusToast(
		fmt.Sprintf("rejecting %d pending tool calls", len(cmds)), m.now())))
	return m, tea.Batch(cmds...)
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.inputFocused = false
		m.input.Blur()
		m.completion.Clear()
		return m, nil

	case "tab":
		if m.completion.Visible {
			m.completion.Next()
		} else {
			m.refreshCompletions()
		}
		return m, nil

	case "shift+tab":
		m.completion.Prev()
		return m, nil

	case "enter":
		if m.completion.Visible && m.completion.GetSelected() != nil {
			m.input.SetValue(m.completion.Accept())
			m.input.CursorEnd()
			m.completion.Clear()
			return m, nil
		}
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if persona := commands.Mention(m.input.Value()); persona != m.persona {
		m.persona = persona
		m.completion.Clear()
		return m, tea.Batch(cmd, m.loadCommands(persona))
	}
	m.refreshCompletions()
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	if m.opts.OnSubmit == nil {
		cmd := m.showToast(components.NewStatusToast("input is local only", m.now()))
		return m, cmd
	}
	m.input.Reset()
	m.completion.Clear()
	return m, m.opts.OnSubmit(text)
}

// refreshCompletions recomputes suggestions for the current input.
func (m *Model) refreshCompletions() {
	value := m.input.Value()
	if !commands.IsCommand(value) {
		m.completion.Clear()
		return
	}
	m.completion.Update(value, m.completer.Complete(value, len(value)))
}

func (m *Model) hasWorkingRows() bool {
	for _, tc := range m.calls() {
		if toolcall.Classify(tc).Variant == toolcall.VariantWorking {
			return true
		}
	}
	return false
}
