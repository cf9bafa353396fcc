// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/commands"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/permission"
	"github.com/jeranaias/rigrun-acp/internal/permission/mocks"
	"github.com/jeranaias/rigrun-acp/internal/ui/components"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// =============================================================================
// HELPERS
// =============================================================================

var (
	allowOnce = acp.PermissionOption{OptionID: "allow", Title: "Allow once", Description: "allow_once"}
	rejectOne = acp.PermissionOption{OptionID: "reject", Title: "Reject", Description: "reject_once"}
)

func strPtr(s string) *string { return &s }

func pendingEdit(id string) acp.ToolCall {
	return acp.ToolCall{
		ToolCallID:        id,
		Title:             "Edit " + id,
		Kind:              acp.KindEdit,
		Status:            acp.StatusPending,
		Diffs:             []acp.FileDiff{{Path: "/repo/b.py", OldText: strPtr("x = 1"), NewText: "x = 2"}},
		PermissionOptions: []acp.PermissionOption{allowOnce, rejectOne},
		PermissionStatus:  acp.PermissionPending,
		SessionID:         "s1",
	}
}

func message(id string, calls ...acp.ToolCall) acp.Message {
	return acp.Message{ID: id, Sender: "agent", Metadata: acp.Metadata{ToolCalls: calls}}
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(styles.NewTheme(), opts)
	t.Cleanup(m.Close)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// collect runs cmd and every command it batches, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func staticCommands(byPersona map[string][]commands.Command) commands.Source {
	return commands.SourceFunc(func(_ context.Context, _ string, persona string) ([]commands.Command, error) {
		return byPersona[persona], nil
	})
}

// =============================================================================
// TESTS
// =============================================================================

func TestViewBeforeResize(t *testing.T) {
	m := New(styles.NewTheme(), Options{})
	defer m.Close()
	assert.Equal(t, "Loading...", m.View())
}

func TestEmptyTranscriptHint(t *testing.T) {
	m := newModel(t, Options{Source: "ws://agent"})
	assert.Contains(t, m.View(), "Waiting for tool calls from ws://agent...")
}

func TestFeedMessageRendersRows(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, FeedMessageMsg{Message: message("m1",
		acp.ToolCall{ToolCallID: "a", Title: "Read config", Kind: acp.KindRead, Status: acp.StatusCompleted},
		acp.ToolCall{ToolCallID: "b", Title: "Run tests", Kind: acp.KindExecute, Status: acp.StatusFailed},
	)})

	view := m.View()
	assert.Contains(t, view, "agent")
	assert.Contains(t, view, "✓ Read config")
	assert.Contains(t, view, "✗ Run tests")
	assert.Equal(t, 1, m.Store().Len())
}

func TestSelectionMoves(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, FeedMessageMsg{Message: message("m1",
		acp.ToolCall{ToolCallID: "a", Title: "A", Status: acp.StatusCompleted},
		acp.ToolCall{ToolCallID: "b", Title: "B", Status: acp.StatusCompleted},
		acp.ToolCall{ToolCallID: "c", Title: "C", Status: acp.StatusCompleted},
	)})
	assert.Empty(t, m.SelectedID())

	m = update(t, m, runes("j"))
	assert.Equal(t, "a", m.SelectedID())
	m = update(t, m, runes("j"))
	assert.Equal(t, "b", m.SelectedID())
	m = update(t, m, runes("G"))
	assert.Equal(t, "c", m.SelectedID())
	m = update(t, m, runes("j"))
	assert.Equal(t, "c", m.SelectedID(), "selection stops at the last row")
	m = update(t, m, runes("k"))
	assert.Equal(t, "b", m.SelectedID())
	m = update(t, m, runes("g"))
	assert.Equal(t, "a", m.SelectedID())
}

func TestSelectionFollowsNewRows(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, FeedMessageMsg{Message: message("m1", acp.ToolCall{ToolCallID: "a", Status: acp.StatusCompleted})})
	m = update(t, m, runes("j"))
	require.Equal(t, "a", m.SelectedID())

	m = update(t, m, FeedMessageMsg{Message: message("m2", acp.ToolCall{ToolCallID: "b", Status: acp.StatusCompleted})})
	assert.Equal(t, "b", m.SelectedID())
}

func TestPermissionFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := mocks.NewMockSubmitter(ctrl)
	sub.EXPECT().
		SubmitPermission(gomock.Any(), permission.Decision{SessionID: "s1", ToolCallID: "tc-1", OptionID: "reject"}).
		Return(errors.New("boom"))

	m := newModel(t, Options{Submitter: sub})
	tc := pendingEdit("tc-1")
	m = update(t, m, FeedMessageMsg{Message: message("m1", tc)})
	assert.Contains(t, m.View(), "Allow once")

	m = update(t, m, runes("j"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := updateCmd(t, m, space)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "sending...")

	// A second click while submitting is ignored.
	_, again := updateCmd(t, m, space)
	assert.Nil(t, again)

	msg := cmd()
	result, ok := msg.(components.PermissionResultMsg)
	require.True(t, ok)
	assert.EqualError(t, result.Err, "boom")

	m = update(t, m, result)
	require.NotNil(t, m.Toast())
	assert.Equal(t, "permission not sent: boom", m.Toast().Message)
	assert.NotContains(t, m.View(), "sending...")

	resolved := tc
	resolved.Status = acp.StatusCompleted
	resolved.PermissionStatus = acp.PermissionResolved
	resolved.SelectedOptionID = "allow"
	m = update(t, m, FeedMessageMsg{Message: message("m1", resolved)})
	view := m.View()
	assert.Contains(t, view, "— Allow once")
	assert.NotContains(t, view, "permission not sent")
}

func TestResultForEvictedRowIsIgnored(t *testing.T) {
	sub := permission.SubmitterFunc(func(context.Context, permission.Decision) error {
		return errors.New("boom")
	})
	m := newModel(t, Options{Submitter: sub, MaxMessages: 1})
	m = update(t, m, FeedMessageMsg{Message: message("m1", pendingEdit("tc-1"))})

	m = update(t, m, runes("j"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := updateCmd(t, m, space)
	require.NotNil(t, cmd)

	m = update(t, m, FeedMessageMsg{Message: message("m2", acp.ToolCall{ToolCallID: "b", Title: "New call", Status: acp.StatusCompleted})})
	result, ok := cmd().(components.PermissionResultMsg)
	require.True(t, ok)
	require.Error(t, result.Err)

	m = update(t, m, result)
	assert.Nil(t, m.Toast())
	assert.NotContains(t, m.View(), "permission not sent")
}

func TestNoSubmitterHidesButtons(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, FeedMessageMsg{Message: message("m1", pendingEdit("tc-1"))})
	assert.NotContains(t, m.View(), "Allow once")

	m = update(t, m, runes("j"))
	_, cmd := updateCmd(t, m, space)
	assert.Nil(t, cmd)
}

func TestEvictionDropsRows(t *testing.T) {
	m := newModel(t, Options{MaxMessages: 1})
	m = update(t, m, FeedMessageMsg{Message: message("m1", acp.ToolCall{ToolCallID: "a", Title: "Old call", Status: acp.StatusCompleted})})
	m = update(t, m, runes("j"))
	m = update(t, m, FeedMessageMsg{Message: message("m2", acp.ToolCall{ToolCallID: "b", Title: "New call", Status: acp.StatusCompleted})})

	assert.Equal(t, 1, m.Store().Len())
	view := m.View()
	assert.NotContains(t, view, "Old call")
	assert.Contains(t, view, "New call")
	assert.Equal(t, "b", m.SelectedID())
}

func TestRejectAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := mocks.NewMockSubmitter(ctrl)
	sub.EXPECT().
		SubmitPermission(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d permission.Decision) error {
			assert.Equal(t, "reject", d.OptionID)
			return nil
		}).
		Times(2)

	m := newModel(t, Options{Submitter: sub})
	m.ticking = true // keep the toast ticker out of the collected commands
	m = update(t, m, FeedMessageMsg{Message: message("m1", pendingEdit("one"), pendingEdit("two"))})

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	require.NotNil(t, m.Toast())
	assert.Equal(t, "rejecting 2 pending tool calls", m.Toast().Message)

	results := 0
	for _, msg := range collect(cmd) {
		if r, ok := msg.(components.PermissionResultMsg); ok {
			assert.NoError(t, r.Err)
			results++
		}
	}
	assert.Equal(t, 2, results)
}

func TestRejectAllWithNothingPending(t *testing.T) {
	sub := permission.SubmitterFunc(func(context.Context, permission.Decision) error { return nil })
	m := newModel(t, Options{Submitter: sub})
	m.ticking = true

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, m.Toast())
	assert.Equal(t, "nothing to reject", m.Toast().Message)
}

func TestSlashCompletion(t *testing.T) {
	src := staticCommands(map[string][]commands.Command{
		"": {{Name: "/help", Description: "Show help"}, {Name: "/clear", Description: "Clear chat"}},
	})
	m := newModel(t, Options{Commands: src})
	m = update(t, m, m.loadCommands("")())

	m = update(t, m, runes("/"))
	assert.Equal(t, "/", m.InputValue())
	assert.Len(t, m.Completions(), 2)

	m = update(t, m, runes("h"))
	require.Len(t, m.Completions(), 1)
	assert.Equal(t, "/help", m.Completions()[0].Value)
	assert.Contains(t, m.View(), "Show help")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/help ", m.InputValue())
	assert.Empty(t, m.Completions())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = update(t, m, runes("j"))
	assert.Equal(t, "/help ", m.InputValue(), "keys go to the transcript once the input is blurred")
}

func TestPersonaMentionReloadsCommands(t *testing.T) {
	src := staticCommands(map[string][]commands.Command{
		"":       {{Name: "/help"}},
		"claude": {{Name: "/review"}},
	})
	m := newModel(t, Options{Commands: src, ChatPath: "chats/demo"})
	m = update(t, m, m.loadCommands("")())

	m = update(t, m, runes("i"))
	m, cmd := updateCmd(t, m, runes("@claude /"))
	require.NotNil(t, cmd)
	assert.Equal(t, "claude", m.persona)
	assert.Empty(t, m.Completions())

	loaded := m.loadCommands("claude")()
	assert.Equal(t, CommandsLoadedMsg{Persona: "claude", Count: 1}, loaded)
	m = update(t, m, loaded)
	require.Len(t, m.Completions(), 1)
	assert.Equal(t, "/review", m.Completions()[0].Value)

	// A stale lookup for another persona does not touch the suggestions.
	m = update(t, m, CommandsLoadedMsg{Persona: "", Count: 1})
	assert.Equal(t, "/review", m.Completions()[0].Value)
}

func TestSettingsReload(t *testing.T) {
	src := staticCommands(map[string][]commands.Command{"": {{Name: "/help"}}})
	m := newModel(t, Options{Commands: src, ChatPath: "chats/demo", MaxMessages: 10})

	m, cmd := updateCmd(t, m, SettingsMsg{ChatPath: "chats/demo", MaxMessages: 2})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.store.MaxMessages)

	m, cmd = updateCmd(t, m, SettingsMsg{ChatPath: "chats/other", MaxMessages: 2})
	require.NotNil(t, cmd)
	assert.Equal(t, "chats/other", m.opts.ChatPath)
	assert.Equal(t, CommandsLoadedMsg{Persona: "", Count: 1}, cmd())
}

func TestSubmitWithoutHandlerStaysLocal(t *testing.T) {
	m := newModel(t, Options{})
	m.ticking = true
	m = update(t, m, runes("i"))
	m = update(t, m, runes("hello"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.Toast())
	assert.Equal(t, "input is local only", m.Toast().Message)
	assert.Equal(t, "hello", m.InputValue())
}

func TestSubmitForwardsText(t *testing.T) {
	var got string
	m := newModel(t, Options{OnSubmit: func(text string) tea.Cmd {
		got = text
		return nil
	}})
	m = update(t, m, runes("i"))
	m = update(t, m, runes("hello"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "hello", got)
	assert.Empty(t, m.InputValue())
}

func TestFeedStatus(t *testing.T) {
	m := newModel(t, Options{})
	m.ticking = true
	assert.Equal(t, components.ConnConnecting, m.Connection())

	m = update(t, m, FeedStatusMsg{Status: feed.StatusConnected})
	assert.Equal(t, components.ConnLive, m.Connection())
	assert.Nil(t, m.Toast())

	m = update(t, m, FeedStatusMsg{Status: feed.StatusReconnecting})
	assert.Equal(t, components.ConnReconnecting, m.Connection())
	require.NotNil(t, m.Toast())
	assert.Equal(t, "feed disconnected, reconnecting", m.Toast().Message)

	m = update(t, m, FeedDoneMsg{Err: errors.New("eof")})
	assert.Equal(t, components.ConnClosed, m.Connection())
	assert.Equal(t, "feed stopped: eof", m.Toast().Message)
}

func TestToastExpires(t *testing.T) {
	m := newModel(t, Options{})
	m.ticking = true
	m = update(t, m, FeedDoneMsg{Err: errors.New("eof")})
	require.NotNil(t, m.Toast())

	created := m.Toast().CreatedAt
	m = update(t, m, components.ToastTickMsg{Time: created.Add(components.ErrorToastDuration)})
	assert.Nil(t, m.Toast())
	assert.False(t, m.ticking)
}

func TestHelpOverlay(t *testing.T) {
	m := newModel(t, Options{})
	m = update(t, m, runes("?"))
	view := m.View()
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "press any key to close")

	m = update(t, m, runes("x"))
	assert.NotContains(t, m.View(), "press any key to close")
}

func TestToggleAndClear(t *testing.T) {
	m := newModel(t, Options{})
	tc := acp.ToolCall{
		ToolCallID: "run",
		Title:      "Run tests",
		Kind:       acp.KindExecute,
		Status:     acp.StatusCompleted,
		RawOutput:  acp.TextOutput("ok 1\nok 2\nok 3\nok 4"),
	}
	m = update(t, m, FeedMessageMsg{Message: message("m1", tc)})
	m = update(t, m, runes("j"))
	assert.NotContains(t, m.View(), "ok 4")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "ok 4")

	m = update(t, m, ClearTranscriptMsg{})
	assert.Equal(t, 0, m.Store().Len())
	assert.Empty(t, m.SelectedID())
	assert.Equal(t, 0, m.list.Len())
}

func TestQuit(t *testing.T) {
	m := newModel(t, Options{})
	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFeedHandlerForwards(t *testing.T) {
	var got []tea.Msg
	h := FeedHandler(func(msg tea.Msg) { got = append(got, msg) })

	h.OnStatus(feed.StatusConnected)
	h.OnMessage(message("m1"))

	require.Len(t, got, 2)
	assert.Equal(t, FeedStatusMsg{Status: feed.StatusConnected}, got[0])
	assert.Equal(t, FeedMessageMsg{Message: message("m1")}, got[1])
}
