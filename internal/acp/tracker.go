// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ACP WIRE TYPES
// =============================================================================

// Session update discriminators handled by the tracker.
const (
	UpdateToolCall          = "tool_call"
	UpdateToolCallUpdate    = "tool_call_update"
	UpdateAgentMessageChunk = "agent_message_chunk"
)

// SessionNotification is the params object of an ACP session/update
// notification.
type SessionNotification struct {
	SessionID string        `json:"sessionId"`
	Update    SessionUpdate `json:"update"`
}

// SessionUpdate carries one update. Pointer and nil-slice fields distinguish
// "not sent" from "sent empty" so progress updates only overwrite what changed.
type SessionUpdate struct {
	SessionUpdate string          `json:"sessionUpdate"`
	ToolCallID    string          `json:"toolCallId,omitempty"`
	Title         *string         `json:"title,omitempty"`
	Kind          *Kind           `json:"kind,omitempty"`
	Status        *Status         `json:"status,omitempty"`
	RawOutput     RawOutput       `json:"rawOutput,omitzero"`
	Locations     []Location      `json:"locations,omitempty"`
	Content       json.RawMessage `json:"content,omitempty"`
}

// Location is a file touched by a tool call.
type Location struct {
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}

// toolCallContent is one element of a tool call's content array.
type toolCallContent struct {
	Type    string        `json:"type"`
	Path    string        `json:"path,omitempty"`
	OldText *string       `json:"oldText,omitempty"`
	NewText string        `json:"newText,omitempty"`
	Content *ContentBlock `json:"content,omitempty"`
}

// =============================================================================
// TITLES
// =============================================================================

var kindVerbs = map[Kind]string{
	KindRead:       "Reading",
	KindEdit:       "Editing",
	KindDelete:     "Deleting",
	KindMove:       "Moving",
	KindSearch:     "Searching",
	KindExecute:    "Running command",
	KindThink:      "Thinking",
	KindFetch:      "Fetching",
	KindSwitchMode: "Switching mode",
}

// GenerateTitle builds a title for an untitled call from its kind and the
// file name of its first location.
func GenerateTitle(kind Kind, locations []string) string {
	verb, ok := kindVerbs[kind]
	if !ok {
		verb = "Working"
	}
	if len(locations) > 0 {
		return verb + " " + baseName(locations[0])
	}
	return verb + "..."
}

// ShortenTitle replaces absolute paths inside a title with their file names.
func ShortenTitle(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		if strings.HasPrefix(word, "/") && strings.Contains(word[1:], "/") {
			words[i] = baseName(word)
		}
	}
	return strings.Join(words, " ")
}

func resolveTitle(title string, kind Kind, locations []string) string {
	if title != "" {
		return ShortenTitle(title)
	}
	if kind != "" || len(locations) > 0 {
		return GenerateTitle(kind, locations)
	}
	return "Working..."
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// =============================================================================
// TRACKER
// =============================================================================

type sessionState struct {
	messageID string
	body      strings.Builder
	calls     map[string]ToolCall
	order     []string
	started   time.Time
}

// Tracker folds ACP notifications into message snapshots, one message per
// session turn.
type Tracker struct {
	mu       sync.Mutex
	sender   string
	sessions map[string]*sessionState
	newID    func() string
	now      func() time.Time
}

// NewTracker creates a tracker whose messages are attributed to sender.
func NewTracker(sender string) *Tracker {
	return &Tracker{
		sender:   sender,
		sessions: make(map[string]*sessionState),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Reset clears a session's tool calls so the next update starts a new message.
func (t *Tracker) Reset(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}

// MessageID returns the current message for a session, if one exists.
func (t *Tracker) MessageID(sessionID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return "", false
	}
	return s.messageID, true
}

// Apply folds one notification and returns the new snapshot of the session's
// message. Updates the tracker does not render report false.
func (t *Tracker) Apply(n SessionNotification) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	u := n.Update
	switch u.SessionUpdate {
	case UpdateToolCall:
		s := t.ensure(n.SessionID)
		t.applyStart(s, n.SessionID, u)
		return t.snapshot(s), true

	case UpdateToolCallUpdate:
		s := t.ensure(n.SessionID)
		t.applyProgress(s, n.SessionID, u)
		return t.snapshot(s), true

	case UpdateAgentMessageChunk:
		var block ContentBlock
		if err := json.Unmarshal(u.Content, &block); err != nil || block.Text == "" {
			return Message{}, false
		}
		s := t.ensure(n.SessionID)
		s.body.WriteString(block.Text)
		return t.snapshot(s), true
	}

	return Message{}, false
}

func (t *Tracker) ensure(sessionID string) *sessionState {
	s, ok := t.sessions[sessionID]
	if !ok {
		s = &sessionState{
			messageID: t.newID(),
			calls:     make(map[string]ToolCall),
			started:   t.now(),
		}
		t.sessions[sessionID] = s
	}
	return s
}

// applyStart replaces any previous state for the call.
func (t *Tracker) applyStart(s *sessionState, sessionID string, u SessionUpdate) {
	var kind Kind
	if u.Kind != nil {
		kind = *u.Kind
	}
	var title string
	if u.Title != nil {
		title = *u.Title
	}
	locations := locationPaths(u.Locations)
	status := StatusInProgress
	if u.Status != nil && *u.Status != "" {
		status = *u.Status
	}

	t.store(s, ToolCall{
		ToolCallID: u.ToolCallID,
		Title:      resolveTitle(title, kind, locations),
		Kind:       kind,
		Status:     status,
		RawOutput:  u.RawOutput,
		Locations:  locations,
		Diffs:      diffsFromContent(u.Content),
		SessionID:  sessionID,
	})
}

// applyProgress overlays the fields that were sent onto a copy of the
// previous snapshot.
func (t *Tracker) applyProgress(s *sessionState, sessionID string, u SessionUpdate) {
	prev, ok := s.calls[u.ToolCallID]
	if !ok {
		t.applyStart(s, sessionID, u)
		return
	}

	next := prev
	if u.Title != nil {
		next.Title = resolveTitle(*u.Title, next.Kind, next.Locations)
	}
	if u.Kind != nil {
		next.Kind = *u.Kind
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.RawOutput.Present() {
		next.RawOutput = u.RawOutput
	}
	if u.Locations != nil {
		next.Locations = locationPaths(u.Locations)
	}
	if diffs := diffsFromContent(u.Content); diffs != nil {
		next.Diffs = diffs
	}
	t.store(s, next)
}

func (t *Tracker) store(s *sessionState, tc ToolCall) {
	if _, exists := s.calls[tc.ToolCallID]; !exists {
		s.order = append(s.order, tc.ToolCallID)
	}
	s.calls[tc.ToolCallID] = tc
}

func (t *Tracker) snapshot(s *sessionState) Message {
	calls := make([]ToolCall, 0, len(s.order))
	for _, id := range s.order {
		calls = append(calls, s.calls[id])
	}
	return Message{
		ID:       s.messageID,
		Sender:   t.sender,
		Body:     s.body.String(),
		Time:     s.started,
		Metadata: Metadata{ToolCalls: calls},
	}
}

func locationPaths(locs []Location) []string {
	if locs == nil {
		return nil
	}
	paths := make([]string, 0, len(locs))
	for _, loc := range locs {
		paths = append(paths, loc.Path)
	}
	return paths
}

// diffsFromContent extracts diff entries; nil means the update carried none.
func diffsFromContent(raw json.RawMessage) []FileDiff {
	if len(raw) == 0 {
		return nil
	}
	var items []toolCallContent
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var diffs []FileDiff
	for _, item := range items {
		if item.Type != "diff" {
			continue
		}
		diffs = append(diffs, FileDiff{
			Path:    item.Path,
			OldText: item.OldText,
			NewText: item.NewText,
		})
	}
	return diffs
}
