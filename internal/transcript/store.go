// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
)

// DefaultMaxMessages bounds the transcript when no limit is configured.
const DefaultMaxMessages = 200

// ErrMessageNotFound is returned when no message has the requested ID.
var ErrMessageNotFound = errors.New("message not found")

// =============================================================================
// STORE
// =============================================================================

// Store is an ordered, bounded list of messages. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	messages []acp.Message
	index    map[string]int

	// MaxMessages limits kept messages (0 = DefaultMaxMessages)
	MaxMessages int
}

// NewStore creates a store keeping at most max messages.
func NewStore(max int) *Store {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &Store{
		index:       make(map[string]int),
		MaxMessages: max,
	}
}

// Upsert inserts a message or replaces the message with the same ID in
// place. A message without an ID gets a fresh one. It returns the tool-call
// IDs that left the transcript: calls dropped from the replaced message and
// calls of evicted messages.
func (s *Store) Upsert(msg acp.Message) []string {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var gone []string
	if i, ok := s.index[msg.ID]; ok {
		gone = droppedCalls(s.messages[i], msg)
		s.messages[i] = msg
	} else {
		s.index[msg.ID] = len(s.messages)
		s.messages = append(s.messages, msg)
	}

	return append(gone, s.enforceLimit()...)
}

// droppedCalls lists the calls of prev that next no longer carries.
func droppedCalls(prev, next acp.Message) []string {
	keep := make(map[string]bool, len(next.ToolCalls()))
	for _, tc := range next.ToolCalls() {
		keep[tc.ToolCallID] = true
	}
	var gone []string
	for _, tc := range prev.ToolCalls() {
		if !keep[tc.ToolCallID] {
			gone = append(gone, tc.ToolCallID)
		}
	}
	return gone
}

// enforceLimit evicts the oldest messages beyond MaxMessages.
func (s *Store) enforceLimit() []string {
	max := s.MaxMessages
	if max <= 0 {
		max = DefaultMaxMessages
	}
	excess := len(s.messages) - max
	if excess <= 0 {
		return nil
	}

	var gone []string
	for _, msg := range s.messages[:excess] {
		delete(s.index, msg.ID)
		for _, tc := range msg.ToolCalls() {
			gone = append(gone, tc.ToolCallID)
		}
	}
	s.messages = append([]acp.Message(nil), s.messages[excess:]...)
	for i, msg := range s.messages {
		s.index[msg.ID] = i
	}
	return gone
}

// Get returns a message by ID.
func (s *Store) Get(id string) (acp.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return acp.Message{}, ErrMessageNotFound
	}
	return s.messages[i], nil
}

// Messages returns a copy of the transcript in order.
func (s *Store) Messages() []acp.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]acp.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear removes every message and returns the IDs of their tool calls.
func (s *Store) Clear() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gone []string
	for _, msg := range s.messages {
		for _, tc := range msg.ToolCalls() {
			gone = append(gone, tc.ToolCallID)
		}
	}
	s.messages = nil
	s.index = make(map[string]int)
	return gone
}

// =============================================================================
// TOOL CALL QUERIES
// =============================================================================

// ToolCalls returns every tool call in display order.
func (s *Store) ToolCalls() []acp.ToolCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []acp.ToolCall
	for _, msg := range s.messages {
		out = append(out, msg.ToolCalls()...)
	}
	return out
}

// FindToolCall returns the latest snapshot of a tool call.
func (s *Store) FindToolCall(toolCallID string) (acp.ToolCall, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msg := range s.messages {
		for _, tc := range msg.ToolCalls() {
			if tc.ToolCallID == toolCallID {
				return tc, true
			}
		}
	}
	return acp.ToolCall{}, false
}

// LiveToolCalls returns the set of tool-call IDs currently displayed.
func (s *Store) LiveToolCalls() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live := make(map[string]bool)
	for _, msg := range s.messages {
		for _, tc := range msg.ToolCalls() {
			live[tc.ToolCallID] = true
		}
	}
	return live
}

// PendingPermissions returns the calls that currently offer buttons.
func (s *Store) PendingPermissions() []acp.ToolCall {
	var out []acp.ToolCall
	for _, tc := range s.ToolCalls() {
		if toolcall.OffersPermission(tc) {
			out = append(out, tc)
		}
	}
	return out
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportJSON returns the transcript as indented JSON, one object per message.
func (s *Store) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Messages(), "", "  ")
}

// ExportText renders a plain outline of the transcript: each message body
// followed by one line per tool call.
func (s *Store) ExportText() string {
	var b strings.Builder
	for i, msg := range s.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		sender := msg.Sender
		if sender == "" {
			sender = "agent"
		}
		b.WriteString("## " + sender + "\n")
		if msg.Body != "" {
			b.WriteString(msg.Body + "\n")
		}
		for _, tc := range msg.ToolCalls() {
			d := toolcall.Classify(tc)
			line := d.Icon + " " + d.Title
			if d.PermissionLabel != "" {
				line += " " + d.PermissionLabel
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
