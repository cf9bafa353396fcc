// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package permission

import (
	"sync"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

// Registry hands out one Controller per tool call. Controllers are never
// shared across calls.
type Registry struct {
	mu          sync.Mutex
	submitter   Submitter
	controllers map[string]*Controller
}

// NewRegistry creates a registry whose controllers submit through s.
func NewRegistry(s Submitter) *Registry {
	return &Registry{
		submitter:   s,
		controllers: make(map[string]*Controller),
	}
}

// Get returns the controller for a tool call, creating it on first use.
func (r *Registry) Get(toolCallID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[toolCallID]
	if !ok {
		c = NewController(toolCallID, r.submitter)
		r.controllers[toolCallID] = c
	}
	return c
}

// Lookup returns an existing controller without creating one.
func (r *Registry) Lookup(toolCallID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[toolCallID]
	return c, ok
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// SyncAll feeds a batch of snapshots to their controllers.
func (r *Registry) SyncAll(calls []acp.ToolCall) {
	for _, tc := range calls {
		r.Get(tc.ToolCallID).Sync(tc)
	}
}

// Remove discards the controller of one tool call.
func (r *Registry) Remove(toolCallID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.controllers[toolCallID]; ok {
		c.Discard()
		delete(r.controllers, toolCallID)
	}
}

// Prune discards every controller whose tool call is not in live. It returns
// the number removed.
func (r *Registry) Prune(live map[string]bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, c := range r.controllers {
		if live[id] {
			continue
		}
		c.Discard()
		delete(r.controllers, id)
		removed++
	}
	return removed
}

// RejectAll begins a rejecting submission for every call of the session that
// currently offers buttons and has a reject option. The returned submissions
// still need to be run.
func (r *Registry) RejectAll(sessionID string, calls []acp.ToolCall) []*Submission {
	var subs []*Submission
	for _, tc := range calls {
		if tc.SessionID != sessionID {
			continue
		}
		opt, ok := acp.FindRejectOption(tc.PermissionOptions)
		if !ok {
			continue
		}
		if sub, ok := r.Get(tc.ToolCallID).Begin(tc, opt.OptionID); ok {
			subs = append(subs, sub)
		}
	}
	return subs
}
