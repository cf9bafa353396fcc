// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

// =============================================================================
// PERMISSION REQUESTS
// =============================================================================

// WireOption is a permission option as the agent sends it.
type WireOption struct {
	OptionID string `json:"optionId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

// PermissionRequest is the params object of session/request_permission.
type PermissionRequest struct {
	SessionID string        `json:"sessionId"`
	ToolCall  SessionUpdate `json:"toolCall"`
	Options   []WireOption  `json:"options"`
}

// options converts wire options; the option kind becomes the description so
// rejection stays detectable.
func (r PermissionRequest) options() []PermissionOption {
	opts := make([]PermissionOption, 0, len(r.Options))
	for _, o := range r.Options {
		opts = append(opts, PermissionOption{OptionID: o.OptionID, Title: o.Name, Description: o.Kind})
	}
	return opts
}

// RequestPermission marks a call as waiting on the user, creating it when the
// request is the first thing seen for it. Fields sent with the request's tool
// call overlay the previous snapshot.
func (t *Tracker) RequestPermission(req PermissionRequest) (Message, bool) {
	if req.ToolCall.ToolCallID == "" || len(req.Options) == 0 {
		return Message{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.ensure(req.SessionID)
	t.applyProgress(s, req.SessionID, req.ToolCall)

	tc := s.calls[req.ToolCall.ToolCallID]
	tc.PermissionOptions = req.options()
	tc.PermissionStatus = PermissionPending
	tc.SelectedOptionID = ""
	if tc.Status == StatusInProgress || tc.Status == "" {
		tc.Status = StatusPending
	}
	t.store(s, tc)
	return t.snapshot(s), true
}

// ResolvePermission records the chosen option of a pending call. It reports
// false when the call is unknown, not pending, or the option is not offered.
func (t *Tracker) ResolvePermission(sessionID, toolCallID, optionID string) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return Message{}, false
	}
	tc, ok := s.calls[toolCallID]
	if !ok || !tc.PermissionPending() {
		return Message{}, false
	}
	if _, ok := tc.Option(optionID); !ok {
		return Message{}, false
	}

	tc.PermissionStatus = PermissionResolved
	tc.SelectedOptionID = optionID
	if tc.Status == StatusPending {
		tc.Status = StatusInProgress
	}
	t.store(s, tc)
	return t.snapshot(s), true
}
