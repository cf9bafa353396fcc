// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

import (
	"strings"
	"time"
)

// =============================================================================
// KIND
// =============================================================================

// Kind identifies the category of an agent action. Unknown values are kept
// verbatim so newer agents never break rendering.
type Kind string

const (
	KindRead       Kind = "read"
	KindEdit       Kind = "edit"
	KindDelete     Kind = "delete"
	KindMove       Kind = "move"
	KindSearch     Kind = "search"
	KindExecute    Kind = "execute"
	KindThink      Kind = "think"
	KindFetch      Kind = "fetch"
	KindSwitchMode Kind = "switch_mode"
)

// Known reports whether k is one of the ACP kinds this package understands.
func (k Kind) Known() bool {
	switch k {
	case KindRead, KindEdit, KindDelete, KindMove, KindSearch,
		KindExecute, KindThink, KindFetch, KindSwitchMode:
		return true
	default:
		return false
	}
}

// TouchesFiles reports whether the kind's detail view is its list of locations.
func (k Kind) TouchesFiles() bool {
	switch k {
	case KindRead, KindEdit, KindDelete, KindMove:
		return true
	default:
		return false
	}
}

// ProducesOutput reports whether the kind's detail view is its raw output.
func (k Kind) ProducesOutput() bool {
	switch k {
	case KindSearch, KindExecute, KindThink, KindFetch:
		return true
	default:
		return false
	}
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state reported by the agent.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPending    Status = "pending"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Known reports whether s is a recognised status.
func (s Status) Known() bool {
	switch s {
	case StatusInProgress, StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// PermissionStatus tracks a permission decision. The zero value means no
// decision was ever requested.
type PermissionStatus string

const (
	PermissionPending  PermissionStatus = "pending"
	PermissionResolved PermissionStatus = "resolved"
)

// =============================================================================
// PERMISSION OPTIONS
// =============================================================================

// PermissionOption is one button offered to the user. Description carries the
// ACP option kind (allow_once, reject_once, ...).
type PermissionOption struct {
	OptionID    string `json:"option_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// IsReject reports whether choosing this option rejects the tool call.
func (o PermissionOption) IsReject() bool {
	return strings.Contains(o.Description, "reject")
}

// FindRejectOption returns the first option whose description marks it as a
// rejection.
func FindRejectOption(options []PermissionOption) (PermissionOption, bool) {
	for _, opt := range options {
		if opt.IsReject() {
			return opt, true
		}
	}
	return PermissionOption{}, false
}

// =============================================================================
// FILE DIFF
// =============================================================================

// FileDiff is the before/after content of a single file. A nil OldText marks
// a newly created file.
type FileDiff struct {
	Path    string  `json:"path"`
	OldText *string `json:"old_text,omitempty"`
	NewText string  `json:"new_text"`
}

// Old returns the previous content, treating an absent value as empty.
func (d FileDiff) Old() string {
	if d.OldText == nil {
		return ""
	}
	return *d.OldText
}

// =============================================================================
// TOOL CALL
// =============================================================================

// ToolCall is an immutable snapshot of one agent action.
type ToolCall struct {
	ToolCallID        string             `json:"tool_call_id"`
	Title             string             `json:"title,omitempty"`
	Kind              Kind               `json:"kind,omitempty"`
	Status            Status             `json:"status,omitempty"`
	RawOutput         RawOutput          `json:"raw_output,omitzero"`
	Locations         []string           `json:"locations,omitempty"`
	Diffs             []FileDiff         `json:"diffs,omitempty"`
	PermissionOptions []PermissionOption `json:"permission_options,omitempty"`
	PermissionStatus  PermissionStatus   `json:"permission_status,omitempty"`
	SelectedOptionID  string             `json:"selected_option_id,omitempty"`
	SessionID         string             `json:"session_id,omitempty"`
}

// PermissionPending reports whether a decision is waiting on the user.
func (tc ToolCall) PermissionPending() bool {
	return tc.PermissionStatus == PermissionPending
}

// PermissionResolved reports whether a decision has been recorded.
func (tc ToolCall) PermissionResolved() bool {
	return tc.PermissionStatus == PermissionResolved
}

// SelectedOption returns the option matching SelectedOptionID. It only
// succeeds when exactly one option carries that ID.
func (tc ToolCall) SelectedOption() (PermissionOption, bool) {
	if tc.SelectedOptionID == "" {
		return PermissionOption{}, false
	}
	var (
		found PermissionOption
		count int
	)
	for _, opt := range tc.PermissionOptions {
		if opt.OptionID == tc.SelectedOptionID {
			found = opt
			count++
		}
	}
	if count != 1 {
		return PermissionOption{}, false
	}
	return found, true
}

// Option looks up an offered option by ID.
func (tc ToolCall) Option(optionID string) (PermissionOption, bool) {
	for _, opt := range tc.PermissionOptions {
		if opt.OptionID == optionID {
			return opt, true
		}
	}
	return PermissionOption{}, false
}

// HasDiffs reports whether the call carries any file diff.
func (tc ToolCall) HasDiffs() bool {
	return len(tc.Diffs) > 0
}

// =============================================================================
// MESSAGE
// =============================================================================

// Metadata is the structured part of a chat message.
type Metadata struct {
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Message is one transcript entry. It owns its tool calls; evicting the
// message discards them.
type Message struct {
	ID       string    `json:"id"`
	Sender   string    `json:"sender,omitempty"`
	Body     string    `json:"body,omitempty"`
	Time     time.Time `json:"time,omitzero"`
	Metadata Metadata  `json:"metadata"`
}

// ToolCalls returns the message's tool calls in display order.
func (m Message) ToolCalls() []ToolCall {
	return m.Metadata.ToolCalls
}
