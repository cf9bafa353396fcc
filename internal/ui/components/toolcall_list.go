// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/diff"
	"github.com/jeranaias/rigrun-acp/internal/permission"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// TOOL CALL LIST
// =============================================================================

// ToolCallList renders the tool calls of a message and owns the per-row UI
// state, keyed by tool_call_id. Not safe for concurrent use; it lives inside
// the event loop.
type ToolCallList struct {
	theme  *styles.Theme
	cache  *DiffCache
	perms  *permission.Registry
	states map[string]*RowState

	Width int
	Tick  int
}

// NewToolCallList creates a list renderer. perms may be nil for read-only
// rendering, in which case no buttons are drawn.
func NewToolCallList(theme *styles.Theme, cache *DiffCache, perms *permission.Registry) *ToolCallList {
	if cache == nil {
		cache = NewDiffCache(0)
	}
	return &ToolCallList{
		theme:  theme,
		cache:  cache,
		perms:  perms,
		states: make(map[string]*RowState),
		Width:  80,
	}
}

// State returns the row state of a call, seeding it from the snapshot on
// first use.
func (l *ToolCallList) State(tc acp.ToolCall) *RowState {
	s, ok := l.states[tc.ToolCallID]
	if !ok {
		s = newRowState(toolcall.Classify(tc))
		l.states[tc.ToolCallID] = s
	}
	return s
}

// Observe records a batch of new snapshots: row state is seeded for new
// calls, rows that become pending diffs are opened and permission
// controllers see the latest permission status.
func (l *ToolCallList) Observe(calls []acp.ToolCall) {
	for _, tc := range calls {
		if s, ok := l.states[tc.ToolCallID]; ok {
			s.observe(toolcall.Classify(tc))
			continue
		}
		l.State(tc)
	}
	if l.perms != nil {
		l.perms.SyncAll(calls)
	}
}

// Forget discards the state of calls that are no longer displayed. Pending
// submissions for them are ignored from now on.
func (l *ToolCallList) Forget(ids ...string) {
	for _, id := range ids {
		delete(l.states, id)
		if l.perms != nil {
			l.perms.Remove(id)
		}
	}
}

// Prune keeps only the state of calls in live.
func (l *ToolCallList) Prune(live map[string]bool) {
	for id := range l.states {
		if !live[id] {
			delete(l.states, id)
		}
	}
	if l.perms != nil {
		l.perms.Prune(live)
	}
}

// Len returns the number of rows with state.
func (l *ToolCallList) Len() int {
	return len(l.states)
}

// Row assembles the renderable row for a call.
func (l *ToolCallList) Row(tc acp.ToolCall, selected bool) ToolCallRow {
	row := ToolCallRow{
		Call:     tc,
		Decision: toolcall.Classify(tc),
		State:    l.State(tc),
		Selected: selected,
		Width:    l.Width,
		Tick:     l.Tick,
	}
	if l.perms != nil {
		c := l.perms.Get(tc.ToolCallID)
		row.Permission = c.State(tc)
		row.Err = c.Err()
	}
	return row
}

// View renders one row per call in order, or "" when there are none.
// selectedID marks the focused row.
func (l *ToolCallList) View(calls []acp.ToolCall, selectedID string) string {
	if len(calls) == 0 {
		return ""
	}

	rows := make([]string, 0, len(calls))
	for _, tc := range calls {
		rows = append(rows, l.RowView(tc, tc.ToolCallID == selectedID))
	}
	return strings.Join(rows, "\n")
}

// RowView renders a single row.
func (l *ToolCallList) RowView(tc acp.ToolCall, selected bool) string {
	return l.Row(tc, selected).View(l.theme, l.cache)
}

// =============================================================================
// INTERACTIONS
// =============================================================================

// Toggle opens or closes a row's panel. Rows without a panel ignore it.
func (l *ToolCallList) Toggle(tc acp.ToolCall) bool {
	if !toolcall.Classify(tc).Variant.Expandable() {
		return false
	}
	s := l.State(tc)
	s.Expanded = !s.Expanded
	return true
}

// FocusDiff moves the focus between the diff blocks of an expanded row.
func (l *ToolCallList) FocusDiff(tc acp.ToolCall, delta int) {
	s := l.State(tc)
	if !s.Expanded || len(tc.Diffs) == 0 {
		return
	}
	next := s.Focus + delta
	if next < -1 {
		next = -1
	}
	if next >= len(tc.Diffs) {
		next = len(tc.Diffs) - 1
	}
	s.Focus = next
}

// ToggleDiff flips the truncation of the focused diff block. It reports
// false when no truncatable block is focused.
func (l *ToolCallList) ToggleDiff(tc acp.ToolCall) bool {
	s := l.State(tc)
	if !s.Expanded || s.Focus < 0 || s.Focus >= len(tc.Diffs) {
		return false
	}
	d := l.cache.Get(tc.Diffs[s.Focus])
	if !diff.Truncatable(len(d.Lines)) {
		return false
	}
	s.ToggleDiff(s.Focus)
	return true
}

// ScrollDetail moves the scroll offset of block-tier detail.
func (l *ToolCallList) ScrollDetail(tc acp.ToolCall, delta int) {
	s := l.State(tc)
	d := toolcall.Classify(tc)
	if d.Variant != toolcall.VariantDetail || d.Detail.Tier != toolcall.TierBlock {
		return
	}
	block := NewCodeBlock("", d.Detail.Content)
	s.DetailOffset = block.ClampOffset(s.DetailOffset + delta)
}

// MoveButton shifts the focused permission option.
func (l *ToolCallList) MoveButton(tc acp.ToolCall, delta int) {
	s := l.State(tc)
	s.Button = ClampButton(s.Button+delta, len(tc.PermissionOptions))
}

// Choose begins a submission of the focused option. The buttons are
// disabled before it returns; the caller runs the submission.
func (l *ToolCallList) Choose(tc acp.ToolCall) (*permission.Submission, bool) {
	if l.perms == nil || len(tc.PermissionOptions) == 0 {
		return nil, false
	}
	s := l.State(tc)
	opt := tc.PermissionOptions[ClampButton(s.Button, len(tc.PermissionOptions))]
	return l.perms.Get(tc.ToolCallID).Begin(tc, opt.OptionID)
}
