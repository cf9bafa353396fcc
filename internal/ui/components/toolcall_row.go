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
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// =============================================================================
// ROW STATE
// =============================================================================

// RowState is the local UI state of one tool-call row. It survives snapshot
// replacement and is discarded with the row.
type RowState struct {
	// Expanded is the panel toggle.
	Expanded bool
	// Diffs holds the truncation toggle of each diff block, by index.
	Diffs []diff.View
	// Button is the focused permission option.
	Button int
	// Focus is the focused element inside an expanded diff panel: -1 for
	// none, otherwise a diff block index.
	Focus int
	// DetailOffset scrolls block-tier detail.
	DetailOffset int
	// Variant is the render variant of the last observed snapshot.
	Variant toolcall.Variant
}

// newRowState seeds the state from the first snapshot seen for a row.
func newRowState(d toolcall.Decision) *RowState {
	return &RowState{
		Expanded: d.StartExpanded,
		Focus:    -1,
		Variant:  d.Variant,
	}
}

// observe follows a new snapshot. A row that turns into a pending diff opens
// once; toggles made after that are kept.
func (s *RowState) observe(d toolcall.Decision) {
	if d.Variant == toolcall.VariantPendingDiff && s.Variant != toolcall.VariantPendingDiff {
		s.Expanded = true
	}
	s.Variant = d.Variant
}

// DiffView returns the toggle state of diff block i.
func (s *RowState) DiffView(i int) diff.View {
	if i < len(s.Diffs) {
		return s.Diffs[i]
	}
	return diff.View{}
}

// ToggleDiff flips the truncation of diff block i.
func (s *RowState) ToggleDiff(i int) {
	if i < 0 {
		return
	}
	for len(s.Diffs) <= i {
		s.Diffs = append(s.Diffs, diff.View{})
	}
	s.Diffs[i].Toggle()
}

// =============================================================================
// TOOL CALL ROW
// =============================================================================

// ToolCallRow renders one tool call. Everything it shows is derived from the
// snapshot, the row state and the permission state; it never mutates the call.
type ToolCallRow struct {
	Call       acp.ToolCall
	Decision   toolcall.Decision
	State      *RowState
	Permission permission.State
	Err        error
	Selected   bool
	Width      int
	Tick       int
}

// Expanded reports whether the panel is open.
func (r ToolCallRow) Expanded() bool {
	return r.Decision.Variant.Expandable() && r.State != nil && r.State.Expanded
}

// View renders the row.
func (r ToolCallRow) View(theme *styles.Theme, cache *DiffCache) string {
	var b strings.Builder
	b.WriteString(r.renderTitleLine(theme))

	if r.Expanded() {
		switch r.Decision.Variant {
		case toolcall.VariantPendingDiff, toolcall.VariantDiff:
			for i, fd := range r.Call.Diffs {
				block := DiffBlock{
					Diff:    cache.Get(fd),
					State:   r.State.DiffView(i),
					Width:   r.Width - 4,
					Focused: r.Selected && r.State.Focus == i,
				}
				b.WriteString("\n")
				b.WriteString(util.Indent(block.View(theme), "  "))
			}
		case toolcall.VariantDetail:
			panel := DetailPanel{
				Detail: r.Decision.Detail,
				Kind:   r.Call.Kind,
				Width:  r.Width,
				Offset: r.State.DetailOffset,
			}
			b.WriteString("\n")
			b.WriteString(panel.View(theme))
		}
	}

	if r.Permission.Visible() {
		buttons := PermissionButtons{
			Options:  r.Call.PermissionOptions,
			Selected: r.selectedButton(),
			State:    r.Permission,
			Focused:  r.Selected,
		}
		b.WriteString("\n")
		b.WriteString(util.Indent(buttons.View(theme), "  "))
	}

	if r.Err != nil && r.Permission.Enabled() {
		b.WriteString("\n  ")
		b.WriteString(styles.RenderError("permission not sent: " + r.Err.Error()))
	}

	return b.String()
}

// renderTitleLine renders "<icon> <title> [— option] [toggle]".
func (r ToolCallRow) renderTitleLine(theme *styles.Theme) string {
	d := r.Decision

	parts := []string{theme.StatusIcon(d.Bucket.String(), d.Icon)}

	title := d.Title
	if r.Width > 0 {
		title = util.TruncateWidth(title, r.Width-8)
	}
	if r.Selected {
		parts = append(parts, theme.RowSelected.Render(title))
	} else {
		parts = append(parts, theme.RowTitle.Render(title))
	}

	if d.PermissionLabel != "" {
		parts = append(parts, theme.RowLabel.Render(d.PermissionLabel))
	}

	if d.Variant == toolcall.VariantWorking {
		parts = append(parts, theme.RowWorking.Render(styles.WorkingSpinner.Frame(r.Tick)))
	}

	if d.Variant.Expandable() {
		toggle := "▸"
		if r.Expanded() {
			toggle = "▾"
		}
		parts = append(parts, theme.RowToggle.Render(toggle))
	}

	return strings.Join(parts, " ")
}

func (r ToolCallRow) selectedButton() int {
	if r.State == nil {
		return 0
	}
	return r.State.Button
}
