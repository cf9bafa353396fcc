// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigrun-acp/internal/commands"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays slash-command suggestions above the input.
type CompletionPopup struct {
	State      *commands.CompletionState
	MaxVisible int
	Width      int
}

// NewCompletionPopup creates a popup over the given completion state.
func NewCompletionPopup(state *commands.CompletionState) *CompletionPopup {
	return &CompletionPopup{
		State:      state,
		MaxVisible: 8,
		Width:      50,
	}
}

// window returns the visible range, keeping the selection centred.
func (c *CompletionPopup) window() (int, int) {
	n := len(c.State.Completions)
	if n <= c.MaxVisible || c.MaxVisible <= 0 {
		return 0, n
	}
	start := c.State.Selected - c.MaxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + c.MaxVisible
	if end > n {
		end = n
		start = end - c.MaxVisible
	}
	return start, end
}

// View renders the popup, or "" when there is nothing to show.
func (c *CompletionPopup) View(theme *styles.Theme) string {
	if c.State == nil || !c.State.Visible || len(c.State.Completions) == 0 {
		return ""
	}

	start, end := c.window()
	items := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, c.renderItem(theme, c.State.Completions[i], i == c.State.Selected))
	}
	if hidden := len(c.State.Completions) - (end - start); hidden > 0 {
		items = append(items, theme.CompletionDesc.Render(fmt.Sprintf("  %d more", hidden)))
	}

	return theme.CompletionPopup.Width(c.Width).Render(strings.Join(items, "\n"))
}

// renderItem renders "> /name  description".
func (c *CompletionPopup) renderItem(theme *styles.Theme, comp commands.Completion, selected bool) string {
	const nameWidth = 20

	indicator := "  "
	name := theme.CompletionItem.Render(util.PadRight(util.TruncateWidth(comp.Value, nameWidth), nameWidth))
	if selected {
		indicator = "> "
		name = theme.CompletionSelected.Render(util.PadRight(util.TruncateWidth(comp.Value, nameWidth), nameWidth))
	}

	desc := ""
	if room := c.Width - nameWidth - 6; room > 0 && comp.Description != "" {
		desc = " " + theme.CompletionDesc.Render(util.TruncateWidth(comp.Description, room))
	}
	return indicator + name + desc
}

// ViewCompact renders a one-line hint for narrow layouts.
func (c *CompletionPopup) ViewCompact(theme *styles.Theme) string {
	if c.State == nil || len(c.State.Completions) == 0 {
		return ""
	}
	if len(c.State.Completions) == 1 {
		return theme.CompletionDesc.Render(fmt.Sprintf("Tab: complete %q", c.State.Completions[0].Value))
	}
	return theme.CompletionDesc.Render(fmt.Sprintf("Tab: %d completions", len(c.State.Completions)))
}
