// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import "fmt"

// TruncateThreshold is the number of rows shown before a diff block collapses.
const TruncateThreshold = 20

// ShowLessLabel is the affordance offered by an expanded, truncatable block.
const ShowLessLabel = "show less"

// View is the expand/collapse state of one rendered diff block. It is local UI
// state: toggling never recomputes the diff.
type View struct {
	Expanded bool
}

// Toggle flips between the truncated and the full view.
func (v *View) Toggle() {
	v.Expanded = !v.Expanded
}

// Truncatable reports whether a block of total rows has anything to hide.
func Truncatable(total int) bool {
	return total > TruncateThreshold
}

// Visible returns the rows to draw and how many are hidden.
func (v View) Visible(lines []DiffLine) ([]DiffLine, int) {
	if v.Expanded || !Truncatable(len(lines)) {
		return lines, 0
	}
	return lines[:TruncateThreshold], len(lines) - TruncateThreshold
}

// Affordance returns the toggle label for a block of total rows, or "" when the
// block is short enough to never truncate.
func (v View) Affordance(total int) string {
	if !Truncatable(total) {
		return ""
	}
	if v.Expanded {
		return ShowLessLabel
	}
	return HiddenLabel(total - TruncateThreshold)
}

// HiddenLabel describes n hidden rows.
func HiddenLabel(n int) string {
	if n == 1 {
		return "1 more line"
	}
	return fmt.Sprintf("%d more lines", n)
}
