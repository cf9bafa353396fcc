// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigrun-acp/internal/diff"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// =============================================================================
// DIFF BLOCK
// =============================================================================

// DiffBlock renders one file diff: a header with the file name and change
// summary, gutter-numbered rows, and the truncation affordance.
type DiffBlock struct {
	Diff    *diff.Diff
	State   diff.View
	Width   int
	Focused bool
}

// gutterWidth covers two 4-digit line numbers and their separator.
const gutterWidth = 9

// Rows returns the unstyled text of every visible row, gutter included. It is
// what View draws, minus colour.
func (b DiffBlock) Rows() []string {
	if b.Diff == nil {
		return nil
	}
	visible, _ := b.State.Visible(b.Diff.Lines)
	rows := make([]string, len(visible))
	for i, line := range visible {
		rows[i] = gutter(line) + " " + line.Type.Prefix() + util.ExpandTabs(line.Content, 4)
	}
	return rows
}

// View renders the block.
func (b DiffBlock) View(theme *styles.Theme) string {
	if b.Diff == nil {
		return ""
	}

	var content strings.Builder
	content.WriteString(b.renderHeader(theme))

	visible, _ := b.State.Visible(b.Diff.Lines)
	for _, line := range visible {
		content.WriteString("\n")
		content.WriteString(b.renderLine(theme, line))
	}

	if label := b.State.Affordance(len(b.Diff.Lines)); label != "" {
		content.WriteString("\n")
		content.WriteString(strings.Repeat(" ", gutterWidth+1))
		if b.Focused {
			content.WriteString(theme.RowSelected.Render("› " + label))
		} else {
			content.WriteString(theme.DiffAffordance.Render(label))
		}
	}

	return content.String()
}

// renderHeader renders the file name and the change summary.
func (b DiffBlock) renderHeader(theme *styles.Theme) string {
	stats := b.Diff.Stats

	var parts []string
	parts = append(parts, theme.DiffPath.Render(b.Diff.DisplayName()))

	switch stats.FileMode {
	case "new":
		parts = append(parts, theme.RowLabel.Render("new file"))
	case "deleted":
		parts = append(parts, theme.RowLabel.Render("deleted"))
	}

	if stats.Additions > 0 {
		parts = append(parts, theme.DiffStatAdded.Render(fmt.Sprintf("+%d", stats.Additions)))
	}
	if stats.Deletions > 0 {
		parts = append(parts, theme.DiffStatRemoved.Render(fmt.Sprintf("-%d", stats.Deletions)))
	}

	return theme.DiffHeader.Render(strings.Join(parts, " "))
}

// renderLine renders a single diff row.
func (b DiffBlock) renderLine(theme *styles.Theme, line diff.DiffLine) string {
	content := util.ExpandTabs(line.Content, 4)
	if b.Width > gutterWidth+2 {
		content = util.TruncateWidth(content, b.Width-gutterWidth-2)
	}

	var body string
	switch line.Type {
	case diff.DiffLineAdded:
		body = theme.DiffAdded.Render(line.Type.Prefix() + content)
	case diff.DiffLineRemoved:
		body = theme.DiffRemoved.Render(line.Type.Prefix() + content)
	default:
		body = line.Type.Prefix() + HighlightFile(b.Diff.FilePath, content)
	}

	return theme.DiffGutter.Render(gutter(line)) + " " + body
}

// gutter formats the old/new line numbers; a missing side is left blank.
func gutter(line diff.DiffLine) string {
	return lineNumber(line.OldLine) + " " + lineNumber(line.NewLine)
}

func lineNumber(n int) string {
	if n == 0 {
		return "    "
	}
	return fmt.Sprintf("%4d", n)
}
