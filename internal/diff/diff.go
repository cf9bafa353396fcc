// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides diff computation and formatting for file changes.
package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// DIFF TYPES
// =============================================================================

// DiffLineType represents the type of a diff line.
type DiffLineType int

const (
	// DiffLineContext represents unchanged context lines
	DiffLineContext DiffLineType = iota
	// DiffLineAdded represents added lines
	DiffLineAdded
	// DiffLineRemoved represents removed lines
	DiffLineRemoved
)

// String returns the string representation of a diff line type.
func (t DiffLineType) String() string {
	switch t {
	case DiffLineContext:
		return "context"
	case DiffLineAdded:
		return "added"
	case DiffLineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the diff prefix character for this line type.
func (t DiffLineType) Prefix() string {
	switch t {
	case DiffLineAdded:
		return "+"
	case DiffLineRemoved:
		return "-"
	default:
		return " "
	}
}

// =============================================================================
// DIFF LINE
// =============================================================================

// DiffLine represents a single row of a full-context diff.
type DiffLine struct {
	Type    DiffLineType // Type of line (added, removed, context)
	Content string       // The literal line text
	OldLine int          // Line number in old file (0 if added)
	NewLine int          // Line number in new file (0 if removed)
}

// =============================================================================
// DIFF STATS
// =============================================================================

// DiffStats holds statistics about a diff.
type DiffStats struct {
	Additions int    // Number of added lines
	Deletions int    // Number of removed lines
	FileMode  string // "new", "modified", "deleted"
}

// =============================================================================
// DIFF
// =============================================================================

// Diff is the complete line-level comparison of one file. Every line of both
// inputs appears exactly once in Lines.
type Diff struct {
	FilePath string     // Path to the file being diffed
	Lines    []DiffLine // Ordered rows, full context
	Stats    DiffStats  // Statistics
}

// maxMatrixCells bounds the LCS table. Larger middles fall back to a
// remove-all/add-all script, which is still a valid edit script.
const maxMatrixCells = 4_000_000

// =============================================================================
// DIFF COMPUTATION
// =============================================================================

// ComputeDiff compares old and new content line by line. It never fails and
// is deterministic: the same inputs always yield the same rows.
func ComputeDiff(filePath, oldContent, newContent string) *Diff {
	d := &Diff{FilePath: filePath}

	switch {
	case oldContent == "" && newContent != "":
		d.Stats.FileMode = "new"
	case oldContent != "" && newContent == "":
		d.Stats.FileMode = "deleted"
	default:
		d.Stats.FileMode = "modified"
	}

	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)
	d.Lines = number(editScript(oldLines, newLines))

	for _, line := range d.Lines {
		switch line.Type {
		case DiffLineAdded:
			d.Stats.Additions++
		case DiffLineRemoved:
			d.Stats.Deletions++
		}
	}

	return d
}

// splitLines splits on "\n" exactly, so joining the result with "\n"
// reproduces the input. Empty content has no lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// editScript returns the rows without line numbers.
func editScript(oldLines, newLines []string) []DiffLine {
	result := make([]DiffLine, 0, max(len(oldLines), len(newLines)))

	// Common prefix
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}

	// Common suffix, not overlapping the prefix
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	for _, line := range oldLines[:prefix] {
		result = append(result, DiffLine{Type: DiffLineContext, Content: line})
	}

	a := oldLines[prefix : len(oldLines)-suffix]
	b := newLines[prefix : len(newLines)-suffix]
	if len(a)*len(b) > maxMatrixCells {
		result = appendAll(result, a, DiffLineRemoved)
		result = appendAll(result, b, DiffLineAdded)
	} else {
		result = appendLCS(result, a, b)
	}

	for _, line := range oldLines[len(oldLines)-suffix:] {
		result = append(result, DiffLine{Type: DiffLineContext, Content: line})
	}

	return result
}

func appendAll(result []DiffLine, lines []string, t DiffLineType) []DiffLine {
	for _, line := range lines {
		result = append(result, DiffLine{Type: t, Content: line})
	}
	return result
}

// appendLCS walks a longest-common-subsequence table forward. Ties prefer
// removals, so a replaced block renders as its old lines then its new lines.
func appendLCS(result []DiffLine, a, b []string) []DiffLine {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		result = appendAll(result, a, DiffLineRemoved)
		return appendAll(result, b, DiffLineAdded)
	}

	// table[i*(m+1)+j] = LCS length of a[i:] and b[j:]
	width := m + 1
	table := make([]int32, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			} else {
				table[i*width+j] = max(table[(i+1)*width+j], table[i*width+j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			result = append(result, DiffLine{Type: DiffLineContext, Content: a[i]})
			i++
			j++
		case table[(i+1)*width+j] >= table[i*width+j+1]:
			result = append(result, DiffLine{Type: DiffLineRemoved, Content: a[i]})
			i++
		default:
			result = append(result, DiffLine{Type: DiffLineAdded, Content: b[j]})
			j++
		}
	}
	result = appendAll(result, a[i:], DiffLineRemoved)
	return appendAll(result, b[j:], DiffLineAdded)
}

// number assigns gutter line numbers. The old counter advances on every row
// that is not added, the new counter on every row that is not removed.
func number(lines []DiffLine) []DiffLine {
	oldNum, newNum := 1, 1
	for i := range lines {
		switch lines[i].Type {
		case DiffLineAdded:
			lines[i].NewLine = newNum
			newNum++
		case DiffLineRemoved:
			lines[i].OldLine = oldNum
			oldNum++
		default:
			lines[i].OldLine = oldNum
			lines[i].NewLine = newNum
			oldNum++
			newNum++
		}
	}
	return lines
}

// =============================================================================
// RECONSTRUCTION
// =============================================================================

// OldContent rebuilds the old text from the context and removed rows.
func (d *Diff) OldContent() string {
	return join(d.Lines, DiffLineAdded)
}

// NewContent rebuilds the new text from the context and added rows.
func (d *Diff) NewContent() string {
	return join(d.Lines, DiffLineRemoved)
}

func join(lines []DiffLine, skip DiffLineType) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Type != skip {
			parts = append(parts, line.Content)
		}
	}
	return strings.Join(parts, "\n")
}

// =============================================================================
// DISPLAY NAME
// =============================================================================

// DisplayName returns the final path segment, or the whole path when it has
// no separator.
func DisplayName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// DisplayName returns the block header name for this diff.
func (d *Diff) DisplayName() string {
	return DisplayName(d.FilePath)
}

// =============================================================================
// UNIFIED FORMAT
// =============================================================================

// FormatUnifiedDiff formats a diff as a single full-context unified hunk.
func FormatUnifiedDiff(d *Diff) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- a/%s\n", d.FilePath))
	sb.WriteString(fmt.Sprintf("+++ b/%s\n", d.FilePath))

	if len(d.Lines) == 0 {
		return sb.String()
	}

	oldCount := len(d.Lines) - d.Stats.Additions
	newCount := len(d.Lines) - d.Stats.Deletions
	sb.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
		startLine(oldCount), oldCount,
		startLine(newCount), newCount))

	for _, line := range d.Lines {
		sb.WriteString(line.Type.Prefix())
		sb.WriteString(line.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}

// startLine follows the unified convention of 0 for an empty side.
func startLine(count int) int {
	if count == 0 {
		return 0
	}
	return 1
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary returns a human-readable summary of the diff.
func (d *Diff) Summary() string {
	var parts []string

	switch d.Stats.FileMode {
	case "new":
		parts = append(parts, "New file")
	case "deleted":
		parts = append(parts, "File deleted")
	default:
		parts = append(parts, "Modified")
	}

	if d.Stats.Additions > 0 {
		parts = append(parts, fmt.Sprintf("+%d", d.Stats.Additions))
	}
	if d.Stats.Deletions > 0 {
		parts = append(parts, fmt.Sprintf("-%d", d.Stats.Deletions))
	}

	return strings.Join(parts, " ")
}
