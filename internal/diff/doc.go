// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides diff computation and formatting for file changes.
//
// This package computes full-context line diffs between old and new content.
// Every line of both inputs is accounted for, so the old text can be rebuilt
// from the context and removed rows, and the new text from the context and
// added rows.
//
// # Key Types
//
//   - DiffLineType: Type of diff line (context, added, removed)
//   - DiffLine: Single row with content and old/new gutter numbers
//   - Diff: Complete diff result with rows and statistics
//   - View: Expand/collapse state of one rendered diff block
//
// # Usage
//
// Compute a diff between two strings:
//
//	d := diff.ComputeDiff("main.go", oldContent, newContent)
//	fmt.Println(d.Summary())
//
// Render only the rows a collapsed block shows:
//
//	var view diff.View
//	rows, hidden := view.Visible(d.Lines)
package diff
