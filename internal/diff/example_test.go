// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff provides diff computation and formatting for file changes.
package diff_test

import (
	"fmt"

	"github.com/jeranaias/rigrun-acp/internal/diff"
)

func ExampleComputeDiff() {
	oldContent := "package main\n\nfunc main() {\n\tfmt.Println(\"Hello\")\n}\n"
	newContent := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello, World!\")\n}\n"

	d := diff.ComputeDiff("main.go", oldContent, newContent)

	fmt.Println(d.Summary())

	// Output:
	// Modified +3 -1
}

func ExampleFormatUnifiedDiff() {
	oldContent := "line1\nline2\nline3"
	newContent := "line1\nmodified\nline3"

	d := diff.ComputeDiff("file.txt", oldContent, newContent)

	fmt.Print(diff.FormatUnifiedDiff(d))

	// Output:
	// --- a/file.txt
	// +++ b/file.txt
	// @@ -1,3 +1,3 @@
	//  line1
	// -line2
	// +modified
	//  line3
}

func ExampleDiff_Summary_newFile() {
	d := diff.ComputeDiff("newfile.txt", "", "line1\nline2")

	fmt.Println(d.Summary())
	fmt.Println("File mode:", d.Stats.FileMode)

	// Output:
	// New file +2
	// File mode: new
}

func ExampleView() {
	var content string
	for i := 1; i <= 25; i++ {
		content += fmt.Sprintf("line %d\n", i)
	}
	d := diff.ComputeDiff("gen.txt", "", content[:len(content)-1])

	var view diff.View
	rows, hidden := view.Visible(d.Lines)
	fmt.Println(len(rows), hidden, view.Affordance(len(d.Lines)))

	view.Toggle()
	rows, hidden = view.Visible(d.Lines)
	fmt.Println(len(rows), hidden, view.Affordance(len(d.Lines)))

	// Output:
	// 20 5 5 more lines
	// 25 0 show less
}
