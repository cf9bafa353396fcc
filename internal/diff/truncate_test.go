// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generated(n int) *Diff {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("row %d", i+1)
	}
	return ComputeDiff("gen.txt", "", strings.Join(lines, "\n"))
}

func TestView_TruncatesPastThreshold(t *testing.T) {
	d := generated(25)
	require.Len(t, d.Lines, 25)

	var view View
	rows, hidden := view.Visible(d.Lines)
	assert.Len(t, rows, TruncateThreshold)
	assert.Equal(t, 5, hidden)
	assert.Equal(t, "5 more lines", view.Affordance(len(d.Lines)))
	assert.Equal(t, d.Lines[:20], rows)
}

func TestView_ExpandShowsEverything(t *testing.T) {
	d := generated(25)

	view := View{}
	view.Toggle()
	rows, hidden := view.Visible(d.Lines)
	assert.Len(t, rows, 25)
	assert.Zero(t, hidden)
	assert.Equal(t, ShowLessLabel, view.Affordance(len(d.Lines)))
}

func TestView_ToggleIsIdempotent(t *testing.T) {
	d := generated(31)

	var view View
	before, beforeHidden := view.Visible(d.Lines)
	beforeLabel := view.Affordance(len(d.Lines))

	view.Toggle()
	view.Toggle()

	after, afterHidden := view.Visible(d.Lines)
	assert.Equal(t, before, after)
	assert.Equal(t, beforeHidden, afterHidden)
	assert.Equal(t, beforeLabel, view.Affordance(len(d.Lines)))
	assert.Equal(t, "11 more lines", beforeLabel)
}

func TestView_ShortBlocksNeverTruncate(t *testing.T) {
	for _, n := range []int{0, 1, TruncateThreshold} {
		d := generated(n)

		var view View
		rows, hidden := view.Visible(d.Lines)
		assert.Len(t, rows, len(d.Lines))
		assert.Zero(t, hidden)
		assert.Empty(t, view.Affordance(len(d.Lines)))

		view.Toggle()
		assert.Empty(t, view.Affordance(len(d.Lines)), "expanded short block offers no affordance")
	}
}

func TestHiddenLabel(t *testing.T) {
	assert.Equal(t, "1 more line", HiddenLabel(1))
	assert.Equal(t, "2 more lines", HiddenLabel(2))
}
