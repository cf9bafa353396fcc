// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Set([]Command{
		{Name: "/help", Description: "Show help"},
		{Name: "/history", Description: "Show history"},
		{Name: "/model", Description: "Switch model"},
		{Name: "/h", Description: "Short"},
	})
	return reg
}

func values(cs []Completion) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Value)
	}
	return out
}

func TestCompleterComplete(t *testing.T) {
	completer := NewCompleter(testRegistry())

	tests := []struct {
		name      string
		input     string
		cursorPos int
		want      []string
	}{
		{"slash lists everything", "/", 1, []string{"/h", "/help", "/model", "/history"}},
		{"exact match first", "/h", 2, []string{"/h", "/help", "/history"}},
		{"case insensitive", "/HE", 3, []string{"/help"}},
		{"after mention", "@claude /mo", 11, []string{"/model"}},
		{"cursor inside name", "/model", 2, []string{"/model"}},
		{"no match", "/zzz", 4, nil},
		{"argument position", "/model ", 7, nil},
		{"plain text", "hello", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completer.Complete(tt.input, tt.cursorPos)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, values(got))
		})
	}
}

func TestCompleterNilRegistry(t *testing.T) {
	assert.Nil(t, NewCompleter(nil).Complete("/h", 2))
}

func TestCompletionCarriesDescription(t *testing.T) {
	got := NewCompleter(testRegistry()).Complete("/mod", 4)
	require.Len(t, got, 1)
	assert.Equal(t, "Switch model", got[0].Description)
}

func TestCalculateScore(t *testing.T) {
	assert.Equal(t, 200, calculateScore("/help", "/help"))
	assert.Greater(t, calculateScore("/help", "/he"), calculateScore("/history", "/h"))
}

func TestCompletionState(t *testing.T) {
	cs := NewCompletionState()
	assert.Nil(t, cs.GetSelected())
	assert.Equal(t, "", cs.Accept())

	cs.Update("@claude /h", []Completion{{Value: "/help"}, {Value: "/history"}})
	assert.True(t, cs.Visible)
	require.NotNil(t, cs.GetSelected())
	assert.Equal(t, "/help", cs.GetSelected().Value)

	cs.Next()
	assert.Equal(t, "/history", cs.GetSelected().Value)
	cs.Next()
	assert.Equal(t, "/help", cs.GetSelected().Value)
	cs.Prev()
	assert.Equal(t, "/history", cs.GetSelected().Value)

	assert.Equal(t, "@claude /history ", cs.Accept())

	cs.Update("/zz", nil)
	assert.False(t, cs.Visible)
	assert.Equal(t, -1, cs.Selected)
	assert.Equal(t, "/zz", cs.Accept())

	cs.Clear()
	assert.Equal(t, -1, cs.Selected)
	assert.Empty(t, cs.Completions)
}
