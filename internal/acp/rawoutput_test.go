// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawOutput_UnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		form OutputForm
	}{
		{"null", `null`, OutputAbsent},
		{"string", `"boom"`, OutputText},
		{"empty string", `""`, OutputText},
		{"text blocks", `[{"type":"text","text":"a"},{"text":"b"}]`, OutputBlocks},
		{"empty array", `[]`, OutputBlocks},
		{"mixed array", `[{"text":"a"},{"other":1}]`, OutputOther},
		{"non-string text", `[{"text":5}]`, OutputOther},
		{"array of strings", `["a","b"]`, OutputOther},
		{"object", `{"exit_code":1}`, OutputOther},
		{"number", `42`, OutputOther},
		{"bool", `true`, OutputOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out RawOutput
			require.NoError(t, json.Unmarshal([]byte(tt.json), &out))
			assert.Equal(t, tt.form, out.Form())
		})
	}
}

func TestRawOutput_AbsentWhenFieldMissing(t *testing.T) {
	var tc ToolCall
	require.NoError(t, json.Unmarshal([]byte(`{"tool_call_id":"t1"}`), &tc))
	assert.False(t, tc.RawOutput.Present())
	assert.Equal(t, OutputAbsent, tc.RawOutput.Form())
}

func TestRawOutput_Accessors(t *testing.T) {
	var out RawOutput
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"text","text":"one"},{"text":"two"}]`), &out))

	blocks, ok := out.Blocks()
	require.True(t, ok)
	assert.Equal(t, []ContentBlock{{Type: "text", Text: "one"}, {Text: "two"}}, blocks)

	_, ok = out.Text()
	assert.False(t, ok)

	text, ok := TextOutput("hi").Text()
	assert.True(t, ok)
	assert.Equal(t, "hi", text)
}

func TestOtherOutput_Reclassifies(t *testing.T) {
	assert.Equal(t, OutputText, OtherOutput("x").Form())
	assert.Equal(t, OutputBlocks, OtherOutput([]map[string]string{{"text": "a"}}).Form())
	assert.Equal(t, OutputOther, OtherOutput(map[string]int{"n": 1}).Form())
	assert.Equal(t, OutputAbsent, OtherOutput(nil).Form())
}

func TestRawOutput_MarshalKeepsShape(t *testing.T) {
	for _, in := range []string{`"boom"`, `{"a":[1,2]}`, `null`} {
		var out RawOutput
		require.NoError(t, json.Unmarshal([]byte(in), &out))
		data, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, in, string(data))
	}
}

func TestOutputForm_String(t *testing.T) {
	assert.Equal(t, "absent", OutputAbsent.String())
	assert.Equal(t, "text", OutputText.String())
	assert.Equal(t, "blocks", OutputBlocks.String())
	assert.Equal(t, "other", OutputOther.String())
	assert.Equal(t, "unknown", OutputForm(9).String())
}
