// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowDeny() []PermissionOption {
	return []PermissionOption{
		{OptionID: "a", Title: "Allow", Description: "allow_once"},
		{OptionID: "b", Title: "Deny", Description: "reject_once"},
	}
}

func TestKind_Groups(t *testing.T) {
	for _, k := range []Kind{KindRead, KindEdit, KindDelete, KindMove} {
		assert.True(t, k.TouchesFiles(), k)
		assert.False(t, k.ProducesOutput(), k)
	}
	for _, k := range []Kind{KindSearch, KindExecute, KindThink, KindFetch} {
		assert.True(t, k.ProducesOutput(), k)
		assert.False(t, k.TouchesFiles(), k)
	}
	assert.True(t, KindSwitchMode.Known())
	assert.False(t, KindSwitchMode.TouchesFiles())
	assert.False(t, KindSwitchMode.ProducesOutput())
	assert.False(t, Kind("teleport").Known())
}

func TestStatus_Known(t *testing.T) {
	assert.True(t, StatusPending.Known())
	assert.False(t, Status("exploded").Known())
}

func TestPermissionOption_IsReject(t *testing.T) {
	assert.True(t, PermissionOption{Description: "reject_once"}.IsReject())
	assert.True(t, PermissionOption{Description: "reject_always"}.IsReject())
	assert.False(t, PermissionOption{Description: "allow_once"}.IsReject())
	assert.False(t, PermissionOption{}.IsReject())
}

func TestFindRejectOption(t *testing.T) {
	opt, ok := FindRejectOption(allowDeny())
	require.True(t, ok)
	assert.Equal(t, "b", opt.OptionID)

	_, ok = FindRejectOption(allowDeny()[:1])
	assert.False(t, ok)
}

func TestToolCall_SelectedOption(t *testing.T) {
	tc := ToolCall{
		PermissionOptions: allowDeny(),
		PermissionStatus:  PermissionResolved,
		SelectedOptionID:  "b",
	}
	opt, ok := tc.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "Deny", opt.Title)

	tc.SelectedOptionID = "zzz"
	_, ok = tc.SelectedOption()
	assert.False(t, ok, "unknown id")

	tc.SelectedOptionID = ""
	_, ok = tc.SelectedOption()
	assert.False(t, ok, "no selection")

	tc.SelectedOptionID = "a"
	tc.PermissionOptions = append(tc.PermissionOptions, PermissionOption{OptionID: "a", Title: "Again"})
	_, ok = tc.SelectedOption()
	assert.False(t, ok, "ambiguous id")
}

func TestToolCall_PermissionState(t *testing.T) {
	var tc ToolCall
	assert.False(t, tc.PermissionPending())
	assert.False(t, tc.PermissionResolved())

	tc.PermissionStatus = PermissionPending
	assert.True(t, tc.PermissionPending())

	tc.PermissionStatus = PermissionResolved
	assert.True(t, tc.PermissionResolved())
}

func TestFileDiff_Old(t *testing.T) {
	old := "x"
	assert.Equal(t, "x", FileDiff{OldText: &old}.Old())
	assert.Equal(t, "", FileDiff{}.Old())
}

func TestMessage_DecodeSnapshot(t *testing.T) {
	const payload = `{
		"id": "m1",
		"sender": "agent",
		"metadata": {"tool_calls": [{
			"tool_call_id": "t1",
			"kind": "execute",
			"status": "failed",
			"raw_output": "boom\nstack trace",
			"diffs": [{"path": "/a.txt", "new_text": "hi"}],
			"permission_options": [{"option_id": "a", "title": "Allow"}],
			"permission_status": "pending",
			"session_id": "s1"
		}]}
	}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(payload), &msg))
	require.Len(t, msg.ToolCalls(), 1)

	tc := msg.ToolCalls()[0]
	assert.Equal(t, KindExecute, tc.Kind)
	assert.Equal(t, StatusFailed, tc.Status)
	assert.True(t, tc.PermissionPending())
	assert.True(t, tc.HasDiffs())
	assert.Nil(t, tc.Diffs[0].OldText)

	text, ok := tc.RawOutput.Text()
	require.True(t, ok)
	assert.Equal(t, "boom\nstack trace", text)
}

func TestMessage_EncodeOmitsAbsentFields(t *testing.T) {
	msg := Message{ID: "m1", Metadata: Metadata{ToolCalls: []ToolCall{{ToolCallID: "t1", Status: StatusCompleted}}}}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "raw_output")
	assert.NotContains(t, string(data), `"time"`)

	msg.Metadata.ToolCalls[0].RawOutput = TextOutput("done")
	data, err = json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"raw_output":"done"`)
}
