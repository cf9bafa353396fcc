// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

func message(id string, callIDs ...string) acp.Message {
	msg := acp.Message{ID: id, Sender: "claude"}
	for _, c := range callIDs {
		msg.Metadata.ToolCalls = append(msg.Metadata.ToolCalls, acp.ToolCall{
			ToolCallID: c,
			Title:      "call " + c,
			Status:     acp.StatusCompleted,
		})
	}
	return msg
}

func TestUpsertReplacesWholesale(t *testing.T) {
	store := NewStore(10)
	assert.Empty(t, store.Upsert(message("m1", "a", "b")))

	next := message("m1", "b", "c")
	next.Body = "updated"
	gone := store.Upsert(next)
	assert.Equal(t, []string{"a"}, gone)

	got, err := store.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Body)
	assert.Len(t, got.ToolCalls(), 2)
	assert.Equal(t, 1, store.Len())
}

func TestUpsertKeepsOrder(t *testing.T) {
	store := NewStore(10)
	store.Upsert(message("m1"))
	store.Upsert(message("m2"))
	store.Upsert(message("m1", "x"))

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
}

func TestUpsertAssignsID(t *testing.T) {
	store := NewStore(10)
	store.Upsert(acp.Message{Body: "no id"})
	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.NotEmpty(t, msgs[0].ID)
}

func TestEvictionReportsToolCalls(t *testing.T) {
	store := NewStore(2)
	store.Upsert(message("m1", "a", "b"))
	store.Upsert(message("m2", "c"))
	gone := store.Upsert(message("m3"))

	assert.Equal(t, []string{"a", "b"}, gone)
	assert.Equal(t, 2, store.Len())
	_, err := store.Get("m1")
	assert.True(t, errors.Is(err, ErrMessageNotFound))

	// index stays consistent after the shift
	gone = store.Upsert(message("m2", "d"))
	assert.Equal(t, []string{"c"}, gone)
	assert.Equal(t, "m2", store.Messages()[0].ID)
}

func TestToolCallQueries(t *testing.T) {
	store := NewStore(10)
	store.Upsert(message("m1", "a"))
	pending := message("m2", "p")
	pending.Metadata.ToolCalls[0].Status = acp.StatusPending
	pending.Metadata.ToolCalls[0].PermissionStatus = acp.PermissionPending
	pending.Metadata.ToolCalls[0].SessionID = "s1"
	pending.Metadata.ToolCalls[0].PermissionOptions = []acp.PermissionOption{{OptionID: "ok", Title: "OK"}}
	store.Upsert(pending)

	assert.Len(t, store.ToolCalls(), 2)
	assert.Equal(t, map[string]bool{"a": true, "p": true}, store.LiveToolCalls())

	tc, ok := store.FindToolCall("p")
	require.True(t, ok)
	assert.Equal(t, "s1", tc.SessionID)
	_, ok = store.FindToolCall("zzz")
	assert.False(t, ok)

	pend := store.PendingPermissions()
	require.Len(t, pend, 1)
	assert.Equal(t, "p", pend[0].ToolCallID)
}

func TestClear(t *testing.T) {
	store := NewStore(10)
	store.Upsert(message("m1", "a"))
	store.Upsert(message("m2", "b"))

	assert.Equal(t, []string{"a", "b"}, store.Clear())
	assert.Equal(t, 0, store.Len())
	store.Upsert(message("m1"))
	assert.Equal(t, 1, store.Len())
}

func TestExport(t *testing.T) {
	store := NewStore(10)
	msg := message("m1", "a")
	msg.Body = "Looking at the repo."
	store.Upsert(msg)

	assert.Equal(t, "## claude\nLooking at the repo.\n✓ call a\n", store.ExportText())

	data, err := store.ExportJSON()
	require.NoError(t, err)
	var decoded []acp.Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a", decoded[0].ToolCalls()[0].ToolCallID)
}

func TestDefaultLimit(t *testing.T) {
	store := NewStore(0)
	for i := 0; i < DefaultMaxMessages+5; i++ {
		store.Upsert(message(fmt.Sprintf("m%d", i)))
	}
	assert.Equal(t, DefaultMaxMessages, store.Len())
}
