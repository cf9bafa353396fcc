// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

// recorder collects handler calls.
type recorder struct {
	mu       sync.Mutex
	messages []acp.Message
	statuses []Status
	got      chan struct{}
}

func newRecorder() *recorder {
	return &recorder{got: make(chan struct{}, 64)}
}

func (r *recorder) OnMessage(msg acp.Message) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *recorder) OnStatus(s Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() ([]acp.Message, []Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]acp.Message(nil), r.messages...), append([]Status(nil), r.statuses...)
}

const transcript = `{"type":"message","message":{"id":"m1","body":"hello"}}

{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"tool_call","toolCallId":"t1","title":"Read a.py","kind":"read"}}}
{broken
{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"tool_call_update","toolCallId":"t1","status":"completed"}}}
{"jsonrpc":"2.0","id":2,"result":null}
`

func TestReaderRun(t *testing.T) {
	rec := newRecorder()
	err := NewReader(strings.NewReader(transcript), "test", Options{}).Run(context.Background(), rec)
	require.NoError(t, err)

	msgs, statuses := rec.snapshot()
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, msgs[1].ID, msgs[2].ID)
	assert.Equal(t, acp.StatusCompleted, msgs[2].ToolCalls()[0].Status)
	assert.Equal(t, []Status{StatusConnected, StatusClosed}, statuses)
}

func TestReaderFrameTooLarge(t *testing.T) {
	big := `{"type":"message","message":{"id":"m1","body":"` + strings.Repeat("x", 200) + `"}}`
	err := NewReader(strings.NewReader(big), "test", Options{MaxFrameBytes: 100}).Run(context.Background(), newRecorder())
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(transcript), 0o600))

	src, err := Open(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, src.String())

	rec := newRecorder()
	require.NoError(t, src.Run(context.Background(), rec))
	msgs, _ := rec.snapshot()
	assert.Len(t, msgs, 3)

	_, err = Open("  ", Options{})
	assert.Error(t, err)

	missing, _ := Open(filepath.Join(t.TempDir(), "nope.jsonl"), Options{})
	assert.Error(t, missing.Run(context.Background(), newRecorder()))

	stdin, _ := Open("-", Options{})
	assert.Equal(t, "stdin", stdin.String())
}

func TestWebsocketReconnects(t *testing.T) {
	var conns atomic.Int32
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := conns.Add(1)
		frame := fmt.Sprintf(`{"type":"message","message":{"id":"m%d"}}`, n)
		conn.WriteMessage(websocket.TextMessage, []byte(frame))
		conn.Close()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	src, err := Open(url, Options{ReconnectInitial: 5 * time.Millisecond, ReconnectMax: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newRecorder()
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, rec) }()

	for i := 0; i < 2; i++ {
		select {
		case <-rec.got:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for frames")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	msgs, statuses := rec.snapshot()
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, StatusConnecting, statuses[0])
	assert.Contains(t, statuses, StatusReconnecting)
	assert.Equal(t, StatusClosed, statuses[len(statuses)-1])
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "unknown", Status(99).String())
}
