// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

// ACP methods understood by the decoder.
const (
	MethodSessionUpdate     = "session/update"
	MethodRequestPermission = "session/request_permission"
	MethodPrompt            = "session/prompt"
)

var (
	// ErrUnsupportedFrame marks well-formed frames the feed does not render.
	ErrUnsupportedFrame = errors.New("unsupported frame")
	// ErrEmptyFrame marks blank lines.
	ErrEmptyFrame = errors.New("empty frame")
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is one decoded frame. Exactly one of Message, Update, Request,
// Response and Prompt is set.
type Event struct {
	Message *acp.Message
	Update  *acp.SessionNotification
	Request *acp.PermissionRequest
	// RequestID is the JSON-RPC id of a permission request.
	RequestID string
	// Response answers an earlier request.
	Response *Response
	// Prompt is the session whose new turn starts.
	Prompt string
}

// Response is a JSON-RPC result frame answering a permission request.
// OptionID is empty when the request was cancelled.
type Response struct {
	ID       string
	OptionID string
}

// permissionResult is the result object of a request_permission response.
type permissionResult struct {
	Outcome struct {
		Outcome  string `json:"outcome"`
		OptionID string `json:"optionId"`
	} `json:"outcome"`
}

// frame covers both envelope shapes.
type frame struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`

	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
}

// requestID normalises a JSON-RPC id so a request and its response match.
func requestID(raw json.RawMessage) string {
	id := string(bytes.TrimSpace(raw))
	if id == "null" {
		return ""
	}
	return id
}

// Decode parses one frame.
func Decode(data []byte) (Event, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Event{}, ErrEmptyFrame
	}

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, fmt.Errorf("decode frame: %w", err)
	}

	switch {
	case f.Type == "message":
		if len(f.Message) == 0 {
			return Event{}, errors.New("message frame without message")
		}
		var msg acp.Message
		if err := json.Unmarshal(f.Message, &msg); err != nil {
			return Event{}, fmt.Errorf("decode message: %w", err)
		}
		return Event{Message: &msg}, nil

	case f.Method == MethodSessionUpdate:
		var n acp.SessionNotification
		if err := json.Unmarshal(f.Params, &n); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", f.Method, err)
		}
		return Event{Update: &n}, nil

	case f.Method == MethodRequestPermission:
		var req acp.PermissionRequest
		if err := json.Unmarshal(f.Params, &req); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", f.Method, err)
		}
		return Event{Request: &req, RequestID: requestID(f.ID)}, nil

	case f.Method == "" && requestID(f.ID) != "" && len(f.Result) > 0:
		var res permissionResult
		if err := json.Unmarshal(f.Result, &res); err != nil || res.Outcome.Outcome == "" {
			return Event{}, ErrUnsupportedFrame
		}
		resp := &Response{ID: requestID(f.ID)}
		if res.Outcome.Outcome == "selected" {
			resp.OptionID = res.Outcome.OptionID
		}
		return Event{Response: resp}, nil

	case f.Method == MethodPrompt:
		var p struct {
			SessionID string `json:"sessionId"`
		}
		if err := json.Unmarshal(f.Params, &p); err != nil {
			return Event{}, fmt.Errorf("decode %s: %w", f.Method, err)
		}
		return Event{Prompt: p.SessionID}, nil
	}

	return Event{}, ErrUnsupportedFrame
}

// =============================================================================
// FOLDING
// =============================================================================

// Folder turns events into message snapshots. It is used by one source
// goroutine at a time.
type Folder struct {
	tracker *acp.Tracker
	// requests maps open permission request ids to their calls.
	requests map[string]pendingRequest
}

type pendingRequest struct {
	sessionID  string
	toolCallID string
}

// NewFolder creates a folder attributing ACP-derived messages to sender.
func NewFolder(sender string) *Folder {
	return &Folder{
		tracker:  acp.NewTracker(sender),
		requests: make(map[string]pendingRequest),
	}
}

// Tracker exposes the underlying tracker.
func (f *Folder) Tracker() *acp.Tracker {
	return f.tracker
}

// Fold applies an event and returns the snapshot to display, if any.
func (f *Folder) Fold(ev Event) (acp.Message, bool) {
	switch {
	case ev.Message != nil:
		return *ev.Message, true
	case ev.Update != nil:
		return f.tracker.Apply(*ev.Update)
	case ev.Request != nil:
		msg, ok := f.tracker.RequestPermission(*ev.Request)
		if ok && ev.RequestID != "" {
			f.requests[ev.RequestID] = pendingRequest{
				sessionID:  ev.Request.SessionID,
				toolCallID: ev.Request.ToolCall.ToolCallID,
			}
		}
		return msg, ok
	case ev.Response != nil:
		req, found := f.requests[ev.Response.ID]
		if !found {
			return acp.Message{}, false
		}
		delete(f.requests, ev.Response.ID)
		if ev.Response.OptionID == "" {
			return acp.Message{}, false
		}
		return f.tracker.ResolvePermission(req.sessionID, req.toolCallID, ev.Response.OptionID)
	case ev.Prompt != "":
		f.tracker.Reset(ev.Prompt)
		for id, req := range f.requests {
			if req.sessionID == ev.Prompt {
				delete(f.requests, id)
			}
		}
	}
	return acp.Message{}, false
}
