// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the connection state of a source.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusReconnecting
	StatusClosed
)

// String returns the string representation of a status.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// =============================================================================
// HANDLER
// =============================================================================

// Handler receives snapshots and status changes. Calls come from the source's
// goroutine, one at a time.
type Handler interface {
	OnMessage(msg acp.Message)
	OnStatus(s Status)
}

// Funcs adapts functions to Handler; nil fields are ignored.
type Funcs struct {
	Message func(acp.Message)
	Status  func(Status)
}

// OnMessage calls f.Message.
func (f Funcs) OnMessage(msg acp.Message) {
	if f.Message != nil {
		f.Message(msg)
	}
}

// OnStatus calls f.Status.
func (f Funcs) OnStatus(s Status) {
	if f.Status != nil {
		f.Status(s)
	}
}

// =============================================================================
// SOURCE
// =============================================================================

// Source produces frames until its input ends or ctx is cancelled.
type Source interface {
	Run(ctx context.Context, h Handler) error
	String() string
}

// Options configures sources.
type Options struct {
	// Sender names the author of ACP-derived messages.
	Sender string
	// MaxFrameBytes bounds a single frame.
	MaxFrameBytes int
	// ReconnectInitial and ReconnectMax bound the websocket backoff.
	ReconnectInitial time.Duration
	ReconnectMax     time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Sender:           "agent",
		MaxFrameBytes:    4 << 20,
		ReconnectInitial: 500 * time.Millisecond,
		ReconnectMax:     30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Sender == "" {
		o.Sender = d.Sender
	}
	if o.MaxFrameBytes <= 0 {
		o.MaxFrameBytes = d.MaxFrameBytes
	}
	if o.ReconnectInitial <= 0 {
		o.ReconnectInitial = d.ReconnectInitial
	}
	if o.ReconnectMax <= 0 {
		o.ReconnectMax = d.ReconnectMax
	}
	return o
}

// Open picks a source for location: ws:// and wss:// URLs dial a websocket,
// "-" reads stdin, anything else is a file path.
func Open(location string, opts Options) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, errors.New("feed: no source given")
	case strings.HasPrefix(location, "ws://"), strings.HasPrefix(location, "wss://"):
		return NewWebsocket(location, opts), nil
	default:
		return NewFile(location, opts), nil
	}
}

// handleFrame decodes and folds one frame, logging anything unusable.
func handleFrame(source string, folder *Folder, data []byte, h Handler) {
	ev, err := Decode(data)
	switch {
	case errors.Is(err, ErrEmptyFrame):
		return
	case errors.Is(err, ErrUnsupportedFrame):
		return
	case err != nil:
		log.Printf("FEED_FRAME_INVALID | source=%s error=%v", source, err)
		return
	}
	if msg, ok := folder.Fold(ev); ok {
		h.OnMessage(msg)
	}
}
