// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const (
	// pongWait is how long a silent connection is kept.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// writeWait bounds a control frame write.
	writeWait = 10 * time.Second
)

// =============================================================================
// WEBSOCKET
// =============================================================================

// Websocket reads frames from a websocket, reconnecting with exponential
// backoff whenever the connection drops.
type Websocket struct {
	url    string
	opts   Options
	folder *Folder

	// Header is sent with every handshake.
	Header http.Header
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// NewWebsocket creates a websocket source. The folder outlives reconnects so
// a turn in progress keeps its message.
func NewWebsocket(url string, opts Options) *Websocket {
	opts = opts.withDefaults()
	return &Websocket{url: url, opts: opts, folder: NewFolder(opts.Sender)}
}

// String returns the URL.
func (w *Websocket) String() string {
	return w.url
}

func (w *Websocket) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.opts.ReconnectInitial
	b.MaxInterval = w.opts.ReconnectMax
	b.Reset()
	return b
}

// Run connects and reads until ctx is cancelled. It never gives up on its
// own; connection errors are logged and retried.
func (w *Websocket) Run(ctx context.Context, h Handler) error {
	defer h.OnStatus(StatusClosed)

	dialer := w.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	b := w.newBackOff()

	h.OnStatus(StatusConnecting)
	for {
		conn, _, err := dialer.DialContext(ctx, w.url, w.Header)
		if err == nil {
			b.Reset()
			h.OnStatus(StatusConnected)
			err = w.read(ctx, conn, h)
		}
		if ctx.Err() != nil {
			return nil
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			wait = w.opts.ReconnectMax
		}
		log.Printf("FEED_DISCONNECTED | url=%s retry_in=%s error=%v", w.url, wait, err)
		h.OnStatus(StatusReconnecting)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// read pumps frames from one connection until it fails.
func (w *Websocket) read(ctx context.Context, conn *websocket.Conn, h Handler) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go w.ping(ctx, conn, done)

	conn.SetReadLimit(int64(w.opts.MaxFrameBytes))
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read %s: %w", w.url, err)
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		handleFrame(w.url, w.folder, data, h)
	}
}

// ping keeps the connection alive and closes it when ctx ends, which
// unblocks the reader.
func (w *Websocket) ping(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
