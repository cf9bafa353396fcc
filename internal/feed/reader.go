// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// JSON LINES
// =============================================================================

// Reader reads one frame per line until EOF.
type Reader struct {
	r      io.Reader
	name   string
	opts   Options
	folder *Folder
}

// NewReader creates a source over r; name identifies it in logs.
func NewReader(r io.Reader, name string, opts Options) *Reader {
	opts = opts.withDefaults()
	return &Reader{r: r, name: name, opts: opts, folder: NewFolder(opts.Sender)}
}

// String returns the source name.
func (r *Reader) String() string {
	return r.name
}

// Run reads frames until EOF or ctx is cancelled. Cancellation is observed
// between lines.
func (r *Reader) Run(ctx context.Context, h Handler) error {
	h.OnStatus(StatusConnected)
	defer h.OnStatus(StatusClosed)

	scanner := bufio.NewScanner(r.r)
	scanner.Buffer(make([]byte, 0, min(64*1024, r.opts.MaxFrameBytes)), r.opts.MaxFrameBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		handleFrame(r.name, r.folder, scanner.Bytes(), h)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", r.name, err)
	}
	return nil
}

// =============================================================================
// FILES
// =============================================================================

// File reads a JSON-lines file, or stdin for "-".
type File struct {
	path string
	opts Options
}

// NewFile creates a file source.
func NewFile(path string, opts Options) *File {
	return &File{path: path, opts: opts}
}

// String returns the path.
func (f *File) String() string {
	if f.path == "-" {
		return "stdin"
	}
	return f.path
}

// Run opens the file and reads it to the end.
func (f *File) Run(ctx context.Context, h Handler) error {
	if f.path == "-" {
		return NewReader(os.Stdin, "stdin", f.opts).Run(ctx, h)
	}
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer file.Close()
	return NewReader(file, f.path, f.opts).Run(ctx, h)
}
