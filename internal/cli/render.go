// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/export"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/permission"
	"github.com/jeranaias/rigrun-acp/internal/transcript"
	"github.com/jeranaias/rigrun-acp/internal/ui/components"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// Render output formats.
const (
	FormatView     = "view"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

type renderOptions struct {
	format      string
	output      string
	width       int
	timeout     time.Duration
	interactive bool
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [feed]",
		Short: "Print the transcript of a feed once",
		Long: `Print the transcript of a feed once.

Formats:
  view      the rows as the live view draws them (default)
  text      a plain outline, one line per tool call
  json      the message snapshots
  markdown  a document with diffs and output in fenced blocks

A websocket feed never ends on its own; use --timeout to stop collecting.
With --interactive every pending permission is offered at a prompt and the
answer is sent to the backend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.Context(), cmd.OutOrStdout(), a.feedLocation(args), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", FormatView, "output format: view, text, json, markdown")
	flags.StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	flags.IntVar(&opts.width, "width", 0, "render width (default: terminal width)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "stop reading the feed after this long")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "answer pending permissions at a prompt")
	return cmd
}

func (a *app) runRender(ctx context.Context, out io.Writer, location string, opts renderOptions) error {
	switch opts.format {
	case FormatView, FormatText, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("unknown format %q (want view, text, json or markdown)", opts.format)
	}

	src, err := feed.Open(location, a.feedOptions())
	if err != nil {
		return err
	}
	store, err := collect(ctx, src, a.cfg.UI.MaxMessages, opts.timeout)
	if err != nil {
		return err
	}

	width := opts.width
	if width <= 0 {
		width = GetTerminalWidth()
	}

	var perms *permission.Registry
	if opts.interactive {
		perms = permission.NewRegistry(a.client())
	}

	rendered, err := formatTranscript(store, opts.format, width, a.cfg.UI.DiffCacheSize, perms)
	if err != nil {
		return err
	}
	if opts.output != "" {
		if err := util.AtomicWriteFile(opts.output, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		log.Printf("RENDER_WRITTEN | path=%s messages=%d", opts.output, store.Len())
	} else {
		fmt.Fprint(out, rendered)
	}

	if !opts.interactive {
		return nil
	}
	if !IsTTY() {
		return errors.New("--interactive needs a terminal on stdin")
	}
	p := newLinerPrompter()
	defer p.Close()
	_, err = askPermissions(ctx, out, p, perms, store.PendingPermissions())
	return err
}

// collect folds the feed into a store until the source ends or timeout
// passes. Reaching the timeout is not an error.
func collect(ctx context.Context, src feed.Source, maxMessages int, timeout time.Duration) (*transcript.Store, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	store := transcript.NewStore(maxMessages)
	err := src.Run(ctx, feed.Funcs{
		Message: func(msg acp.Message) { store.Upsert(msg) },
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// formatTranscript renders the store in format at width.
func formatTranscript(store *transcript.Store, format string, width, cacheSize int, perms *permission.Registry) (string, error) {
	switch format {
	case FormatJSON:
		data, err := store.ExportJSON()
		if err != nil {
			return "", fmt.Errorf("export transcript: %w", err)
		}
		return string(data) + "\n", nil
	case FormatText:
		return store.ExportText(), nil
	case FormatMarkdown:
		if store.Len() == 0 {
			return "", nil
		}
		data, err := export.NewMarkdownExporter(nil).Export(store.Messages())
		if err != nil {
			return "", fmt.Errorf("export transcript: %w", err)
		}
		return string(data), nil
	}

	theme := styles.NewTheme()
	theme.SetSize(width, 0)
	cache := components.NewDiffCache(cacheSize)
	defer cache.Close()

	list := components.NewToolCallList(theme, cache, perms)
	list.Width = width
	list.Observe(store.ToolCalls())
	md := &components.MarkdownRenderer{}

	messages := store.Messages()
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		view := components.MessageView{Message: msg, Width: width}
		parts = append(parts, view.View(theme, list, md))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}
