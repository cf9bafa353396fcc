// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/rigrun-acp/internal/config"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/ui/chat"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [feed]",
		Short: "Show a live transcript of tool calls",
		Long: `Show a live transcript of tool calls.

The feed is a ws:// or wss:// URL, a JSON-lines file, or "-" for stdin.
Pending permissions are answered through the backend.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context(), a.feedLocation(args))
		},
	}
}

func (a *app) runView(ctx context.Context, location string) error {
	src, err := feed.Open(location, a.feedOptions())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	backend := a.client()
	model := chat.New(styles.NewTheme(), chat.Options{
		Context:       ctx,
		Source:        src.String(),
		ChatPath:      a.cfg.UI.ChatPath,
		MaxMessages:   a.cfg.UI.MaxMessages,
		DiffCacheSize: a.cfg.UI.DiffCacheSize,
		Submitter:     backend,
		Commands:      backend,
	})
	defer model.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if location == "-" {
		// stdin carries the feed; keys come from the terminal
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, programOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := src.Run(gctx, chat.FeedHandler(p.Send))
		if err != nil {
			log.Printf("FEED_STOPPED | source=%s error=%v", src, err)
		}
		p.Send(chat.FeedDoneMsg{Err: err})
		return nil
	})

	if a.cfgPath != "" {
		err := config.Watch(gctx, a.cfgPath, config.DefaultDebounce, func(cfg *config.Config, err error) {
			if err != nil {
				return
			}
			p.Send(chat.SettingsMsg{ChatPath: cfg.UI.ChatPath, MaxMessages: cfg.UI.MaxMessages})
		})
		if err != nil {
			log.Printf("CONFIG_WATCH_FAILED | path=%s error=%v", a.cfgPath, err)
		}
	}

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}
