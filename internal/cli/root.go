// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-acp/internal/client"
	"github.com/jeranaias/rigrun-acp/internal/config"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipSetup marks commands that run without loading the configuration.
const skipSetup = "skip-setup"

type globalOptions struct {
	ConfigPath string
	LogFile    string
	NoColor    bool
	Backend    string
	Feed       string
}

// app is the state shared by every command once the root has set it up.
type app struct {
	opts     globalOptions
	cfg      *config.Config
	cfgPath  string
	closeLog func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "rigrun-acp",
		Short:         "Render ACP tool calls from an agent feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.ConfigPath, "config", "", "config file (default ~/.rigrun-acp/config.toml)")
	flags.StringVar(&a.opts.LogFile, "log-file", "", `log file, or "-" for stderr`)
	flags.BoolVar(&a.opts.NoColor, "no-color", false, "disable colors")
	flags.StringVar(&a.opts.Backend, "backend", "", "backend base URL")
	flags.StringVar(&a.opts.Feed, "feed", "", `feed source: ws:// URL, file, or "-" for stdin`)

	cmd.AddCommand(newViewCmd(a))
	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newCommandsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// SETUP
// =============================================================================

func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := loadConfig(a.opts.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend.URL = a.opts.Backend
	}
	if flags.Changed("feed") {
		cfg.Feed.Source = a.opts.Feed
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.opts.LogFile
	}
	if a.opts.NoColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	a.cfgPath = path
	a.closeLog = logging.Setup(cfg.Log)
	lipgloss.SetColorProfile(ColorProfile(cfg.UI.NoColor))

	log.Printf("CLI_START | command=%s version=%s config=%s", cmd.CommandPath(), Version, path)
	return nil
}

func (a *app) teardown() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// loadConfig loads path, or the default location when path is empty. The
// returned path is "" when no file backs the configuration.
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.LoadFromPath(path)
		return cfg, path, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	found, err := config.ConfigPath()
	if err != nil {
		return cfg, "", nil
	}
	if _, err := os.Stat(found); err != nil {
		return cfg, "", nil
	}
	return cfg, found, nil
}

// =============================================================================
// COLLABORATORS
// =============================================================================

func (a *app) feedOptions() feed.Options {
	return feed.Options{
		Sender:           a.cfg.Feed.Sender,
		MaxFrameBytes:    a.cfg.Feed.MaxFrameBytes,
		ReconnectInitial: a.cfg.Feed.ReconnectInitial(),
		ReconnectMax:     a.cfg.Feed.ReconnectMax(),
	}
}

// feedLocation prefers a positional argument over the configured source.
func (a *app) feedLocation(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Feed.Source
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.Backend.URL).
		WithToken(a.cfg.Backend.Token).
		WithTimeout(a.cfg.Backend.Timeout()).
		WithLookupRate(a.cfg.Backend.LookupRate, a.cfg.Backend.LookupBurst)
}
