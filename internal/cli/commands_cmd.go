// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigrun-acp/internal/commands"
)

type commandsOptions struct {
	persona  string
	chatPath string
	json     bool
}

func newCommandsCmd(a *app) *cobra.Command {
	var opts commandsOptions
	cmd := &cobra.Command{
		Use:   "commands [prefix]",
		Short: "List the slash commands of a chat",
		Long: `List the slash commands of a chat.

With a prefix, only the completions for it are shown, best match first.
A prefix may start with a persona mention: "@claude /re".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			return a.runCommands(cmd.Context(), cmd.OutOrStdout(), input, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.persona, "persona", "", "persona mention name (default: the chat's persona)")
	flags.StringVar(&opts.chatPath, "chat-path", "", "chat to look up (default: ui.chat_path)")
	flags.BoolVar(&opts.json, "json", false, "output JSON")
	return cmd
}

func (a *app) runCommands(ctx context.Context, out io.Writer, input string, opts commandsOptions) error {
	chatPath := opts.chatPath
	if chatPath == "" {
		chatPath = a.cfg.UI.ChatPath
	}
	persona := opts.persona
	if persona == "" {
		persona = commands.Mention(input)
	}

	return OutputJSON(out, opts.json, "commands", func() (interface{}, error) {
		completions, err := lookupCompletions(ctx, a.client(), chatPath, persona, input)
		if err != nil {
			return nil, err
		}
		if !opts.json {
			printCompletions(out, completions)
		}
		return completions, nil
	})
}

// lookupCompletions fetches the commands and matches them against input. An
// empty input lists every command in the backend's order.
func lookupCompletions(ctx context.Context, src commands.Source, chatPath, persona, input string) ([]commands.Completion, error) {
	cmds, err := src.SlashCommands(ctx, chatPath, persona)
	if err != nil {
		return nil, fmt.Errorf("slash command lookup: %w", err)
	}
	registry := commands.NewRegistry()
	registry.Set(cmds)

	if input == "" || input == "@"+persona {
		all := registry.All()
		out := make([]commands.Completion, 0, len(all))
		for _, cmd := range all {
			out = append(out, commands.Completion{Value: cmd.Name, Description: cmd.Description})
		}
		return out, nil
	}
	return commands.NewCompleter(registry).Complete(input, len(input)), nil
}

func printCompletions(out io.Writer, completions []commands.Completion) {
	if len(completions) == 0 {
		fmt.Fprintln(out, "No matching commands.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range completions {
		fmt.Fprintf(w, "%s\t%s\n", c.Value, c.Description)
	}
	w.Flush()
}
