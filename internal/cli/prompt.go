// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/permission"
)

// prompter reads one line of user input. *liner.State satisfies it.
type prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

func newLinerPrompter() prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return line
}

// errStopPrompting ends the prompt loop without an error.
var errStopPrompting = errors.New("stop prompting")

// askPermissions offers each pending call's options at the prompt and
// submits the answer. It returns the number of decisions sent. An empty
// answer skips a call; "q" or Ctrl+C stops asking.
func askPermissions(ctx context.Context, out io.Writer, p prompter, perms *permission.Registry, pending []acp.ToolCall) (int, error) {
	if len(pending) == 0 {
		fmt.Fprintln(out, "No pending permissions.")
		return 0, nil
	}

	sent := 0
	for _, tc := range pending {
		opt, err := askOne(out, p, tc)
		if errors.Is(err, errStopPrompting) {
			return sent, nil
		}
		if err != nil {
			return sent, err
		}
		if opt.OptionID == "" {
			continue
		}

		if err := perms.Get(tc.ToolCallID).Submit(ctx, tc, opt.OptionID); err != nil {
			fmt.Fprintf(out, "  permission not sent: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "  sent: %s\n", opt.Title)
		sent++
	}
	return sent, nil
}

// askOne prompts until the answer names an option, is empty, or stops the
// loop.
func askOne(out io.Writer, p prompter, tc acp.ToolCall) (acp.PermissionOption, error) {
	title := tc.Title
	if title == "" {
		title = tc.ToolCallID
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for i, opt := range tc.PermissionOptions {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, opt.Title)
	}

	for {
		answer, err := p.Prompt("choice (Enter to skip, q to stop): ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return acp.PermissionOption{}, errStopPrompting
		}
		if err != nil {
			return acp.PermissionOption{}, fmt.Errorf("read answer: %w", err)
		}

		answer = strings.TrimSpace(answer)
		switch strings.ToLower(answer) {
		case "":
			return acp.PermissionOption{}, nil
		case "q", "quit":
			return acp.PermissionOption{}, errStopPrompting
		}
		if opt, ok := matchOption(tc.PermissionOptions, answer); ok {
			return opt, nil
		}
		fmt.Fprintf(out, "  %q is not one of the options\n", answer)
	}
}

// matchOption resolves an answer given as a 1-based number, an option ID, or
// a case-insensitive title prefix that matches exactly one option.
func matchOption(options []acp.PermissionOption, answer string) (acp.PermissionOption, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return acp.PermissionOption{}, false
	}

	for _, opt := range options {
		if opt.OptionID == answer {
			return opt, true
		}
	}

	lower := strings.ToLower(answer)
	var found []acp.PermissionOption
	for _, opt := range options {
		if strings.HasPrefix(strings.ToLower(opt.Title), lower) {
			found = append(found, opt)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return acp.PermissionOption{}, false
}
