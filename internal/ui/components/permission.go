// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/permission"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// PERMISSION BUTTONS
// =============================================================================

// PermissionButtons renders one button per offered option, in order.
type PermissionButtons struct {
	Options  []acp.PermissionOption
	Selected int
	State    permission.State
	Focused  bool
}

// View renders the button row, or "" when the buttons are hidden.
func (p PermissionButtons) View(theme *styles.Theme) string {
	if !p.State.Visible() || len(p.Options) == 0 {
		return ""
	}

	buttons := make([]string, 0, len(p.Options))
	for i, opt := range p.Options {
		buttons = append(buttons, p.buttonStyle(theme, i, opt).Render(opt.Title))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
	if p.State == permission.Submitting {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, " ", theme.StatusLine.Render("sending..."))
	}
	return row
}

func (p PermissionButtons) buttonStyle(theme *styles.Theme, i int, opt acp.PermissionOption) lipgloss.Style {
	switch {
	case !p.State.Enabled():
		return theme.PermissionButtonDisabled
	case p.Focused && i == p.Selected:
		return theme.PermissionButtonActive
	case opt.IsReject():
		return theme.PermissionButtonReject
	default:
		return theme.PermissionButton
	}
}

// ClampButton keeps a focused button index inside the option list, wrapping
// around like tab navigation.
func ClampButton(index, count int) int {
	if count <= 0 {
		return 0
	}
	return ((index % count) + count) % count
}

// =============================================================================
// SUBMISSION COMMANDS
// =============================================================================

// PermissionResultMsg reports the outcome of a submission back to the event
// loop.
type PermissionResultMsg struct {
	Decision permission.Decision
	Err      error
}

// SubmitPermissionCmd runs a submission that Begin already started. The
// buttons were disabled synchronously; this only performs the call.
func SubmitPermissionCmd(ctx context.Context, sub *permission.Submission) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		err := sub.Run(ctx)
		return PermissionResultMsg{Decision: sub.Decision(), Err: err}
	}
}
