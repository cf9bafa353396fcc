// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// Render tests compare plain text: no colours, no highlighting.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func strPtr(s string) *string { return &s }

func numbered(prefix string, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = prefix + string(rune('a'+i%26))
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

var (
	allowOnce = acp.PermissionOption{OptionID: "allow", Title: "Allow once", Description: "allow_once"}
	rejectOne = acp.PermissionOption{OptionID: "reject", Title: "Reject", Description: "reject_once"}
)
