// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// DETAIL PANEL
// =============================================================================

// DetailPanel renders the expanded detail of a finished tool call.
type DetailPanel struct {
	Detail toolcall.Detail
	Kind   acp.Kind
	Width  int
	Offset int
}

// detailLanguage picks a lexer hint for block-tier output.
func detailLanguage(kind acp.Kind, content string) string {
	switch {
	case kind == acp.KindExecute:
		return "console"
	case strings.HasPrefix(strings.TrimSpace(content), "{"),
		strings.HasPrefix(strings.TrimSpace(content), "["):
		return "json"
	default:
		return ""
	}
}

// View renders the panel, or "" when there is no detail.
func (p DetailPanel) View(theme *styles.Theme) string {
	if !p.Detail.Present() {
		return ""
	}

	if p.Detail.Tier == toolcall.TierBlock {
		block := NewCodeBlock(detailLanguage(p.Kind, p.Detail.Content), p.Detail.Content)
		if p.Width > 0 {
			block.MaxWidth = p.Width
		}
		block.Offset = p.Offset
		return block.Render(theme)
	}

	return p.renderInline(theme)
}

// renderInline draws each line under a tree connector.
func (p DetailPanel) renderInline(theme *styles.Theme) string {
	lines := strings.Split(p.Detail.Content, "\n")

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		connector := styles.RenderTreeLine(i == len(lines)-1)
		b.WriteString(theme.DetailInline.Render(connector + " " + line))
	}
	return b.String()
}
