// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/diff"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
	"github.com/jeranaias/rigrun-acp/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("transcript has no messages")

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts messages to Markdown. Each tool call becomes a list item
// carrying its icon, title and permission outcome; diffs follow as fenced
// unified hunks and finished calls add their detail.
func (e *MarkdownExporter) Export(messages []acp.Message) ([]byte, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		calls, pending := countCalls(messages)
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(e.title())))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(messages)))
		sb.WriteString(fmt.Sprintf("tool_calls: %d\n", calls))
		sb.WriteString(fmt.Sprintf("pending_permissions: %d\n", pending))
		sb.WriteString(fmt.Sprintf("exported: %s\n", e.options.now().Format(time.RFC3339)))
		sb.WriteString("generator: rigrun-acp\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(e.title())))

	for i, msg := range messages {
		sb.WriteString(e.formatHeading(msg))
		if body := strings.TrimSpace(msg.Body); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		for _, tc := range msg.ToolCalls() {
			sb.WriteString(formatToolCall(tc))
		}

		// Add separator between messages (except last)
		if i < len(messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func (e *MarkdownExporter) title() string {
	if e.options.Title == "" {
		return "Transcript"
	}
	return e.options.Title
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func (e *MarkdownExporter) formatHeading(msg acp.Message) string {
	sender := msg.Sender
	if sender == "" {
		sender = "agent"
	}
	if e.options.IncludeTimestamps && !msg.Time.IsZero() {
		return fmt.Sprintf("### %s <sub>%s</sub>\n\n", escapeMarkdown(sender), formatShortTimestamp(msg.Time))
	}
	return fmt.Sprintf("### %s\n\n", escapeMarkdown(sender))
}

// formatToolCall renders one call as a list item followed by its blocks.
func formatToolCall(tc acp.ToolCall) string {
	d := toolcall.Classify(tc)

	var sb strings.Builder
	line := fmt.Sprintf("- %s **%s**", d.Icon, escapeMarkdown(d.Title))
	if tc.Kind != "" {
		line += fmt.Sprintf(" `%s`", tc.Kind)
	}
	if d.PermissionLabel != "" {
		line += " " + d.PermissionLabel
	}
	sb.WriteString(line + "\n")

	if d.OffersPermission {
		titles := make([]string, 0, len(tc.PermissionOptions))
		for _, opt := range tc.PermissionOptions {
			titles = append(titles, opt.Title)
		}
		sb.WriteString(fmt.Sprintf("  - awaiting permission: %s\n", strings.Join(titles, " / ")))
	}

	for _, fd := range tc.Diffs {
		computed := diff.ComputeDiff(fd.Path, fd.Old(), fd.NewText)
		sb.WriteString("\n")
		sb.WriteString(nest(fence("diff", diff.FormatUnifiedDiff(computed))))
	}

	if d.Detail.Present() && len(tc.Diffs) == 0 {
		sb.WriteString("\n")
		switch d.Detail.Source {
		case toolcall.SourceLocations:
			for _, loc := range tc.Locations {
				sb.WriteString(fmt.Sprintf("  - `%s`\n", loc))
			}
		default:
			sb.WriteString(nest(fence("", d.Detail.Content)))
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// fence wraps content in a code fence longer than any backtick run inside it.
func fence(lang, content string) string {
	ticks := strings.Repeat("`", max(3, longestRun(content, '`')+1))
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return ticks + lang + "\n" + content + ticks + "\n"
}

func longestRun(s string, r rune) int {
	longest, run := 0, 0
	for _, c := range s {
		if c == r {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

// nest indents a block under its list item.
func nest(block string) string {
	return util.Indent(strings.TrimSuffix(block, "\n"), "  ") + "\n"
}

func countCalls(messages []acp.Message) (calls, pending int) {
	for _, msg := range messages {
		for _, tc := range msg.ToolCalls() {
			calls++
			if toolcall.OffersPermission(tc) {
				pending++
			}
		}
	}
	return calls, pending
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
