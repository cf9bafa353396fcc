// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedOptions() *Options {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func sampleMessages() []acp.Message {
	old := "a\nb\n"
	return []acp.Message{
		{
			ID:     "m1",
			Sender: "agent",
			Body:   "Editing the config",
			Time:   fixedNow,
			Metadata: acp.Metadata{ToolCalls: []acp.ToolCall{
				{
					ToolCallID: "edit",
					Title:      "Edit config.go",
					Kind:       acp.KindEdit,
					Status:     acp.StatusPending,
					Diffs:      []acp.FileDiff{{Path: "config.go", OldText: &old, NewText: "a\nc\n"}},
					PermissionOptions: []acp.PermissionOption{
						{OptionID: "allow", Title: "Allow once", Description: "allow_once"},
						{OptionID: "reject", Title: "Reject", Description: "reject_once"},
					},
					PermissionStatus: acp.PermissionPending,
					SessionID:        "s1",
				},
			}},
		},
		{
			ID:     "m2",
			Sender: "agent",
			Metadata: acp.Metadata{ToolCalls: []acp.ToolCall{
				{
					ToolCallID: "run",
					Title:      "Run tests",
					Kind:       acp.KindExecute,
					Status:     acp.StatusFailed,
					RawOutput:  acp.TextOutput("FAIL ```inline``` marker"),
					PermissionOptions: []acp.PermissionOption{
						{OptionID: "allow", Title: "Allow once", Description: "allow_once"},
					},
					PermissionStatus: acp.PermissionResolved,
					SelectedOptionID: "allow",
				},
				{
					ToolCallID: "read",
					Title:      "Read files",
					Kind:       acp.KindRead,
					Status:     acp.StatusCompleted,
					Locations:  []string{"/src/a.go", "/src/b.go"},
				},
			}},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	content, err := NewMarkdownExporter(fixedOptions()).Export(sampleMessages())
	require.NoError(t, err)
	out := string(content)

	assert.True(t, strings.HasPrefix(out, "---\ntitle: Transcript\n"))
	assert.Contains(t, out, "messages: 2\n")
	assert.Contains(t, out, "tool_calls: 3\n")
	assert.Contains(t, out, "pending_permissions: 1\n")
	assert.Contains(t, out, "exported: 2025-03-14T09:26:53Z\n")
	assert.Contains(t, out, "# Transcript\n")
	assert.Contains(t, out, "### agent <sub>09:26:53</sub>\n")
	assert.Contains(t, out, "Editing the config\n")

	assert.Contains(t, out, "- • **Edit config.go** `edit`\n")
	assert.Contains(t, out, "  - awaiting permission: Allow once / Reject\n")
	assert.Contains(t, out, "  ```diff\n  --- a/config.go\n  +++ b/config.go\n")
	assert.Contains(t, out, "  -b\n  +c\n")

	assert.Contains(t, out, "- ✗ **Run tests** `execute` — Allow once\n")
	assert.Contains(t, out, "  ````\n  FAIL ```inline``` marker\n  ````\n")

	assert.Contains(t, out, "- ✓ **Read files** `read`\n")
	assert.Contains(t, out, "  - `/src/a.go`\n  - `/src/b.go`\n")
}

func TestMarkdownExportWithoutMetadata(t *testing.T) {
	opts := fixedOptions()
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false
	opts.Title = "Session #4"

	content, err := NewMarkdownExporter(opts).Export(sampleMessages()[:1])
	require.NoError(t, err)
	out := string(content)

	assert.True(t, strings.HasPrefix(out, "# Session \\#4\n\n### agent\n\n"))
	assert.NotContains(t, out, "generator:")
	assert.NotContains(t, out, "<sub>")
}

func TestMarkdownExportEmpty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(nil)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestExportMarkdownToFile(t *testing.T) {
	opts := fixedOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportMarkdown(sampleMessages(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(opts.OutputDir, "transcript_20250314_092653.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Run tests**")

	_, err = ExportMarkdown(nil, opts)
	assert.ErrorContains(t, err, "export failed")
}

func TestFence(t *testing.T) {
	assert.Equal(t, "```\nplain\n```\n", fence("", "plain"))
	assert.Equal(t, "`````go\nx ```` y\n`````\n", fence("go", "x ```` y\n"))
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"line\nbreak"`, escapeYAML("line\nbreak"))
	assert.Equal(t, `" padded"`, escapeYAML(" padded"))
}

func TestExporterMetadata(t *testing.T) {
	var e Exporter = NewMarkdownExporter(nil)
	assert.Equal(t, ".md", e.FileExtension())
	assert.Equal(t, "text/markdown", e.MimeType())
}
