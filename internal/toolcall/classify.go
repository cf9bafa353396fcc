// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package toolcall decides how a tool-call snapshot is displayed.
//
// Every function here is pure: it reads an acp.ToolCall and never mutates it.
// Every rule has a fallback, so any record shape produces a renderable row.
package toolcall

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/rigrun-acp/internal/acp"
)

// =============================================================================
// TITLE
// =============================================================================

// WorkingTitle is shown for calls with neither a title nor a known kind.
const WorkingTitle = "Working..."

var titleCaser = cases.Title(language.English, cases.NoLower)

// Title returns the display title of a call.
func Title(tc acp.ToolCall) string {
	if strings.TrimSpace(tc.Title) != "" {
		return tc.Title
	}
	if tc.Kind.Known() {
		return titleCaser.String(string(tc.Kind)) + "..."
	}
	return WorkingTitle
}

// =============================================================================
// STATUS BUCKET
// =============================================================================

// Bucket is the visual state of a row.
type Bucket int

const (
	BucketInProgress Bucket = iota
	BucketCompleted
	BucketFailed
)

// String returns the state tag used for styling.
func (b Bucket) String() string {
	switch b {
	case BucketCompleted:
		return "completed"
	case BucketFailed:
		return "failed"
	default:
		return "in_progress"
	}
}

// Finished reports whether the bucket allows detail output.
func (b Bucket) Finished() bool {
	return b == BucketCompleted || b == BucketFailed
}

// Rejected reports whether the user resolved the call's permission with a
// rejecting option.
func Rejected(tc acp.ToolCall) bool {
	if !tc.PermissionResolved() {
		return false
	}
	opt, ok := tc.SelectedOption()
	return ok && opt.IsReject()
}

// BucketOf maps a call to its visual state. A rejected permission always
// shows as failed, whatever the agent reported.
func BucketOf(tc acp.ToolCall) Bucket {
	if tc.Status == acp.StatusFailed || Rejected(tc) {
		return BucketFailed
	}
	if tc.Status == acp.StatusCompleted {
		return BucketCompleted
	}
	return BucketInProgress
}

// =============================================================================
// ICONS
// =============================================================================

const (
	IconBullet = "•"
	IconCheck  = "✓"
	IconCross  = "✗"
)

// Icon returns the glyph for a bucket.
func Icon(b Bucket) string {
	switch b {
	case BucketCompleted:
		return IconCheck
	case BucketFailed:
		return IconCross
	default:
		return IconBullet
	}
}

// =============================================================================
// DETAIL SOURCE
// =============================================================================

// Source identifies where a row's detail text comes from.
type Source int

const (
	SourceNone Source = iota
	SourceLocations
	SourceOutput
	SourceTextFallback
)

// String returns the string representation of a source.
func (s Source) String() string {
	switch s {
	case SourceLocations:
		return "locations"
	case SourceOutput:
		return "output"
	case SourceTextFallback:
		return "text"
	default:
		return "none"
	}
}

// Detail is the text shown when a finished row is expanded.
type Detail struct {
	Source  Source
	Content string
	Tier    Tier
}

// Present reports whether the row has a detail panel.
func (d Detail) Present() bool {
	return d.Source != SourceNone
}

// DetailOf applies the detail-source rules in order. Unfinished calls never
// reveal detail, whatever they carry.
func DetailOf(tc acp.ToolCall) Detail {
	if !BucketOf(tc).Finished() {
		return Detail{}
	}

	var d Detail
	switch {
	case tc.Kind.TouchesFiles() && len(tc.Locations) > 0:
		d = Detail{Source: SourceLocations, Content: strings.Join(tc.Locations, "\n")}

	case tc.Kind.ProducesOutput() && tc.RawOutput.Present():
		d = Detail{Source: SourceOutput, Content: FormatOutput(tc.RawOutput)}

	default:
		text, ok := tc.RawOutput.Text()
		if !ok {
			return Detail{}
		}
		d = Detail{Source: SourceTextFallback, Content: text}
	}

	if d.Content == "" {
		return Detail{}
	}
	d.Tier = TierOf(tc.Kind, d.Content)
	return d
}

// FormatOutput renders raw output as display text: strings pass through,
// content blocks are joined by newlines, anything else is dumped as indented
// JSON.
func FormatOutput(raw acp.RawOutput) string {
	switch raw.Form() {
	case acp.OutputText:
		text, _ := raw.Text()
		return text

	case acp.OutputBlocks:
		blocks, _ := raw.Blocks()
		texts := make([]string, len(blocks))
		for i, b := range blocks {
			texts[i] = b.Text
		}
		return strings.Join(texts, "\n")

	case acp.OutputOther:
		data, err := json.MarshalIndent(raw.Value(), "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", raw.Value())
		}
		return string(data)

	default:
		return ""
	}
}

// =============================================================================
// DETAIL TIER
// =============================================================================

// Tier is the visual weight of an expanded detail.
type Tier int

const (
	// TierInline renders detail as plain indented text.
	TierInline Tier = iota
	// TierBlock renders detail in a bordered, scrollable, monospaced box.
	TierBlock
)

// InlineMaxLines is the longest detail that stays inline for output kinds.
const InlineMaxLines = 3

// String returns the string representation of a tier.
func (t Tier) String() string {
	if t == TierBlock {
		return "block"
	}
	return "inline"
}

// TierOf picks the detail weight: file lists, thoughts and short output stay
// inline; long command or search output gets the block treatment.
func TierOf(kind acp.Kind, content string) Tier {
	if kind.TouchesFiles() || kind == acp.KindThink {
		return TierInline
	}
	if strings.Count(content, "\n")+1 <= InlineMaxLines {
		return TierInline
	}
	return TierBlock
}

// =============================================================================
// PERMISSION LABEL
// =============================================================================

// PermissionLabel returns the "— <option>" annotation of a resolved call, or
// "" when there is nothing to show.
func PermissionLabel(tc acp.ToolCall) string {
	if !tc.PermissionResolved() {
		return ""
	}
	opt, ok := tc.SelectedOption()
	if !ok {
		return ""
	}
	return "— " + opt.Title
}
