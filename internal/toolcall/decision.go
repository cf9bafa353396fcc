// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package toolcall

import "github.com/jeranaias/rigrun-acp/internal/acp"

// =============================================================================
// RENDER VARIANTS
// =============================================================================

// Variant names the five ways a row can render. Classify picks the first that
// applies, in declaration order.
type Variant int

const (
	// VariantPendingDiff: diffs awaiting a permission decision. The diff panel
	// starts expanded and the option buttons sit alongside it.
	VariantPendingDiff Variant = iota
	// VariantDiff: diffs with no pending decision, panel collapsed by default.
	VariantDiff
	// VariantDetail: a finished call with detail text.
	VariantDetail
	// VariantWorking: an unfinished call. Shows a working indicator and, when a
	// decision is pending, the option buttons.
	VariantWorking
	// VariantPlain: icon and title only.
	VariantPlain
)

// String returns the string representation of a variant.
func (v Variant) String() string {
	switch v {
	case VariantPendingDiff:
		return "pending_diff"
	case VariantDiff:
		return "diff"
	case VariantDetail:
		return "detail"
	case VariantWorking:
		return "working"
	default:
		return "plain"
	}
}

// Expandable reports whether the variant has a panel to open.
func (v Variant) Expandable() bool {
	return v == VariantPendingDiff || v == VariantDiff || v == VariantDetail
}

// =============================================================================
// DECISION
// =============================================================================

// Decision is everything a renderer needs to draw one row, derived purely
// from the snapshot.
type Decision struct {
	Title           string
	Bucket          Bucket
	Icon            string
	PermissionLabel string
	Detail          Detail
	Variant         Variant
	// OffersPermission is true while buttons may be drawn: a decision is
	// pending, options exist and a session can receive the answer. Whether
	// they are enabled is the permission controller's call.
	OffersPermission bool
	// StartExpanded is the initial state of the row's panel.
	StartExpanded bool
}

// OffersPermission reports whether permission buttons belong on the row.
func OffersPermission(tc acp.ToolCall) bool {
	return tc.PermissionPending() && len(tc.PermissionOptions) > 0 && tc.SessionID != ""
}

// Classify derives the full rendering decision for a call.
func Classify(tc acp.ToolCall) Decision {
	bucket := BucketOf(tc)
	d := Decision{
		Title:            Title(tc),
		Bucket:           bucket,
		Icon:             Icon(bucket),
		PermissionLabel:  PermissionLabel(tc),
		Detail:           DetailOf(tc),
		OffersPermission: OffersPermission(tc),
	}

	switch {
	case tc.HasDiffs() && tc.PermissionPending():
		d.Variant = VariantPendingDiff
		d.StartExpanded = true
	case tc.HasDiffs():
		d.Variant = VariantDiff
	case d.Detail.Present():
		d.Variant = VariantDetail
	case bucket == BucketInProgress:
		d.Variant = VariantWorking
	default:
		d.Variant = VariantPlain
	}

	return d
}
