// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for rigrun-acp.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

Tool-call rows map their state tag to an accent with StatusColor:

	in_progress - Amber
	completed   - Emerald
	failed      - Rose

Diff rows use Emerald/Rose foregrounds over DiffAddedBg/DiffRemovedBg.

# Theme System (theme.go)

The Theme struct holds every lipgloss.Style used by the renderer:

	theme := styles.NewTheme()
	icon := theme.StatusIcon("completed", "✓")

# Animation System (animations.go)

WorkingSpinner drives the indicator of unfinished calls; Frame(tick) picks a
frame for static renders.
*/
package styles
