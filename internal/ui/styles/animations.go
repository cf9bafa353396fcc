// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// WorkingSpinner animates the indicator of unfinished tool calls.
var WorkingSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for a tick count, wrapping around.
func (s SpinnerConfig) Frame(tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return s.Frames[tick%len(s.Frames)]
}

// =============================================================================
// BOX DRAWING
// =============================================================================

// TreeChars draws the connector between a row and its detail panel.
var TreeChars = struct {
	Branch string
	Last   string
}{
	Branch: "├─",
	Last:   "└─",
}

// RenderTreeLine returns the connector for a panel line.
func RenderTreeLine(isLast bool) string {
	if isLast {
		return TreeChars.Last
	}
	return TreeChars.Branch
}
