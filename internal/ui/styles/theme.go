// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	Header        lipgloss.Style
	MessageSender lipgloss.Style
	MessageTime   lipgloss.Style
	StatusLine    lipgloss.Style

	// ==========================================================================
	// TOOL CALL ROW STYLES
	// ==========================================================================

	RowTitle        lipgloss.Style
	RowSelected     lipgloss.Style
	RowLabel        lipgloss.Style
	RowWorking      lipgloss.Style
	RowToggle       lipgloss.Style
	DetailInline    lipgloss.Style
	DetailBlock     lipgloss.Style
	DetailBlockBody lipgloss.Style

	// ==========================================================================
	// DIFF BLOCK STYLES
	// ==========================================================================

	DiffHeader      lipgloss.Style
	DiffPath        lipgloss.Style
	DiffStatAdded   lipgloss.Style
	DiffStatRemoved lipgloss.Style
	DiffGutter      lipgloss.Style
	DiffAdded       lipgloss.Style
	DiffRemoved     lipgloss.Style
	DiffContext     lipgloss.Style
	DiffAffordance  lipgloss.Style

	// ==========================================================================
	// PERMISSION BUTTON STYLES
	// ==========================================================================

	PermissionButton         lipgloss.Style
	PermissionButtonActive   lipgloss.Style
	PermissionButtonReject   lipgloss.Style
	PermissionButtonDisabled lipgloss.Style

	// ==========================================================================
	// COMPLETION POPUP STYLES
	// ==========================================================================

	CompletionPopup    lipgloss.Style
	CompletionItem     lipgloss.Style
	CompletionSelected lipgloss.Style
	CompletionDesc     lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Transcript
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.MessageSender = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusLine = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Rows
	t.RowTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.RowSelected = lipgloss.NewStyle().
		Foreground(FocusRing).
		Bold(true)

	t.RowLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.RowWorking = lipgloss.NewStyle().
		Foreground(Amber)

	t.RowToggle = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.DetailInline = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(4)

	t.DetailBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1).
		MarginLeft(2)

	t.DetailBlockBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Diff blocks
	t.DiffHeader = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.DiffPath = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.DiffStatAdded = lipgloss.NewStyle().
		Foreground(Emerald)

	t.DiffStatRemoved = lipgloss.NewStyle().
		Foreground(Rose)

	t.DiffGutter = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.DiffAdded = lipgloss.NewStyle().
		Foreground(Emerald).
		Background(DiffAddedBg)

	t.DiffRemoved = lipgloss.NewStyle().
		Foreground(Rose).
		Background(DiffRemovedBg)

	t.DiffContext = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DiffAffordance = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Permission buttons
	t.PermissionButton = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PermissionButtonActive = t.PermissionButton.
		Foreground(Cyan).
		Background(SelectionBg).
		BorderForeground(Cyan).
		Bold(true)

	t.PermissionButtonReject = t.PermissionButton.
		Foreground(Rose)

	t.PermissionButtonDisabled = t.PermissionButton.
		Foreground(OverlayDim).
		BorderForeground(OverlayDim)

	// Completion popup
	t.CompletionPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CompletionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CompletionSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan)

	t.CompletionDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// StatusIcon styles a row icon with the accent of its state tag.
func (t *Theme) StatusIcon(tag, icon string) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(tag)).
		Bold(true).
		Render(icon)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
