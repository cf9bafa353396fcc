// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders block-tier detail output: bordered, monospaced, height
// capped with a scroll offset.
type CodeBlock struct {
	Language  string
	Code      string
	MaxWidth  int
	MaxHeight int
	Offset    int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language:  language,
		Code:      code,
		MaxWidth:  80,
		MaxHeight: 12,
	}
}

// Lines returns the number of lines in the block.
func (c CodeBlock) Lines() int {
	return strings.Count(c.Code, "\n") + 1
}

// Scrollable reports whether the content exceeds MaxHeight.
func (c CodeBlock) Scrollable() bool {
	return c.MaxHeight > 0 && c.Lines() > c.MaxHeight
}

// ClampOffset keeps Offset inside the scrollable range.
func (c CodeBlock) ClampOffset(offset int) int {
	if !c.Scrollable() || offset < 0 {
		return 0
	}
	if max := c.Lines() - c.MaxHeight; offset > max {
		return max
	}
	return offset
}

// Render renders the code block inside theme.DetailBlock.
func (c CodeBlock) Render(theme *styles.Theme) string {
	lines := strings.Split(highlightCode(c.Code, c.Language), "\n")

	offset := c.ClampOffset(c.Offset)
	if c.Scrollable() {
		lines = lines[offset : offset+c.MaxHeight]
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return theme.DetailBlock.
		MaxWidth(maxWidth).
		Render(strings.Join(lines, "\n"))
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies syntax highlighting to code using the chroma library.
// Under an ASCII color profile the code is returned untouched.
func highlightCode(code, language string) string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	return formatWithLexer(code, lexer)
}

// HighlightFile highlights a single line of a file, choosing the lexer from
// the file name. Unknown file types are returned untouched.
func HighlightFile(path, line string) string {
	if line == "" || lipgloss.ColorProfile() == termenv.Ascii {
		return line
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		return line
	}
	return formatWithLexer(line, lexer)
}

func formatWithLexer(code string, lexer chroma.Lexer) string {
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	// Get style (use terminal-friendly style)
	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	// The terminal formatter appends a reset and may add a trailing newline.
	return strings.TrimSuffix(buf.String(), "\n")
}
