// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// INPUT INSPECTION
// =============================================================================

// Mention returns the persona mention name at the start of input
// ("@claude /clear" -> "claude"), or "" when the input does not start with a
// mention.
func Mention(input string) string {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	if !strings.HasPrefix(input, "@") {
		return ""
	}
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		end = len(input)
	}
	return input[1:end]
}

// stripMention removes a leading persona mention and the spaces after it.
func stripMention(input string) string {
	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, "@") {
		return input
	}
	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end == -1 {
		return ""
	}
	return strings.TrimLeftFunc(trimmed[end:], unicode.IsSpace)
}

// IsCommand returns true if the input, after any mention, starts with "/".
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(stripMention(input)), "/")
}

// ExtractCommandName extracts just the command name from input.
// e.g., "@claude /model opus" -> "/model"
func ExtractCommandName(input string) string {
	input = strings.TrimSpace(stripMention(input))
	if !strings.HasPrefix(input, "/") {
		return ""
	}

	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}

// GetPartialCommand returns the command name being typed, or "" once the
// name is complete or the input is not a command.
func GetPartialCommand(input string) string {
	input = stripMention(input)
	if !strings.HasPrefix(input, "/") {
		return ""
	}

	if strings.IndexFunc(input, unicode.IsSpace) != -1 {
		return ""
	}
	return input
}

// ReplaceCommand swaps the command name being typed for value, keeping any
// leading mention, and appends a space ready for arguments.
func ReplaceCommand(input, value string) string {
	rest := stripMention(input)
	prefix := input[:len(input)-len(rest)]
	if rest == "" && Mention(input) != "" {
		prefix = strings.TrimRightFunc(input, unicode.IsSpace) + " "
	}
	return prefix + value + " "
}
