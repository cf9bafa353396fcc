// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for rigrun-acp.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth, StringWidth, PadRight: terminal-width aware via go-runewidth
//   - Indent, ExpandTabs: layout helpers for detail panels and diff rows
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateWidth(call.Title, width-4)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
