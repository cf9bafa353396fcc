// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive transcript view.
//
// The Model hosts the transcript store and the tool-call list renderer. Feed
// snapshots arrive as FeedMessageMsg through program.Send and replace their
// message wholesale. Keys move the row selection, open panels, pick and
// submit permission options, and drive the slash-command input.
//
// # Key Types
//
//   - Model: Bubble Tea model for the transcript view
//   - Options: Collaborators and limits supplied by the caller
//   - KeyMap: Keyboard bindings
package chat
