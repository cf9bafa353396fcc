// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package acp provides the tool-call data model for Agent Client Protocol
// transcripts.
//
// Tool calls arrive as immutable snapshots inside chat message metadata. A
// snapshot is never patched in place: every update for the same tool call ID
// replaces the previous value wholesale.
//
// # Key Types
//
//   - ToolCall: One snapshot of an agent action (read, edit, execute, ...)
//   - Kind / Status: Open string enums with a known set and a fallback
//   - RawOutput: Tagged union over text, content blocks and other JSON
//   - PermissionOption: One choice offered for a permission decision
//   - FileDiff: Before/after text of one file
//   - Message: A transcript message owning its tool calls
//   - Tracker: Folds ACP session/update notifications into snapshots
//
// # Usage
//
//	var msg acp.Message
//	if err := json.Unmarshal(frame, &msg); err != nil {
//		return err
//	}
//	for _, tc := range msg.ToolCalls() {
//		fmt.Println(tc.ToolCallID, tc.Status)
//	}
package acp
