// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering components of the transcript view.

Every component is a value rendered against a *styles.Theme. Components never
mutate tool-call snapshots; local interaction state (expanded panels, diff
truncation, focused buttons) lives in RowState, keyed by tool_call_id.

# Tool Calls

ToolCallList (toolcall_list.go) - Rows for the tool calls of a message, plus the
per-row state and the interactions that change it.
ToolCallRow (toolcall_row.go) - Icon, title, resolved-option label, then the diff
or detail panel and the permission buttons.
DiffBlock (diff_viewer.go) - Gutter-numbered diff rows with a truncation affordance.
DetailPanel (toolresult.go) - Inline or block-tier detail of a finished call.
PermissionButtons (permission.go) - One button per option, disabled while sending.
DiffCache (diff_cache.go) - Memoised diffs keyed by content.

# Chrome

MessageView (message.go) - Sender, time, markdown body and tool calls.
Header, StatusBar, Toast - Title line, bottom line and transient notices.
CompletionPopup (completion.go) - Slash-command suggestions.
CodeBlock (codeblock.go) - Bordered, scrollable, highlighted text.

# Usage

	list := components.NewToolCallList(theme, components.NewDiffCache(256), perms)
	list.Observe(msg.ToolCalls())
	fmt.Println(list.View(msg.ToolCalls(), selectedID))
*/
package components
