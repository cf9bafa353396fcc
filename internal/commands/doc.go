// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides slash-command completion for the chat input.
//
// The commands themselves live on the agent side. They are fetched per chat
// and persona through a Source and matched by prefix as the user types.
// Lookup failures never reach the user: they are logged and the input simply
// shows no suggestions.
//
// # Key Types
//
//   - Command: a fetched {name, description} pair, name normalised to "/x"
//   - Registry: the current command list
//   - Completer: prefix matching with score ranking
//   - CompletionState: selection state for the popup
//   - Source: the lookup collaborator, implemented by internal/client
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reg.Load(ctx, src, chatPath, commands.Mention(input))
//	suggestions := commands.NewCompleter(reg).Complete(input, len(input))
package commands
