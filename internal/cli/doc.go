// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the rigrun-acp commands.
//
// # Commands
//
//   - view: interactive transcript of a live feed
//   - render: one-shot print of a recorded or live feed, optionally answering
//     pending permissions from the terminal
//   - commands: slash-command lookup and completion
//   - config: show, locate, or initialise the configuration file
//   - version: build information
//
// Every command except version loads the configuration first, applies the
// global flags on top of it, and points the standard logger at the
// configured sink.
package cli
