// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the messages currently on screen.
//
// Messages are replaced wholesale whenever a new snapshot with the same ID
// arrives; nothing is merged field by field. The store is bounded: once it
// holds more than MaxMessages, the oldest messages are evicted and the IDs of
// their tool calls are reported so per-row UI state can be discarded with
// them. Nothing is persisted.
//
// # Usage
//
//	store := transcript.NewStore(200)
//	evicted := store.Upsert(msg)
//	list.Forget(evicted...)
package transcript
