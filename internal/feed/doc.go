// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed delivers transcript updates from a JSON-lines stream or a
// websocket.
//
// Each frame is one JSON object, either a full message snapshot
//
//	{"type":"message","message":{"id":"m1","metadata":{"tool_calls":[...]}}}
//
// or an ACP JSON-RPC frame:
//
//	{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{...}}}
//	{"jsonrpc":"2.0","id":7,"method":"session/request_permission","params":{...}}
//	{"jsonrpc":"2.0","id":3,"method":"session/prompt","params":{"sessionId":"s1"}}
//	{"jsonrpc":"2.0","id":7,"result":{"outcome":{"outcome":"selected","optionId":"a"}}}
//
// ACP frames are folded into message snapshots by an acp.Tracker, so a
// Handler only ever sees whole messages. A result frame answering an open
// request_permission resolves that call. Malformed frames are logged and
// skipped. Websocket sources reconnect with exponential backoff.
package feed
