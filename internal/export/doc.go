// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes transcripts as documents.
//
// # Key Types
//
//   - Exporter: converts messages to one document format
//   - Options: title, metadata and timestamp switches
//   - MarkdownExporter: Markdown with diffs as fenced unified hunks
//
// # Usage
//
//	exporter := export.NewMarkdownExporter(nil)
//	doc, err := exporter.Export(store.Messages())
package export
