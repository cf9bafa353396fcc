// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package acp

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// RAW OUTPUT
// =============================================================================

// OutputForm tags the shape of a RawOutput value.
type OutputForm int

const (
	// OutputAbsent means the agent sent no output (or JSON null).
	OutputAbsent OutputForm = iota
	// OutputText is a plain string.
	OutputText
	// OutputBlocks is an array whose every element carries a string "text".
	OutputBlocks
	// OutputOther is any other JSON structure.
	OutputOther
)

// String returns the string representation of an output form.
func (f OutputForm) String() string {
	switch f {
	case OutputAbsent:
		return "absent"
	case OutputText:
		return "text"
	case OutputBlocks:
		return "blocks"
	case OutputOther:
		return "other"
	default:
		return "unknown"
	}
}

// ContentBlock is the textual part of an ACP content block.
type ContentBlock struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// RawOutput is the untyped tool output, classified once when decoded.
type RawOutput struct {
	form   OutputForm
	text   string
	blocks []ContentBlock
	other  any
}

// TextOutput builds a plain string output.
func TextOutput(s string) RawOutput {
	return RawOutput{form: OutputText, text: s}
}

// BlockOutput builds a content block list output.
func BlockOutput(blocks ...ContentBlock) RawOutput {
	return RawOutput{form: OutputBlocks, blocks: blocks}
}

// OtherOutput builds an output from an arbitrary decoded JSON value. Strings
// and text-bearing block lists are classified as such.
func OtherOutput(v any) RawOutput {
	data, err := json.Marshal(v)
	if err != nil {
		return RawOutput{form: OutputOther, other: v}
	}
	var out RawOutput
	if err := out.UnmarshalJSON(data); err != nil {
		return RawOutput{form: OutputOther, other: v}
	}
	return out
}

// Form returns the output's shape.
func (r RawOutput) Form() OutputForm { return r.form }

// Present reports whether any output was sent.
func (r RawOutput) Present() bool { return r.form != OutputAbsent }

// IsZero reports an absent output, so omitzero fields drop it.
func (r RawOutput) IsZero() bool { return !r.Present() }

// Text returns the string value when the output is plain text.
func (r RawOutput) Text() (string, bool) {
	return r.text, r.form == OutputText
}

// Blocks returns the content blocks when the output is a block list.
func (r RawOutput) Blocks() ([]ContentBlock, bool) {
	return r.blocks, r.form == OutputBlocks
}

// Value returns the decoded JSON value for any form.
func (r RawOutput) Value() any {
	switch r.form {
	case OutputText:
		return r.text
	case OutputBlocks:
		return r.blocks
	case OutputOther:
		return r.other
	default:
		return nil
	}
}

// UnmarshalJSON classifies the payload into one of the output forms.
func (r *RawOutput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = RawOutput{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = TextOutput(s)
		return nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return err
		}
		if blocks, ok := decodeTextBlocks(elems); ok {
			*r = BlockOutput(blocks...)
			return nil
		}
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*r = RawOutput{form: OutputOther, other: v}
	return nil
}

// MarshalJSON writes the output back in its original shape.
func (r RawOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// decodeTextBlocks succeeds only when every element is an object with a
// string "text" field.
func decodeTextBlocks(elems []json.RawMessage) ([]ContentBlock, bool) {
	blocks := make([]ContentBlock, 0, len(elems))
	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil {
			return nil, false
		}
		rawText, ok := fields["text"]
		if !ok {
			return nil, false
		}
		var block ContentBlock
		if err := json.Unmarshal(rawText, &block.Text); err != nil {
			return nil, false
		}
		if rawType, ok := fields["type"]; ok {
			_ = json.Unmarshal(rawType, &block.Type)
		}
		blocks = append(blocks, block)
	}
	return blocks, true
}
