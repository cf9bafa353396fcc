// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/permission"
)

func TestPermissionButtonsView(t *testing.T) {
	theme := testTheme()
	opts := []acp.PermissionOption{allowOnce, rejectOne}

	tests := []struct {
		name        string
		state       permission.State
		wantEmpty   bool
		wantSending bool
	}{
		{"hidden", permission.Hidden, true, false},
		{"offered", permission.Offered, false, false},
		{"submitting", permission.Submitting, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := PermissionButtons{Options: opts, State: tt.state}.View(theme)
			if tt.wantEmpty {
				assert.Equal(t, "", view)
				return
			}
			assert.Contains(t, view, "Allow once")
			assert.Contains(t, view, "Reject")
			if tt.wantSending {
				assert.Contains(t, view, "sending...")
			} else {
				assert.NotContains(t, view, "sending...")
			}
		})
	}
}

func TestPermissionButtonsNoOptions(t *testing.T) {
	assert.Equal(t, "", PermissionButtons{State: permission.Offered}.View(testTheme()))
}

func TestPermissionButtonsKeepOptionOrder(t *testing.T) {
	view := PermissionButtons{
		Options: []acp.PermissionOption{rejectOne, allowOnce},
		State:   permission.Offered,
	}.View(testTheme())

	assert.Less(t, strings.Index(view, "Reject"), strings.Index(view, "Allow once"))
}

func TestClampButton(t *testing.T) {
	assert.Equal(t, 0, ClampButton(5, 0))
	assert.Equal(t, 2, ClampButton(2, 3))
	assert.Equal(t, 0, ClampButton(3, 3))
	assert.Equal(t, 2, ClampButton(-1, 3))
}

func TestSubmitPermissionCmdNil(t *testing.T) {
	assert.Nil(t, SubmitPermissionCmd(context.Background(), nil))
}
