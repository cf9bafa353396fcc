// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package permission drives the buttons offered for a tool call's pending
// permission decision.
//
// A Controller owns the transient "submitting" flag for exactly one tool
// call. Begin flips the flag synchronously, so a second click made before the
// first submission returns is ignored. The flag clears when the submission
// fails or when a snapshot reports the decision as resolved.
package permission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/toolcall"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotOffered is returned when a submission is attempted while the
	// buttons are hidden or already disabled.
	ErrNotOffered = errors.New("permission not offered")

	// ErrUnknownOption is returned for an option ID the call does not offer.
	ErrUnknownOption = errors.New("unknown permission option")

	// ErrNoSession is returned when the call carries no session to answer to.
	ErrNoSession = errors.New("tool call has no session")
)

// =============================================================================
// SUBMITTER
// =============================================================================

// Decision is the payload of one permission submission.
type Decision struct {
	SessionID  string `json:"session_id"`
	ToolCallID string `json:"tool_call_id"`
	OptionID   string `json:"option_id"`
}

// Submitter delivers a decision to the backend. A nil error means the backend
// accepted it; the resolved state still arrives later as a new snapshot.
//
//go:generate mockgen -destination=mocks/submitter_mock.go -package=mocks . Submitter
type Submitter interface {
	SubmitPermission(ctx context.Context, d Decision) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, d Decision) error

// SubmitPermission calls f.
func (f SubmitterFunc) SubmitPermission(ctx context.Context, d Decision) error {
	return f(ctx, d)
}

// =============================================================================
// STATE
// =============================================================================

// State is what the permission area of a row shows.
type State int

const (
	// Hidden: no buttons.
	Hidden State = iota
	// Offered: buttons shown and enabled.
	Offered
	// Submitting: buttons shown and disabled.
	Submitting
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case Offered:
		return "offered"
	case Submitting:
		return "submitting"
	default:
		return "hidden"
	}
}

// Visible reports whether buttons are drawn.
func (s State) Visible() bool {
	return s != Hidden
}

// Enabled reports whether buttons accept clicks.
func (s State) Enabled() bool {
	return s == Offered
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller manages submissions for one tool call.
type Controller struct {
	mu         sync.Mutex
	submitter  Submitter
	toolCallID string
	submitting bool
	discarded  bool
	lastErr    error
}

// NewController creates a controller for one tool call.
func NewController(toolCallID string, submitter Submitter) *Controller {
	return &Controller{
		toolCallID: toolCallID,
		submitter:  submitter,
	}
}

// ToolCallID returns the call this controller belongs to.
func (c *Controller) ToolCallID() string {
	return c.toolCallID
}

// State derives the button state for the latest snapshot.
func (c *Controller) State(tc acp.ToolCall) State {
	if !toolcall.OffersPermission(tc) {
		return Hidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return Submitting
	}
	return Offered
}

// Err returns the error of the last failed submission, cleared by the next
// Begin or by a resolved snapshot.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Sync observes a new snapshot. Once the decision is no longer pending the
// submitting flag has served its purpose.
func (c *Controller) Sync(tc acp.ToolCall) {
	if tc.PermissionPending() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	c.lastErr = nil
}

// Discard detaches the controller from its row. Results arriving afterwards
// are dropped.
func (c *Controller) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discarded = true
}

// Discarded reports whether Discard was called.
func (c *Controller) Discarded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discarded
}

// Begin validates a click and disables the buttons before returning. It
// reports false when the click must be ignored: buttons hidden or disabled,
// unknown option, or a discarded controller.
func (c *Controller) Begin(tc acp.ToolCall, optionID string) (*Submission, bool) {
	sub, err := c.begin(tc, optionID)
	if err != nil {
		return nil, false
	}
	return sub, true
}

func (c *Controller) begin(tc acp.ToolCall, optionID string) (*Submission, error) {
	if tc.SessionID == "" {
		return nil, ErrNoSession
	}
	if !toolcall.OffersPermission(tc) {
		return nil, ErrNotOffered
	}
	if _, ok := tc.Option(optionID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, optionID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.discarded || c.submitting {
		return nil, ErrNotOffered
	}
	c.submitting = true
	c.lastErr = nil

	return &Submission{
		controller: c,
		decision: Decision{
			SessionID:  tc.SessionID,
			ToolCallID: tc.ToolCallID,
			OptionID:   optionID,
		},
	}, nil
}

// Finish records the outcome of a submission. A failure is logged and
// re-enables the buttons; success keeps them disabled until the resolved
// snapshot arrives.
func (c *Controller) Finish(d Decision, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discarded {
		return
	}
	if err != nil {
		log.Printf("PERMISSION_SUBMIT_FAILED | session=%s tool_call=%s option=%s error=%v",
			d.SessionID, d.ToolCallID, d.OptionID, err)
		c.submitting = false
		c.lastErr = err
		return
	}
	log.Printf("PERMISSION_SUBMITTED | session=%s tool_call=%s option=%s",
		d.SessionID, d.ToolCallID, d.OptionID)
}

// Submit runs a full click: Begin, the backend call, then Finish. It returns
// the validation error when the click is ignored, otherwise the submitter's
// result.
func (c *Controller) Submit(ctx context.Context, tc acp.ToolCall, optionID string) error {
	sub, err := c.begin(tc, optionID)
	if err != nil {
		return err
	}
	return sub.Run(ctx)
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission is one in-flight decision, created by Begin.
type Submission struct {
	controller *Controller
	decision   Decision
}

// Decision returns the payload being submitted.
func (s *Submission) Decision() Decision {
	return s.decision
}

// Run performs the backend call and records the outcome on the controller.
// No timeout is imposed beyond ctx.
func (s *Submission) Run(ctx context.Context) error {
	err := s.controller.submitter.SubmitPermission(ctx, s.decision)
	s.controller.Finish(s.decision, err)
	return err
}
