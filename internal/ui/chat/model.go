// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/commands"
	"github.com/jeranaias/rigrun-acp/internal/feed"
	"github.com/jeranaias/rigrun-acp/internal/permission"
	"github.com/jeranaias/rigrun-acp/internal/transcript"
	"github.com/jeranaias/rigrun-acp/internal/ui/components"
	"github.com/jeranaias/rigrun-acp/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options supplies the model's collaborators. Nil collaborators disable the
// matching feature: no Submitter means no buttons, no Commands means no
// slash completion.
type Options struct {
	// Context bounds permission submissions and command lookups.
	Context context.Context
	// Source describes the feed in the header.
	Source string
	// ChatPath identifies the chat for slash-command lookups.
	ChatPath string
	// MaxMessages bounds the transcript.
	MaxMessages int
	// DiffCacheSize bounds the memoised diffs.
	DiffCacheSize int

	Submitter permission.Submitter
	Commands  commands.Source

	// OnSubmit receives text entered in the input that is not a completion.
	// When nil the text stays local.
	OnSubmit func(text string) tea.Cmd
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the transcript view.
type Model struct {
	opts  Options
	ctx   context.Context
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Transcript and rendering
	store *transcript.Store
	cache *components.DiffCache
	perms *permission.Registry
	list  *components.ToolCallList
	md    *components.MarkdownRenderer

	// Chrome
	header    *components.Header
	statusBar *components.StatusBar
	toast     *components.Toast
	ticking   bool

	// Slash commands
	registry   *commands.Registry
	completer  *commands.Completer
	completion *commands.CompletionState
	popup      *components.CompletionPopup
	persona    string

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keyMap   KeyMap

	// Selection
	selectedID   string
	follow       bool
	inputFocused bool
	showHelp     bool

	now func() time.Time
}

// New creates a transcript model.
func New(theme *styles.Theme, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "/ for slash commands"
	ti.CharLimit = 4096

	sp := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: styles.WorkingSpinner.Frames,
		FPS:    styles.WorkingSpinner.Duration(),
	}))

	var perms *permission.Registry
	if opts.Submitter != nil {
		perms = permission.NewRegistry(opts.Submitter)
	}

	cache := components.NewDiffCache(opts.DiffCacheSize)
	registry := commands.NewRegistry()
	completion := commands.NewCompletionState()

	header := components.NewHeader()
	header.Source = opts.Source

	return Model{
		opts:       opts,
		ctx:        ctx,
		theme:      theme,
		store:      transcript.NewStore(opts.MaxMessages),
		cache:      cache,
		perms:      perms,
		list:       components.NewToolCallList(theme, cache, perms),
		md:         &components.MarkdownRenderer{},
		header:     header,
		statusBar:  &components.StatusBar{},
		registry:   registry,
		completer:  commands.NewCompleter(registry),
		completion: completion,
		popup:      components.NewCompletionPopup(completion),
		viewport:   viewport.New(80, 20),
		input:      ti,
		spinner:    sp,
		help:       help.New(),
		keyMap:     DefaultKeyMap(),
		follow:     true,
		now:        time.Now,
	}
}

// Init starts the spinner and the first slash-command lookup.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCommands(""))
}

// Close releases the diff cache.
func (m Model) Close() {
	m.cache.Close()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Store returns the transcript store.
func (m Model) Store() *transcript.Store {
	return m.store
}

// SelectedID returns the tool_call_id of the selected row, or "".
func (m Model) SelectedID() string {
	return m.selectedID
}

// Toast returns the visible toast, if any.
func (m Model) Toast() *components.Toast {
	return m.toast
}

// Connection returns the feed state shown in the header.
func (m Model) Connection() components.Connection {
	return m.header.Connection
}

// InputValue returns the text in the input.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Completions returns the visible slash-command completions.
func (m Model) Completions() []commands.Completion {
	if !m.completion.Visible {
		return nil
	}
	return m.completion.Completions
}

// =============================================================================
// SELECTION
// =============================================================================

func (m *Model) calls() []acp.ToolCall {
	return m.store.ToolCalls()
}

func (m *Model) selected() (acp.ToolCall, bool) {
	if m.selectedID == "" {
		return acp.ToolCall{}, false
	}
	return m.store.FindToolCall(m.selectedID)
}

// moveSelection selects the row delta steps away. With no selection it
// starts from the last row going up and from the first going down.
// rowAlive reports whether a call still has a live permission controller.
// Results for evicted rows are dropped.
func (m *Model) rowAlive(toolCallID string) bool {
	if m.perms == nil {
		return false
	}
	c, ok := m.perms.Lookup(toolCallID)
	return ok && !c.Discarded()
}

func (m *Model) moveSelection(delta int) {
	calls := m.calls()
	if len(calls) == 0 {
		m.selectedID = ""
		return
	}

	idx := -1
	for i, tc := range calls {
		if tc.ToolCallID == m.selectedID {
			idx = i
			break
		}
	}

	switch {
	case idx < 0 && delta < 0:
		idx = len(calls) - 1
	case idx < 0:
		idx = 0
	default:
		idx += delta
	}
	idx = max(0, min(idx, len(calls)-1))

	m.selectedID = calls[idx].ToolCallID
	m.follow = idx == len(calls)-1
}

func (m *Model) selectEdge(last bool) {
	calls := m.calls()
	if len(calls) == 0 {
		return
	}
	if last {
		m.selectedID = calls[len(calls)-1].ToolCallID
		m.follow = true
		return
	}
	m.selectedID = calls[0].ToolCallID
	m.follow = false
}

// =============================================================================
// TOASTS
// =============================================================================

func (m *Model) showToast(t components.Toast) tea.Cmd {
	m.toast = &t
	m.statusBar.Toast = m.toast
	if m.ticking {
		return nil
	}
	m.ticking = true
	return components.ToastTickCmd()
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadCommands fetches the slash commands for persona in the background.
func (m Model) loadCommands(persona string) tea.Cmd {
	if m.opts.Commands == nil {
		return nil
	}
	ctx, src, registry, chatPath := m.ctx, m.opts.Commands, m.registry, m.opts.ChatPath
	return func() tea.Msg {
		n := registry.Load(ctx, src, chatPath, persona)
		return CommandsLoadedMsg{Persona: persona, Count: n}
	}
}

// connectionFor maps a feed status to the header indicator.
func connectionFor(s feed.Status) components.Connection {
	switch s {
	case feed.StatusConnected:
		return components.ConnLive
	case feed.StatusReconnecting:
		return components.ConnReconnecting
	case feed.StatusClosed:
		return components.ConnClosed
	default:
		return components.ConnConnecting
	}
}
