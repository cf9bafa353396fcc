// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"log"
	"strings"
	"sync"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is a slash command advertised by the agent.
type Command struct {
	// Name always starts with "/" (e.g., "/clear")
	Name string `json:"name"`

	// Description is shown next to the completion
	Description string `json:"description"`
}

// Normalize returns name with exactly one leading "/".
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// =============================================================================
// SOURCE
// =============================================================================

// Source looks up the slash commands of a chat. persona is the mention name of
// the addressed persona, or "" for the chat's default persona.
type Source interface {
	SlashCommands(ctx context.Context, chatPath, persona string) ([]Command, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, chatPath, persona string) ([]Command, error)

// SlashCommands calls f.
func (f SourceFunc) SlashCommands(ctx context.Context, chatPath, persona string) ([]Command, error) {
	return f(ctx, chatPath, persona)
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the commands of the current chat in the order the agent
// listed them. It is safe for concurrent use: loads run off the event loop.
type Registry struct {
	mu       sync.RWMutex
	commands []Command
	byName   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Set replaces the command list. Names are normalised; later duplicates and
// blank names are dropped.
func (r *Registry) Set(cmds []Command) {
	list := make([]Command, 0, len(cmds))
	index := make(map[string]int, len(cmds))
	for _, cmd := range cmds {
		if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Name) == "/" {
			continue
		}
		cmd.Name = Normalize(cmd.Name)
		if _, dup := index[cmd.Name]; dup {
			continue
		}
		index[cmd.Name] = len(list)
		list = append(list, cmd)
	}

	r.mu.Lock()
	r.commands = list
	r.byName = index
	r.mu.Unlock()
}

// Load fetches the commands for chatPath and persona and replaces the list.
// A failed lookup is logged and leaves the registry empty. It returns the
// number of commands loaded.
func (r *Registry) Load(ctx context.Context, src Source, chatPath, persona string) int {
	if src == nil {
		r.Set(nil)
		return 0
	}
	cmds, err := src.SlashCommands(ctx, chatPath, persona)
	if err != nil {
		log.Printf("SLASH_LOOKUP_FAILED | chat_path=%s persona=%s error=%v", chatPath, persona, err)
		r.Set(nil)
		return 0
	}
	r.Set(cmds)
	return r.Len()
}

// Get retrieves a command by name. The leading "/" is optional.
func (r *Registry) Get(name string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byName[Normalize(name)]
	if !ok {
		return nil
	}
	cmd := r.commands[i]
	return &cmd
}

// All returns a copy of the command list.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
