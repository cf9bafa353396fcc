// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 500*time.Millisecond, cfg.Feed.ReconnectInitial())
	assert.Equal(t, 30*time.Second, cfg.Feed.ReconnectMax())
}

func TestLoadFromPath_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "config.toml",
			content: `
[backend]
url = "https://chat.example.com"

[feed]
source = "wss://chat.example.com/feed"

[ui]
max_messages = 50
`,
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"backend":{"url":"https://chat.example.com"},"feed":{"source":"wss://chat.example.com/feed"},"ui":{"max_messages":50}}`,
		},
		{
			name: "yaml",
			file: "config.yaml",
			content: `
backend:
  url: https://chat.example.com
feed:
  source: wss://chat.example.com/feed
ui:
  max_messages: 50
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromPath(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "https://chat.example.com", cfg.Backend.URL)
			assert.Equal(t, "wss://chat.example.com/feed", cfg.Feed.Source)
			assert.Equal(t, 50, cfg.UI.MaxMessages)
			// unset fields are defaulted
			assert.Equal(t, "agent", cfg.Feed.Sender)
			assert.Equal(t, 256, cfg.UI.DiffCacheSize)
		})
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	_, err := LoadFromPath(writeFile(t, "config.ini", "x=1"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = LoadFromPath(writeFile(t, "config.toml", "[backend\n"))
	assert.ErrorContains(t, err, "decode TOML")

	_, err = LoadFromPath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "ftp://example.com"
	cfg.Feed.Source = "http://example.com/feed"
	cfg.Feed.ReconnectInitialMs = 5000
	cfg.Feed.ReconnectMaxMs = 1000
	cfg.UI.MaxMessages = -1

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"backend.url", "feed.source", "feed.reconnect_initial_ms", "ui.max_messages"}, fields)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidate_FeedSources(t *testing.T) {
	for _, src := range []string{"-", "feed.jsonl", "/var/log/feed.jsonl", "ws://localhost:8000/ws", "wss://host/ws"} {
		cfg := Default()
		cfg.Feed.Source = src
		assert.NoError(t, cfg.Validate(), src)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RIGRUN_ACP_BACKEND", "https://backend.test")
	t.Setenv("RIGRUN_ACP_TOKEN", "tok")
	t.Setenv("RIGRUN_ACP_FEED", "ws://backend.test/ws")
	t.Setenv("RIGRUN_ACP_SENDER", "claude")
	t.Setenv("RIGRUN_ACP_CHAT_PATH", "chats/a.chat")
	t.Setenv("RIGRUN_ACP_MAX_MESSAGES", "12")
	t.Setenv("RIGRUN_ACP_NO_COLOR", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://backend.test", cfg.Backend.URL)
	assert.Equal(t, "tok", cfg.Backend.Token)
	assert.Equal(t, "ws://backend.test/ws", cfg.Feed.Source)
	assert.Equal(t, "claude", cfg.Feed.Sender)
	assert.Equal(t, "chats/a.chat", cfg.UI.ChatPath)
	assert.Equal(t, 12, cfg.UI.MaxMessages)
	assert.True(t, cfg.UI.NoColor)
}

func TestStringRedactsToken(t *testing.T) {
	cfg := Default()
	cfg.Backend.Token = "super-secret"

	out := cfg.String()
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "[REDACTED]")
	assert.Equal(t, "super-secret", cfg.Backend.Token)
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.UI.ChatPath = "chats/b.chat"

	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, "config.toml", "[ui]\nmax_messages = 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("[ui]\nmax_messages = 20\n"), 0600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 20, cfg.UI.MaxMessages)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.toml"), 0, func(*Config, error) {})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "watch"))
}
