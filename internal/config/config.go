// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-acp/internal/util"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-acp configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend" yaml:"backend"`
	Feed    FeedConfig    `toml:"feed" json:"feed" yaml:"feed"`
	UI      UIConfig      `toml:"ui" json:"ui" yaml:"ui"`
	Log     LogConfig     `toml:"log" json:"log" yaml:"log"`
}

// BackendConfig configures the chat backend.
type BackendConfig struct {
	// URL is the base URL of the backend (http or https).
	URL string `toml:"url" json:"url" yaml:"url"`
	// Token is sent as a bearer token, if set.
	Token string `toml:"token" json:"token,omitempty" yaml:"token,omitempty"`
	// TimeoutSecs bounds each request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	// LookupRate is the sustained slash-command lookup rate per second.
	LookupRate float64 `toml:"lookup_rate" json:"lookup_rate" yaml:"lookup_rate"`
	// LookupBurst is the lookup burst size.
	LookupBurst int `toml:"lookup_burst" json:"lookup_burst" yaml:"lookup_burst"`
}

// FeedConfig configures the inbound snapshot feed.
type FeedConfig struct {
	// Source is a ws:// or wss:// URL, a file path, or "-" for stdin.
	Source string `toml:"source" json:"source" yaml:"source"`
	// Sender names the author of messages built from ACP notifications.
	Sender string `toml:"sender" json:"sender" yaml:"sender"`
	// MaxFrameBytes bounds one frame.
	MaxFrameBytes int `toml:"max_frame_bytes" json:"max_frame_bytes" yaml:"max_frame_bytes"`
	// ReconnectInitialMs and ReconnectMaxMs bound the websocket backoff.
	ReconnectInitialMs int `toml:"reconnect_initial_ms" json:"reconnect_initial_ms" yaml:"reconnect_initial_ms"`
	ReconnectMaxMs     int `toml:"reconnect_max_ms" json:"reconnect_max_ms" yaml:"reconnect_max_ms"`
}

// UIConfig configures the transcript view.
type UIConfig struct {
	// MaxMessages bounds the transcript; older messages are evicted.
	MaxMessages int `toml:"max_messages" json:"max_messages" yaml:"max_messages"`
	// DiffCacheSize bounds the memoised diffs.
	DiffCacheSize int `toml:"diff_cache_size" json:"diff_cache_size" yaml:"diff_cache_size"`
	// ChatPath identifies the chat for slash-command lookups.
	ChatPath string `toml:"chat_path" json:"chat_path" yaml:"chat_path"`
	// NoColor disables styling.
	NoColor bool `toml:"no_color" json:"no_color" yaml:"no_color"`
}

// LogConfig configures the log file.
type LogConfig struct {
	// File is the log path; "-" logs to stderr, empty uses the default.
	File       string `toml:"file" json:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `toml:"compress" json:"compress" yaml:"compress"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
			LookupRate:  2,
			LookupBurst: 4,
		},
		Feed: FeedConfig{
			Source:             "-",
			Sender:             "agent",
			MaxFrameBytes:      4 << 20,
			ReconnectInitialMs: 500,
			ReconnectMaxMs:     30000,
		},
		UI: UIConfig{
			MaxMessages:   200,
			DiffCacheSize: 256,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = d.Backend.TimeoutSecs
	}
	if c.Backend.LookupRate == 0 {
		c.Backend.LookupRate = d.Backend.LookupRate
	}
	if c.Backend.LookupBurst == 0 {
		c.Backend.LookupBurst = d.Backend.LookupBurst
	}

	if c.Feed.Source == "" {
		c.Feed.Source = d.Feed.Source
	}
	if c.Feed.Sender == "" {
		c.Feed.Sender = d.Feed.Sender
	}
	if c.Feed.MaxFrameBytes == 0 {
		c.Feed.MaxFrameBytes = d.Feed.MaxFrameBytes
	}
	if c.Feed.ReconnectInitialMs == 0 {
		c.Feed.ReconnectInitialMs = d.Feed.ReconnectInitialMs
	}
	if c.Feed.ReconnectMaxMs == 0 {
		c.Feed.ReconnectMaxMs = d.Feed.ReconnectMaxMs
	}

	if c.UI.MaxMessages == 0 {
		c.UI.MaxMessages = d.UI.MaxMessages
	}
	if c.UI.DiffCacheSize == 0 {
		c.UI.DiffCacheSize = d.UI.DiffCacheSize
	}

	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
}

// Timeout returns the backend request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// ReconnectInitial returns the first websocket retry delay.
func (f FeedConfig) ReconnectInitial() time.Duration {
	return time.Duration(f.ReconnectInitialMs) * time.Millisecond
}

// ReconnectMax returns the longest websocket retry delay.
func (f FeedConfig) ReconnectMax() time.Duration {
	return time.Duration(f.ReconnectMaxMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigrun-acp configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun-acp"), nil
}

// configNames lists the file names Load looks for, in order.
var configNames = []string{"config.toml", "config.json", "config.yaml", "config.yml"}

// ConfigPath returns the first existing config file, or the TOML path when
// none exists.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return filepath.Join(dir, configNames[0]), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration file from the config directory, falling back
// to defaults when there is none. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file, choosing the format
// from the extension (TOML by default).
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	case ".toml", "":
		err = LoadTOML(cfg, path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file into cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration as TOML. The file holds the backend
// token, so it is created 0600.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# rigrun-acp configuration file\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Backend.URL != "" {
		if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("invalid URL '%s', must be http:// or https://", c.Backend.URL),
			})
		}
	}
	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout_secs", Message: "must not be negative"})
	}
	if c.Backend.LookupRate < 0 {
		errs = append(errs, ValidationError{Field: "backend.lookup_rate", Message: "must not be negative"})
	}
	if c.Backend.LookupBurst < 0 {
		errs = append(errs, ValidationError{Field: "backend.lookup_burst", Message: "must not be negative"})
	}

	if src := c.Feed.Source; strings.Contains(src, "://") &&
		!strings.HasPrefix(src, "ws://") && !strings.HasPrefix(src, "wss://") {
		errs = append(errs, ValidationError{
			Field:   "feed.source",
			Message: fmt.Sprintf("unsupported scheme in '%s', must be ws://, wss://, a file path or -", src),
		})
	}
	if c.Feed.MaxFrameBytes < 0 {
		errs = append(errs, ValidationError{Field: "feed.max_frame_bytes", Message: "must not be negative"})
	}
	if c.Feed.ReconnectInitialMs < 0 || c.Feed.ReconnectMaxMs < 0 {
		errs = append(errs, ValidationError{Field: "feed.reconnect", Message: "delays must not be negative"})
	} else if c.Feed.ReconnectMaxMs > 0 && c.Feed.ReconnectInitialMs > c.Feed.ReconnectMaxMs {
		errs = append(errs, ValidationError{
			Field:   "feed.reconnect_initial_ms",
			Message: fmt.Sprintf("%d exceeds reconnect_max_ms %d", c.Feed.ReconnectInitialMs, c.Feed.ReconnectMaxMs),
		})
	}

	if c.UI.MaxMessages < 0 {
		errs = append(errs, ValidationError{Field: "ui.max_messages", Message: "must not be negative"})
	}
	if c.UI.DiffCacheSize < 0 {
		errs = append(errs, ValidationError{Field: "ui.diff_cache_size", Message: "must not be negative"})
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{Field: "log", Message: "rotation limits must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGRUN_ACP_BACKEND: overrides backend.url
//   - RIGRUN_ACP_TOKEN: overrides backend.token
//   - RIGRUN_ACP_FEED: overrides feed.source
//   - RIGRUN_ACP_SENDER: overrides feed.sender
//   - RIGRUN_ACP_CHAT_PATH: overrides ui.chat_path
//   - RIGRUN_ACP_MAX_MESSAGES: overrides ui.max_messages
//   - RIGRUN_ACP_LOG_FILE: overrides log.file
//   - NO_COLOR or RIGRUN_ACP_NO_COLOR: set to disable styling
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RIGRUN_ACP_BACKEND"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("RIGRUN_ACP_TOKEN"); v != "" {
		c.Backend.Token = v
	}
	if v := os.Getenv("RIGRUN_ACP_FEED"); v != "" {
		c.Feed.Source = v
	}
	if v := os.Getenv("RIGRUN_ACP_SENDER"); v != "" {
		c.Feed.Sender = v
	}
	if v := os.Getenv("RIGRUN_ACP_CHAT_PATH"); v != "" {
		c.UI.ChatPath = v
	}
	if v := os.Getenv("RIGRUN_ACP_MAX_MESSAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UI.MaxMessages = n
		}
	}
	if v := os.Getenv("RIGRUN_ACP_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
	if v := os.Getenv("RIGRUN_ACP_NO_COLOR"); v != "" {
		c.UI.NoColor = v == "1" || strings.ToLower(v) == "true"
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as JSON with the token redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Backend.Token != "" {
		safe.Backend.Token = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
