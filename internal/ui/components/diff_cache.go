// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"crypto/sha256"
	"encoding/hex"
	"log"

	"github.com/maypok86/otter"

	"github.com/jeranaias/rigrun-acp/internal/acp"
	"github.com/jeranaias/rigrun-acp/internal/diff"
)

// DefaultDiffCacheSize bounds the number of memoised diffs.
const DefaultDiffCacheSize = 512

// DiffCache memoises computed diffs by content so re-rendering a row never
// recomputes its diffs. Safe for concurrent use.
type DiffCache struct {
	cache *otter.Cache[string, *diff.Diff]
}

// NewDiffCache creates a cache holding up to capacity diffs. A non-positive
// capacity or a builder failure yields a pass-through cache.
func NewDiffCache(capacity int) *DiffCache {
	if capacity <= 0 {
		return &DiffCache{}
	}
	cache, err := otter.MustBuilder[string, *diff.Diff](capacity).Build()
	if err != nil {
		log.Printf("DIFF_CACHE_DISABLED | error=%v", err)
		return &DiffCache{}
	}
	return &DiffCache{cache: &cache}
}

// Get returns the diff for a file change, computing it on a miss.
func (c *DiffCache) Get(fd acp.FileDiff) *diff.Diff {
	if c == nil || c.cache == nil {
		return diff.ComputeDiff(fd.Path, fd.Old(), fd.NewText)
	}

	key := diffKey(fd)
	if d, ok := c.cache.Get(key); ok {
		return d
	}
	d := diff.ComputeDiff(fd.Path, fd.Old(), fd.NewText)
	c.cache.Set(key, d)
	return d
}

// Len returns the number of cached diffs.
func (c *DiffCache) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Size()
}

// Close releases the cache's background resources.
func (c *DiffCache) Close() {
	if c != nil && c.cache != nil {
		c.cache.Close()
	}
}

func diffKey(fd acp.FileDiff) string {
	h := sha256.New()
	h.Write([]byte(fd.Path))
	h.Write([]byte{0})
	if fd.OldText != nil {
		h.Write([]byte{1})
		h.Write([]byte(*fd.OldText))
	}
	h.Write([]byte{0})
	h.Write([]byte(fd.NewText))
	return hex.EncodeToString(h.Sum(nil))
}
