// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reportcache is an optional content-addressed cache for encoded
// reports, keyed by the analyzed file's path, size, and modification time
// so a re-run over an unchanged log can skip re-parsing and re-detecting.
package reportcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key returns the cache key for an event log at path with the given size
// and modification-time unix nanoseconds. It never reads file contents —
// only the identity tuple a caller already has from os.Stat.
func Key(path string, size int64, modTimeUnixNano int64) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d", path, size, modTimeUnixNano)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Cache stores and retrieves an encoded report by cache key. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// memCache is the dependency-free default: an in-process map, scoped to one
// run of the binary. It is the default adapter in Build.
type memCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemCache returns a Cache backed by an in-process map.
func NewMemCache() Cache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

// Build constructs a Cache for the given adapter selector. Supported
// adapters:
//   - "", "mem": in-process map (default)
//   - "redis": a redis-backed Cache; addr must be non-empty
//
// Unknown adapters return an error rather than silently falling back, so a
// CLI typo surfaces immediately instead of quietly disabling caching.
func Build(adapter, addr string) (Cache, error) {
	switch adapter {
	case "", "mem":
		return NewMemCache(), nil
	case "redis":
		if addr == "" {
			return nil, fmt.Errorf("reportcache: redis adapter requires a non-empty address")
		}
		return NewRedisCache(addr), nil
	default:
		return nil, fmt.Errorf("reportcache: unknown cache adapter %q", adapter)
	}
}
