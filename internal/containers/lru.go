// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package containers holds small generic data-structure wrappers
// shared across the walk, such as the inode-ref parent cache.
package containers

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// LRUCache is a least-recently-used(ish) cache backed by
// github.com/hashicorp/golang-lru's adaptive replacement cache. A
// zero LRUCache is usable and defaults to 128 entries; use
// NewLRUCache for a different size.
type LRUCache[K comparable, V any] struct {
	initOnce sync.Once
	size     int
	inner    *lru.ARCCache
}

// NewLRUCache returns an LRUCache holding at most size entries.
func NewLRUCache[K comparable, V any](size int) *LRUCache[K, V] {
	c := &LRUCache[K, V]{size: size}
	c.init()
	return c
}

func (c *LRUCache[K, V]) init() {
	c.initOnce.Do(func() {
		size := c.size
		if size <= 0 {
			size = 128
		}
		c.inner, _ = lru.NewARC(size)
	})
}

// Get returns the cached value for key, if present.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	c.init()
	raw, ok := c.inner.Get(key)
	if ok {
		value = raw.(V)
	}
	return value, ok
}

// Add inserts or updates the cached value for key.
func (c *LRUCache[K, V]) Add(key K, value V) {
	c.init()
	c.inner.Add(key, value)
}

// Len reports the number of entries currently cached.
func (c *LRUCache[K, V]) Len() int {
	c.init()
	return c.inner.Len()
}
