// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package cache provides a bounded, TTL-expiring read cache for values
// fetched from a remote database. The remote service is eventually
// consistent, so serving a bounded-age copy does not weaken any guarantee
// the caller already has.
package cache

import (
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// Cache is an LRU of JSON values keyed by database key. Entries expire
// ttl after they were stored. Safe for concurrent use.
type Cache struct {
	clock clock.Clock
	lru   *lru.Cache
	ttl   time.Duration
}

type entry struct {
	expiresAt time.Time
	value     json.RawMessage
}

// New creates a Cache holding at most size entries, each served for at
// most ttl.
func New(size int, ttl time.Duration) (*Cache, error) {
	return NewWithClock(size, ttl, clock.New())
}

// NewWithClock is New with an injectable clock.
func NewWithClock(size int, ttl time.Duration, clk clock.Clock) (*Cache, error) {
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	l, err := lru.New(size)
	if err != nil {
		return nil, errors.WithMessage(err, "create lru")
	}
	return &Cache{lru: l, ttl: ttl, clock: clk}, nil
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(entry)
	if c.clock.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *Cache) Set(key string, value json.RawMessage) {
	c.lru.Add(key, entry{value: value, expiresAt: c.clock.Now().Add(c.ttl)})
}

// Invalidate drops the entry for key, if any.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len reports the number of resident entries, counting expired ones not
// yet evicted.
func (c *Cache) Len() int {
	return c.lru.Len()
}
