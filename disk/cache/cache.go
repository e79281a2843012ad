// Package cache provides a fully-associative block cache with strict
// least-recently-used replacement. The cache only tracks block identifiers;
// it does not store data.
package cache

import (
	"fmt"

	"github.com/sarchlab/hddsim/disk"
)

// MinCapacity is the smallest number of blocks a Cache can hold.
const MinCapacity = 2

// A Cache remembers a fixed number of recently touched blocks and counts how
// many accesses it would have absorbed.
type Cache struct {
	capacity int
	index    map[uint64]int
	recency  lruList
	clock    uint64

	hits   uint64
	misses uint64
}

// New creates a Cache that holds up to capacity blocks.
func New(capacity int) (*Cache, error) {
	if capacity < MinCapacity {
		return nil, fmt.Errorf(
			"%w: cache capacity %d is smaller than %d",
			disk.ErrInvalidArgument, capacity, MinCapacity)
	}

	c := &Cache{
		capacity: capacity,
		index:    make(map[uint64]int, capacity),
		recency:  newLRUList(capacity),
	}

	return c, nil
}

// Contains checks whether a block is cached. It neither updates the
// statistics nor the recency order.
func (c *Cache) Contains(block uint64) bool {
	_, found := c.index[block]
	return found
}

// Access looks up a block. On a hit, the block becomes the most recently used
// one. On a miss, the block is brought in, evicting the least recently used
// block if the cache is full. Access returns true on a hit.
func (c *Cache) Access(block uint64) bool {
	hit := c.touch(block)
	if hit {
		c.hits++
	} else {
		c.misses++
	}

	return hit
}

// Put brings a block into the cache, or refreshes it if it is already
// cached. Unlike Access, Put does not count as a hit or a miss.
func (c *Cache) Put(block uint64) {
	c.touch(block)
}

func (c *Cache) touch(block uint64) bool {
	c.clock++

	if handle, found := c.index[block]; found {
		c.recency.moveToFront(handle, c.clock)
		return true
	}

	if c.recency.len() == c.capacity {
		victim := c.recency.evictBack()
		delete(c.index, victim)
	}

	c.index[block] = c.recency.pushFront(block, c.clock)

	return false
}

// Size returns the number of blocks the cache can hold.
func (c *Cache) Size() int {
	return c.capacity
}

// Len returns the number of blocks currently cached.
func (c *Cache) Len() int {
	return c.recency.len()
}

// Hits returns the number of accesses that found their block cached.
func (c *Cache) Hits() uint64 {
	return c.hits
}

// Misses returns the number of accesses that had to bring their block in.
func (c *Cache) Misses() uint64 {
	return c.misses
}

// MissRate returns misses/(hits+misses), or 0 if there has been no access.
func (c *Cache) MissRate() float64 {
	return c.Stats().MissRate
}

// Stats returns the current hit and miss counters.
func (c *Cache) Stats() Stats {
	return makeStats(c.hits, c.misses)
}
