package cache

import (
	"fmt"
	"io"
)

// Entry is a cached block together with the logical time it was last used.
type Entry struct {
	Block    uint64 `json:"block"`
	LastUsed uint64 `json:"last_used"`
}

// Snapshot is a copy of the cache state at a point in time.
type Snapshot struct {
	Capacity int     `json:"capacity"`
	Entries  []Entry `json:"entries"`
	Stats    Stats   `json:"stats"`
}

// Snapshot copies the cache content, ordered from the most to the least
// recently used block.
func (c *Cache) Snapshot() Snapshot {
	s := Snapshot{
		Capacity: c.capacity,
		Entries:  make([]Entry, 0, c.recency.len()),
		Stats:    c.Stats(),
	}

	c.recency.each(func(sl slot) {
		s.Entries = append(s.Entries, Entry{
			Block:    sl.block,
			LastUsed: sl.lastUsed,
		})
	})

	return s
}

// Dump writes a human readable description of the cache.
func (c *Cache) Dump(w io.Writer) error {
	s := c.Snapshot()

	_, err := fmt.Fprintf(w,
		"cache (%d blocks, %d used)\n"+
			"  hit/miss:   %d / %d\n"+
			"  miss rate:  %.3f%%\n"+
			"  contents (MRU -> LRU):",
		s.Capacity, len(s.Entries),
		s.Stats.Hits, s.Stats.Misses,
		s.Stats.MissRate*100)
	if err != nil {
		return err
	}

	for _, e := range s.Entries {
		_, err = fmt.Fprintf(w, " %d@%d", e.Block, e.LastUsed)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(w)

	return err
}
