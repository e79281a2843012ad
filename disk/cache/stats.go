package cache

// Stats summarizes how a cache has been performing.
type Stats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	MissRate float64 `json:"miss_rate"`
}

func makeStats(hits, misses uint64) Stats {
	s := Stats{
		Hits:   hits,
		Misses: misses,
	}

	total := hits + misses
	if total > 0 {
		s.MissRate = float64(misses) / float64(total)
	}

	return s
}

// Accesses returns the total number of accesses.
func (s Stats) Accesses() uint64 {
	return s.Hits + s.Misses
}
