package hdd

import (
	"fmt"
	"strings"

	"github.com/sarchlab/hddsim/disk"
)

// CacheHitPolicy decides what a cache hit means for the latency of a
// request.
type CacheHitPolicy int

const (
	// CacheRecordOnly only records hits and misses. Every request pays the
	// full mechanical cost.
	CacheRecordOnly CacheHitPolicy = iota

	// CacheHitBypass serves a request from the cache, at no cost and without
	// moving the heads, if all of its blocks are cached.
	CacheHitBypass
)

// ParseCacheHitPolicy converts "record" or "bypass" into a CacheHitPolicy.
func ParseCacheHitPolicy(s string) (CacheHitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "record":
		return CacheRecordOnly, nil
	case "bypass":
		return CacheHitBypass, nil
	default:
		return 0, fmt.Errorf("%w: unknown cache hit policy %q",
			disk.ErrInvalidArgument, s)
	}
}

func (p CacheHitPolicy) String() string {
	switch p {
	case CacheRecordOnly:
		return "record"
	case CacheHitBypass:
		return "bypass"
	default:
		return fmt.Sprintf("CacheHitPolicy(%d)", int(p))
	}
}
