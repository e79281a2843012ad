// Package hdd models a rotating hard disk drive with an integrated block
// cache.
package hdd

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/cache"
	"github.com/sarchlab/hddsim/sim"
	"github.com/sarchlab/hddsim/tracing"
)

// Names of the steps a request can go through.
const (
	StepSeek        = "seek"
	StepTrackSwitch = "track_switch"
	StepCacheHit    = "cache_hit"
	StepCacheMiss   = "cache_miss"
)

// AccessDetail is attached to the task of every request the disk serves.
type AccessDetail struct {
	Op        disk.Op
	Block     uint64
	NBlocks   uint64
	Position  Position
	Breakdown Breakdown
	Hits      uint64
	Misses    uint64
	Bypassed  bool
}

// Comp is a hard disk drive. It implements disk.Device.
type Comp struct {
	*sim.HookableBase

	name     string
	geometry *Geometry
	timing   *Timing
	cache    *cache.Cache
	policy   CacheHitPolicy
	idGen    sim.IDGenerator
	verbose  bool

	head HeadState
}

var _ disk.Device = (*Comp)(nil)

// Name returns the name of the disk.
func (c *Comp) Name() string {
	return c.name
}

// BytesPerSector returns the number of bytes per sector.
func (c *Comp) BytesPerSector() uint32 {
	return c.geometry.SectorSize()
}

// TracksPerSurface returns the number of tracks on each surface.
func (c *Comp) TracksPerSurface() uint32 {
	return c.geometry.TracksPerSurface()
}

// Capacity returns the capacity of the disk in bytes.
func (c *Comp) Capacity() uint64 {
	return c.geometry.Capacity()
}

// Geometry returns the geometry of the disk.
func (c *Comp) Geometry() *Geometry {
	return c.geometry
}

// Timing returns the timing model of the disk.
func (c *Comp) Timing() *Timing {
	return c.timing
}

// Head returns where the heads currently are.
func (c *Comp) Head() HeadState {
	return c.head
}

// CachePolicy returns how the disk treats cache hits.
func (c *Comp) CachePolicy() CacheHitPolicy {
	return c.policy
}

// CacheSize returns the number of blocks the cache can hold.
func (c *Comp) CacheSize() int {
	return c.cache.Size()
}

// CacheStats returns the cache hit and miss counters.
func (c *Comp) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// CacheSnapshot returns a copy of the cache content.
func (c *Comp) CacheSnapshot() cache.Snapshot {
	return c.cache.Snapshot()
}

// DumpCache writes the cache content to w.
func (c *Comp) DumpCache(w io.Writer) error {
	return c.cache.Dump(w)
}

// Verbose tells if the disk logs every access.
func (c *Comp) Verbose() bool {
	return c.verbose
}

// Read reads nblocks blocks starting at block. It returns the time when the
// read completes.
func (c *Comp) Read(
	now sim.VTimeInSec,
	block, nblocks uint64,
) (sim.VTimeInSec, error) {
	return c.access(disk.OpRead, now, block, nblocks)
}

// Write writes nblocks blocks starting at block. It returns the time when
// the write completes.
func (c *Comp) Write(
	now sim.VTimeInSec,
	block, nblocks uint64,
) (sim.VTimeInSec, error) {
	return c.access(disk.OpWrite, now, block, nblocks)
}

func (c *Comp) access(
	op disk.Op,
	now sim.VTimeInSec,
	block, nblocks uint64,
) (sim.VTimeInSec, error) {
	pos, err := c.validate(block, nblocks)
	if err != nil {
		return 0, fmt.Errorf("%s: %s(%d, %d): %w",
			c.name, op, block, nblocks, err)
	}

	detail := AccessDetail{
		Op:       op,
		Block:    block,
		NBlocks:  nblocks,
		Position: pos,
		Bypassed: c.policy == CacheHitBypass && c.allCached(block, nblocks),
	}

	head := c.head
	if !detail.Bypassed {
		detail.Breakdown, err = c.timing.Access(&head, pos, nblocks)
		if err != nil {
			return 0, fmt.Errorf("%s: %s(%d, %d): %w",
				c.name, op, block, nblocks, err)
		}
	}

	detail.Hits, detail.Misses = c.accessCache(block, nblocks)
	c.head = head

	end := now + detail.Breakdown.Total()
	c.trace(now, end, detail)
	c.logAccess(now, end, detail)

	return end, nil
}

func (c *Comp) validate(block, nblocks uint64) (Position, error) {
	if nblocks == 0 {
		return Position{}, fmt.Errorf("%w: empty request",
			disk.ErrInvalidArgument)
	}

	numBlocks := c.geometry.NumBlocks()
	if block >= numBlocks || nblocks > numBlocks-block {
		return Position{}, fmt.Errorf(
			"%w: blocks [%d, %d) exceed the %d blocks of the disk",
			disk.ErrOutOfRange, block, block+nblocks, numBlocks)
	}

	return c.geometry.Decode(block)
}

func (c *Comp) allCached(block, nblocks uint64) bool {
	for b := block; b < block+nblocks; b++ {
		if !c.cache.Contains(b) {
			return false
		}
	}

	return true
}

func (c *Comp) accessCache(block, nblocks uint64) (hits, misses uint64) {
	for b := block; b < block+nblocks; b++ {
		if c.cache.Access(b) {
			hits++
		} else {
			misses++
		}
	}

	return hits, misses
}

func (c *Comp) trace(start, end sim.VTimeInSec, detail AccessDetail) {
	if c.NumHooks() == 0 {
		return
	}

	id := c.idGen.Generate()
	tracing.StartTask(id, start, c, "req_in", detail.Op.String(), detail)

	if detail.Breakdown.Seek > 0 {
		tracing.AddTaskStep(id, start, c, StepSeek)
	}

	for i := uint32(1); i < detail.Breakdown.Tracks; i++ {
		tracing.AddTaskStep(id, start, c, StepTrackSwitch)
	}

	if detail.Misses == 0 {
		tracing.AddTaskStep(id, start, c, StepCacheHit)
	} else {
		tracing.AddTaskStep(id, start, c, StepCacheMiss)
	}

	tracing.EndTask(id, end, c)
}

func (c *Comp) logAccess(start, end sim.VTimeInSec, detail AccessDetail) {
	if !c.verbose {
		return
	}

	p := detail.Position
	b := detail.Breakdown
	log.Printf(
		"%s: %s(%d, %d) at %.7f: surface %d, track %d, sector %d, run %d; "+
			"seek %.7f, wait %.7f, transfer %.7f, tracks %d; "+
			"hit %d, miss %d, bypassed %t; done at %.7f",
		c.name, detail.Op, detail.Block, detail.NBlocks, start,
		p.Surface, p.Track, p.Sector, p.RunLength,
		b.Seek, b.RotationalWait, b.Transfer, b.Tracks,
		detail.Hits, detail.Misses, detail.Bypassed, end)
}
