package hdd

import (
	"fmt"
	"log"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/cache"
	"github.com/sarchlab/hddsim/sim"
)

// Builder can build hard disk drives.
type Builder struct {
	surfaces         uint32
	tracksPerSurface uint32
	sectorsInnermost uint32
	sectorsOutermost uint32
	sectorSize       uint32
	rpm              sim.RPM
	seekOverhead     sim.VTimeInSec
	seekPerTrack     sim.VTimeInSec
	cacheBlocks      int
	cachePolicy      CacheHitPolicy
	idGen            sim.IDGenerator
	verbose          bool
}

// MakeBuilder returns a Builder with the parameters of a small 7200 RPM
// disk.
func MakeBuilder() Builder {
	return Builder{
		surfaces:         4,
		tracksPerSurface: 1024,
		sectorsInnermost: 256,
		sectorsOutermost: 512,
		sectorSize:       512,
		rpm:              sim.RPM7200,
		seekOverhead:     0.002,
		seekPerTrack:     0.000005,
		cacheBlocks:      64,
		cachePolicy:      CacheRecordOnly,
	}
}

// WithSurfaces sets the number of surfaces.
func (b Builder) WithSurfaces(n uint32) Builder {
	b.surfaces = n
	return b
}

// WithTracksPerSurface sets the number of tracks on each surface.
func (b Builder) WithTracksPerSurface(n uint32) Builder {
	b.tracksPerSurface = n
	return b
}

// WithSectorsPerTrack sets the number of sectors on the innermost and the
// outermost tracks.
func (b Builder) WithSectorsPerTrack(innermost, outermost uint32) Builder {
	b.sectorsInnermost = innermost
	b.sectorsOutermost = outermost

	return b
}

// WithSectorSize sets the number of bytes in a sector.
func (b Builder) WithSectorSize(n uint32) Builder {
	b.sectorSize = n
	return b
}

// WithRPM sets the rotational speed.
func (b Builder) WithRPM(rpm sim.RPM) Builder {
	b.rpm = rpm
	return b
}

// WithSeekTime sets the fixed overhead of a seek and the additional time
// for each track travelled.
func (b Builder) WithSeekTime(overhead, perTrack sim.VTimeInSec) Builder {
	b.seekOverhead = overhead
	b.seekPerTrack = perTrack

	return b
}

// WithCacheBlocks sets the number of blocks in the integrated cache.
func (b Builder) WithCacheBlocks(n int) Builder {
	b.cacheBlocks = n
	return b
}

// WithCachePolicy sets how the disk treats cache hits.
func (b Builder) WithCachePolicy(p CacheHitPolicy) Builder {
	b.cachePolicy = p
	return b
}

// WithIDGenerator sets the generator of task IDs. By default, each disk
// numbers its tasks sequentially.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGen = g
	return b
}

// WithVerbose makes the disk log every access.
func (b Builder) WithVerbose(verbose bool) Builder {
	b.verbose = verbose
	return b
}

// Build creates a disk.
func (b Builder) Build(name string) (*Comp, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: a disk must have a name",
			disk.ErrInvalidArgument)
	}

	geometry, err := NewGeometry(
		b.surfaces, b.tracksPerSurface,
		b.sectorsInnermost, b.sectorsOutermost,
		b.sectorSize)
	if err != nil {
		return nil, err
	}

	timing, err := NewTiming(geometry, b.rpm, b.seekOverhead, b.seekPerTrack)
	if err != nil {
		return nil, err
	}

	blockCache, err := cache.New(b.cacheBlocks)
	if err != nil {
		return nil, err
	}

	if b.cachePolicy != CacheRecordOnly && b.cachePolicy != CacheHitBypass {
		return nil, fmt.Errorf("%w: unknown cache hit policy %v",
			disk.ErrInvalidArgument, b.cachePolicy)
	}

	c := &Comp{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		geometry:     geometry,
		timing:       timing,
		cache:        blockCache,
		policy:       b.cachePolicy,
		idGen:        b.idGen,
		verbose:      b.verbose,
	}

	if c.idGen == nil {
		c.idGen = sim.NewSequentialIDGenerator()
	}

	if c.verbose {
		b.logParameters(name, geometry)
	}

	return c, nil
}

func (b Builder) logParameters(name string, g *Geometry) {
	log.Printf("%s: surfaces %d, tracks/surface %d, "+
		"sectors innermost/outermost %d/%d, rpm %.0f, sector size %d, "+
		"cache blocks %d (%s), capacity %.3f MiB",
		name, b.surfaces, b.tracksPerSurface,
		b.sectorsInnermost, b.sectorsOutermost, float64(b.rpm), b.sectorSize,
		b.cacheBlocks, b.cachePolicy,
		float64(g.Capacity())/float64(1<<20))
}
