package hdd

import (
	"fmt"
	"sort"

	"github.com/sarchlab/hddsim/disk"
)

// A Position locates a block on the platters.
type Position struct {
	Surface uint32
	Track   uint32
	Sector  uint64

	// RunLength is the number of blocks, starting from this one, that can be
	// accessed before the end of the track is reached.
	RunLength uint64
}

// Geometry describes a disk with zoned bit recording. The number of sectors
// on a track grows linearly from the innermost track (track 0) to the
// outermost track.
//
// Blocks are numbered track by track. Within a track, consecutive blocks are
// spread round-robin over the surfaces, so that block b of a track is sector
// b/surfaces on surface b%surfaces.
type Geometry struct {
	surfaces         uint32
	tracksPerSurface uint32
	sectorsInnermost uint32
	sectorsOutermost uint32
	sectorSize       uint32

	// trackStarts[t] is the first block of track t. The extra last element
	// is the number of blocks on the disk.
	trackStarts []uint64
}

// NewGeometry creates a Geometry. It fails with disk.ErrInvalidGeometry if
// the parameters describe a degenerate disk.
func NewGeometry(
	surfaces, tracksPerSurface uint32,
	sectorsInnermost, sectorsOutermost uint32,
	sectorSize uint32,
) (*Geometry, error) {
	switch {
	case surfaces < 1:
		return nil, fmt.Errorf("%w: a disk needs at least one surface",
			disk.ErrInvalidGeometry)
	case tracksPerSurface < 2:
		return nil, fmt.Errorf("%w: a surface needs at least two tracks, got %d",
			disk.ErrInvalidGeometry, tracksPerSurface)
	case sectorsInnermost < 1 || sectorsOutermost < 1:
		return nil, fmt.Errorf("%w: a track needs at least one sector",
			disk.ErrInvalidGeometry)
	case sectorSize < 1:
		return nil, fmt.Errorf("%w: sector size must be positive",
			disk.ErrInvalidGeometry)
	}

	g := &Geometry{
		surfaces:         surfaces,
		tracksPerSurface: tracksPerSurface,
		sectorsInnermost: sectorsInnermost,
		sectorsOutermost: sectorsOutermost,
		sectorSize:       sectorSize,
	}

	g.trackStarts = make([]uint64, tracksPerSurface+1)
	for t := uint32(0); t < tracksPerSurface; t++ {
		blocksOnTrack := g.SectorsPerTrack(t) * uint64(surfaces)
		g.trackStarts[t+1] = g.trackStarts[t] + blocksOnTrack
	}

	return g, nil
}

// Surfaces returns the number of surfaces.
func (g *Geometry) Surfaces() uint32 {
	return g.surfaces
}

// TracksPerSurface returns the number of tracks on each surface.
func (g *Geometry) TracksPerSurface() uint32 {
	return g.tracksPerSurface
}

// SectorSize returns the number of bytes in a sector.
func (g *Geometry) SectorSize() uint32 {
	return g.sectorSize
}

// SectorsPerTrack returns the number of sectors on one surface of a track.
func (g *Geometry) SectorsPerTrack(track uint32) uint64 {
	inner := int64(g.sectorsInnermost)
	outer := int64(g.sectorsOutermost)
	span := int64(g.tracksPerSurface) - 1

	return uint64(inner + int64(track)*(outer-inner)/span)
}

// SectorsPerSurface returns the number of sectors on one surface.
func (g *Geometry) SectorsPerSurface() uint64 {
	return g.NumBlocks() / uint64(g.surfaces)
}

// NumBlocks returns the number of blocks (sectors) on the disk.
func (g *Geometry) NumBlocks() uint64 {
	return g.trackStarts[g.tracksPerSurface]
}

// Capacity returns the size of the disk in bytes.
func (g *Geometry) Capacity() uint64 {
	return g.NumBlocks() * uint64(g.sectorSize)
}

// TrackStart returns the first block of a track.
func (g *Geometry) TrackStart(track uint32) (uint64, error) {
	if track >= g.tracksPerSurface {
		return 0, fmt.Errorf("%w: track %d, the disk has %d tracks",
			disk.ErrOutOfRange, track, g.tracksPerSurface)
	}

	return g.trackStarts[track], nil
}

// Decode translates a block index into a position on the disk.
func (g *Geometry) Decode(block uint64) (Position, error) {
	if block >= g.NumBlocks() {
		return Position{}, fmt.Errorf("%w: block %d, the disk has %d blocks",
			disk.ErrOutOfRange, block, g.NumBlocks())
	}

	// The first track that starts after the block, minus one.
	track := sort.Search(int(g.tracksPerSurface), func(t int) bool {
		return g.trackStarts[t+1] > block
	})

	surfaces := uint64(g.surfaces)
	offset := block - g.trackStarts[track]

	pos := Position{
		Surface: uint32(block % surfaces),
		Track:   uint32(track),
		Sector:  offset / surfaces,
	}
	pos.RunLength = (g.SectorsPerTrack(pos.Track)-pos.Sector)*surfaces -
		uint64(pos.Surface)

	return pos, nil
}

// Encode translates a position back into a block index. RunLength is
// ignored.
func (g *Geometry) Encode(pos Position) (uint64, error) {
	if pos.Surface >= g.surfaces ||
		pos.Track >= g.tracksPerSurface ||
		pos.Sector >= g.SectorsPerTrack(pos.Track) {
		return 0, fmt.Errorf("%w: position %+v", disk.ErrOutOfRange, pos)
	}

	block := g.trackStarts[pos.Track] +
		pos.Sector*uint64(g.surfaces) +
		uint64(pos.Surface)

	return block, nil
}
