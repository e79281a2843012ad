package hdd

import (
	"fmt"
	"math"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/sim"
)

// HeadState is where the read/write heads are.
type HeadState struct {
	// Track is the track the heads are above.
	Track uint32 `json:"track"`

	// SurfaceOffset is the surface slot at which the next transfer on the
	// current track begins. It keeps the rotational phase continuous when a
	// request spans several transfers.
	SurfaceOffset uint32 `json:"surface_offset"`
}

// A Breakdown splits the latency of an access into its components.
type Breakdown struct {
	Seek           sim.VTimeInSec `json:"seek"`
	RotationalWait sim.VTimeInSec `json:"rotational_wait"`
	Transfer       sim.VTimeInSec `json:"transfer"`

	// Tracks is the number of tracks the access touched.
	Tracks uint32 `json:"tracks"`
}

// Total returns the latency of the access.
func (b Breakdown) Total() sim.VTimeInSec {
	return b.Seek + b.RotationalWait + b.Transfer
}

// Timing computes how long the mechanical parts of a disk take to serve an
// access.
type Timing struct {
	geometry     *Geometry
	rpm          sim.RPM
	seekOverhead sim.VTimeInSec
	seekPerTrack sim.VTimeInSec
}

// NewTiming creates a Timing for a disk with the given geometry. The seek
// overhead is paid once per seek; the per-track cost is paid for each track
// the heads travel.
func NewTiming(
	geometry *Geometry,
	rpm sim.RPM,
	seekOverhead, seekPerTrack sim.VTimeInSec,
) (*Timing, error) {
	switch {
	case geometry == nil:
		return nil, fmt.Errorf("%w: timing requires a geometry",
			disk.ErrInvalidGeometry)
	case !(rpm > 0) || math.IsInf(float64(rpm), 0):
		return nil, fmt.Errorf("%w: rpm must be positive, got %v",
			disk.ErrInvalidGeometry, rpm)
	case seekOverhead < 0 || seekPerTrack < 0:
		return nil, fmt.Errorf("%w: seek times must not be negative",
			disk.ErrInvalidGeometry)
	}

	t := &Timing{
		geometry:     geometry,
		rpm:          rpm,
		seekOverhead: seekOverhead,
		seekPerTrack: seekPerTrack,
	}

	return t, nil
}

// RPM returns the rotational speed.
func (t *Timing) RPM() sim.RPM {
	return t.rpm
}

// SeekTime returns the time to move the heads between two tracks.
func (t *Timing) SeekTime(fromTrack, toTrack uint32) sim.VTimeInSec {
	if fromTrack == toTrack {
		return 0
	}

	distance := toTrack - fromTrack
	if fromTrack > toTrack {
		distance = fromTrack - toTrack
	}

	return t.seekOverhead + sim.VTimeInSec(distance)*t.seekPerTrack
}

// RotationalWaitTime returns the average time until the target sector
// rotates under the heads.
func (t *Timing) RotationalWaitTime() sim.VTimeInSec {
	return t.rpm.HalfPeriod()
}

// TransferTime returns the time to transfer a number of consecutive sectors
// on a track, starting at the given surface slot. All surfaces transfer in
// parallel, so the spindle only needs to sweep over one sector per
// `surfaces` blocks. It also returns the surface slot the next transfer
// starts at.
func (t *Timing) TransferTime(
	sectors uint64,
	track uint32,
	surfaceOffset uint32,
) (sim.VTimeInSec, uint32) {
	surfaces := uint64(t.geometry.surfaces)
	covered := sectors + uint64(surfaceOffset)
	columns := (covered + surfaces - 1) / surfaces

	duration := t.rpm.Sweep(columns, t.geometry.SectorsPerTrack(track))
	nextOffset := uint32(covered % surfaces)

	return duration, nextOffset
}

// Access computes the latency of accessing nblocks blocks starting at pos.
// The heads first seek to the starting track and wait for the first sector,
// then transfer track by track, seeking to the next track whenever the end
// of a track is reached.
//
// The head state is updated only if the access succeeds.
func (t *Timing) Access(
	head *HeadState,
	pos Position,
	nblocks uint64,
) (Breakdown, error) {
	if nblocks == 0 {
		return Breakdown{}, fmt.Errorf("%w: empty access",
			disk.ErrInvalidArgument)
	}

	next := *head
	b := Breakdown{}

	b.Seek = t.SeekTime(next.Track, pos.Track)
	b.RotationalWait = t.RotationalWaitTime()
	next.Track = pos.Track
	next.SurfaceOffset = pos.Surface

	remaining := nblocks
	run := pos.RunLength

	for {
		n := min(remaining, run)

		duration, offset := t.TransferTime(n, next.Track, next.SurfaceOffset)
		b.Transfer += duration
		b.Tracks++
		next.SurfaceOffset = offset
		remaining -= n

		if remaining == 0 {
			break
		}

		nextTrack := next.Track + 1
		if nextTrack >= t.geometry.tracksPerSurface {
			return Breakdown{}, fmt.Errorf(
				"%w: access runs past the last track (%d blocks left)",
				disk.ErrOutOfRange, remaining)
		}

		b.Seek += t.SeekTime(next.Track, nextTrack)
		next.Track = nextTrack
		run = t.geometry.SectorsPerTrack(nextTrack) *
			uint64(t.geometry.surfaces)
	}

	*head = next

	return b, nil
}
