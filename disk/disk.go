// Package disk defines what a simulated block storage device looks like to
// the rest of the simulator.
package disk

import (
	"fmt"

	"github.com/sarchlab/hddsim/sim"
)

// A Device serves timed block reads and writes. Each method receives the
// time the request arrives and returns the time the request completes.
//
// A Device is not reentrant. Calls against one Device must be serialized by
// the caller.
type Device interface {
	// Read reads nblocks blocks starting at block.
	Read(now sim.VTimeInSec, block, nblocks uint64) (sim.VTimeInSec, error)

	// Write writes nblocks blocks starting at block.
	Write(now sim.VTimeInSec, block, nblocks uint64) (sim.VTimeInSec, error)
}

// Op is the kind of a request.
type Op byte

// The request kinds, encoded the way they appear in traces.
const (
	OpRead  Op = 'r'
	OpWrite Op = 'w'
)

// ParseOp converts a trace op character into an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "r", "R":
		return OpRead, nil
	case "w", "W":
		return OpWrite, nil
	default:
		return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, s)
	}
}

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", byte(o))
	}
}

// Do dispatches a request of the given kind to the device.
func Do(
	d Device,
	op Op,
	now sim.VTimeInSec,
	block, nblocks uint64,
) (sim.VTimeInSec, error) {
	switch op {
	case OpRead:
		return d.Read(now, block, nblocks)
	case OpWrite:
		return d.Write(now, block, nblocks)
	default:
		return 0, fmt.Errorf("%w: unknown operation %v", ErrInvalidArgument, op)
	}
}
