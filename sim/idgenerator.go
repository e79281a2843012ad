package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator produces the IDs of tasks and progress bars.
type IDGenerator interface {
	Generate() string
}

// NewSequentialIDGenerator returns a generator of "1", "2", "3" and so on.
// Generators do not share a counter, so two replays of the same trace on
// fresh disks produce the same task IDs.
func NewSequentialIDGenerator() IDGenerator {
	return new(sequentialIDGenerator)
}

// NewUniqueIDGenerator returns a generator of globally unique, time ordered
// IDs.
func NewUniqueIDGenerator() IDGenerator {
	return uniqueIDGenerator{}
}

type sequentialIDGenerator struct {
	last atomic.Uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}

type uniqueIDGenerator struct{}

func (uniqueIDGenerator) Generate() string {
	return xid.New().String()
}
