package sim

// VTimeInSec is a point in time, or a duration, in seconds of simulated
// time. Trace timestamps and access completion times use it.
type VTimeInSec float64

// Named describes an object that has a name.
type Named interface {
	Name() string
}
