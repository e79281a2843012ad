package sim

import (
	"log"
	"math"
)

// RPM defines the rotational speed of a spindle, in revolutions per minute.
type RPM float64

// Common spindle speeds.
const (
	RPM4200  RPM = 4200
	RPM5400  RPM = 5400
	RPM7200  RPM = 7200
	RPM10000 RPM = 10000
	RPM15000 RPM = 15000
)

// Period returns the time of one full revolution.
func (r RPM) Period() VTimeInSec {
	if r <= 0 || math.IsNaN(float64(r)) {
		log.Panic("rotational speed must be positive")
	}

	return VTimeInSec(60.0 / float64(r))
}

// HalfPeriod returns the time of half a revolution. It is the expected wait
// for a sector to pass under the head when the initial phase is uniformly
// random.
func (r RPM) HalfPeriod() VTimeInSec {
	return r.Period() / 2
}

// Revolutions converts a time to the number of revolutions completed since
// time 0.
func (r RPM) Revolutions(t VTimeInSec) float64 {
	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}

	return float64(t) / float64(r.Period())
}

// Sweep returns the time the spindle takes to pass `slots` out of
// `slotsPerRevolution` equally sized slots under the head.
//
//	|<------------- Period ------------->|
//	|----|----|----|----|----|----|----|--
//	|<-- Sweep(3, 8) -->|
func (r RPM) Sweep(slots, slotsPerRevolution uint64) VTimeInSec {
	if slotsPerRevolution == 0 {
		log.Panic("a revolution must have at least one slot")
	}

	fraction := float64(slots) / float64(slotsPerRevolution)

	return VTimeInSec(fraction) * r.Period()
}
