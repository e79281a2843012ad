package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/sim"
	"github.com/sarchlab/hddsim/simulation"
	"github.com/sarchlab/hddsim/tracing"
)

func ms(t sim.VTimeInSec) float64 {
	return float64(t) * 1e3
}

func printGeometry(w io.Writer, d *hdd.Comp) {
	g := d.Geometry()

	fmt.Fprintf(w, "surfaces:          %d\n", g.Surfaces())
	fmt.Fprintf(w, "tracks/surface:    %d\n", g.TracksPerSurface())
	fmt.Fprintf(w, "sectors/track:     %d - %d\n",
		g.SectorsPerTrack(0), g.SectorsPerTrack(g.TracksPerSurface()-1))
	fmt.Fprintf(w, "sector size:       %d bytes\n", g.SectorSize())
	fmt.Fprintf(w, "blocks:            %d\n", g.NumBlocks())
	fmt.Fprintf(w, "capacity:          %.3f MiB\n",
		float64(g.Capacity())/float64(1<<20))
	fmt.Fprintf(w, "rpm:               %.0f\n", float64(d.Timing().RPM()))
	fmt.Fprintf(w, "cache:             %d blocks (%s)\n",
		d.CacheSize(), d.CachePolicy())
	fmt.Fprintln(w)
}

// printStandardTests prints the latency of elementary operations on a disk
// whose heads rest on track 0.
func printStandardTests(w io.Writer, d *hdd.Comp) {
	t := d.Timing()
	oneSector, _ := t.TransferTime(1, 0, 0)

	fmt.Fprintf(w, "avg. seek time:    %.7f\n",
		ms(t.SeekTime(0, d.TracksPerSurface()/2)))
	fmt.Fprintf(w, "seek 1 track:      %.7f\n", ms(t.SeekTime(0, 1)))
	fmt.Fprintf(w, "avg. rot. latency: %.7f\n", ms(t.RotationalWaitTime()))
	fmt.Fprintf(w, "read 1 sector:     %.7f\n", ms(oneSector))
	fmt.Fprintf(w, "write 1 sector:    %.7f\n", ms(oneSector))
	fmt.Fprintln(w, "(all units in milliseconds)")
	fmt.Fprintln(w)
}

func printResult(w io.Writer, res simulation.Result, verbose bool) {
	if res.Record.Comment != "" {
		fmt.Fprintln(w, res.Record.Comment)
	}

	op := "read "
	if res.Record.Op == disk.OpWrite {
		op = "write"
	}

	fmt.Fprintf(w, "%s(%8d, %4d) = ", op, res.Block, res.NBlocks)

	if res.Err != nil {
		fmt.Fprintf(w, "error: %v\n", res.Err)
	} else {
		fmt.Fprintf(w, "%.7f ms\n", ms(res.Latency()))
	}

	if verbose || res.Record.Comment != "" {
		fmt.Fprintln(w)
	}
}

func printSummary(
	w io.Writer,
	s simulation.Summary,
	latency tracing.LatencyStats,
	d *hdd.Comp,
) {
	fmt.Fprintln(w)
	fmt.Fprintf(w,
		"total time for %d (read: %d, write: %d) operations: %.7f ms\n",
		s.Operations(), s.Reads, s.Writes, ms(s.TotalTime))

	if s.Failures > 0 {
		fmt.Fprintf(w, "  failed operations: %d\n", s.Failures)
	}

	if latency.Count > 0 {
		fmt.Fprintf(w, "  latency avg/min/max: %.7f / %.7f / %.7f ms\n",
			ms(latency.Average()), ms(latency.Min), ms(latency.Max))
	}

	fmt.Fprintf(w, "  seeks: %d, track switches: %d\n",
		s.Steps[hdd.StepSeek], s.Steps[hdd.StepTrackSwitch])

	stats := d.CacheStats()
	fmt.Fprintf(w,
		"  cache (%d blocks): %d hits, %d misses, miss rate: %.3f%%\n",
		d.CacheSize(), stats.Hits, stats.Misses, stats.MissRate*100)
	fmt.Fprintln(w)
}
