package tracing

import (
	"sync"

	"github.com/sarchlab/hddsim/sim"
)

// LatencyStats summarizes the latency of completed tasks.
type LatencyStats struct {
	Count uint64
	Total sim.VTimeInSec
	Min   sim.VTimeInSec
	Max   sim.VTimeInSec
}

// Average returns the mean latency, or 0 if no task has completed.
func (s LatencyStats) Average() sim.VTimeInSec {
	if s.Count == 0 {
		return 0
	}

	return s.Total / sim.VTimeInSec(s.Count)
}

// LatencyTracer measures the time from the start to the end of each task
// accepted by its filter. Overlapping tasks are accounted independently.
type LatencyTracer struct {
	filter TaskFilter

	lock     sync.Mutex
	inflight map[string]sim.VTimeInSec
	stats    LatencyStats
}

// NewLatencyTracer creates a LatencyTracer.
func NewLatencyTracer(filter TaskFilter) *LatencyTracer {
	return &LatencyTracer{
		filter:   filter,
		inflight: make(map[string]sim.VTimeInSec),
	}
}

// Stats returns the latency of the tasks completed so far.
func (t *LatencyTracer) Stats() LatencyStats {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.stats
}

func (t *LatencyTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflight[task.ID] = task.StartTime
	t.lock.Unlock()
}

func (t *LatencyTracer) StepTask(Task) {}

func (t *LatencyTracer) EndTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	delete(t.inflight, task.ID)

	latency := task.EndTime - start
	if t.stats.Count == 0 || latency < t.stats.Min {
		t.stats.Min = latency
	}

	if latency > t.stats.Max {
		t.stats.Max = latency
	}

	t.stats.Count++
	t.stats.Total += latency
}
