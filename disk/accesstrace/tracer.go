// Package accesstrace provides a tracer that records every disk access into a
// database.
package accesstrace

import (
	"sync"

	"github.com/sarchlab/hddsim/datarecording"
	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/tracing"
)

// Names of the tables the tracer writes.
const (
	AccessTable = "disk_accesses"
	StepTable   = "disk_access_steps"
)

// AccessEntry is a row of the access table.
type AccessEntry struct {
	ID             string
	Location       string
	Op             string
	StartTime      float64
	EndTime        float64
	Block          uint64
	NBlocks        uint64
	Surface        uint32
	Track          uint32
	Sector         uint64
	Seek           float64
	RotationalWait float64
	Transfer       float64
	Tracks         uint32
	Hits           uint64
	Misses         uint64
	Bypassed       bool
}

// StepEntry is a row of the step table.
type StepEntry struct {
	TaskID   string
	Location string
	Time     float64
	What     string
}

// A dbTracer is a hook that records the accesses of a disk into a database
// using the data recorder.
type dbTracer struct {
	lock           sync.Mutex
	dataRecorder   datarecording.DataRecorder
	pendingEntries map[string]*AccessEntry
}

// NewDBTracer creates a tracer that writes into dataRecorder. It creates the
// access and step tables.
func NewDBTracer(dataRecorder datarecording.DataRecorder) tracing.Tracer {
	t := &dbTracer{
		dataRecorder:   dataRecorder,
		pendingEntries: make(map[string]*AccessEntry),
	}

	t.dataRecorder.CreateTable(AccessTable, AccessEntry{})
	t.dataRecorder.CreateTable(StepTable, StepEntry{})

	return t
}

// StartTask remembers a disk access until it ends.
func (t *dbTracer) StartTask(task tracing.Task) {
	detail, ok := task.Detail.(hdd.AccessDetail)
	if !ok {
		return
	}

	entry := &AccessEntry{
		ID:             task.ID,
		Location:       task.Where,
		Op:             task.What,
		StartTime:      float64(task.StartTime),
		Block:          detail.Block,
		NBlocks:        detail.NBlocks,
		Surface:        detail.Position.Surface,
		Track:          detail.Position.Track,
		Sector:         detail.Position.Sector,
		Seek:           float64(detail.Breakdown.Seek),
		RotationalWait: float64(detail.Breakdown.RotationalWait),
		Transfer:       float64(detail.Breakdown.Transfer),
		Tracks:         detail.Breakdown.Tracks,
		Hits:           detail.Hits,
		Misses:         detail.Misses,
		Bypassed:       detail.Bypassed,
	}

	t.lock.Lock()
	t.pendingEntries[task.ID] = entry
	t.lock.Unlock()
}

// StepTask records a step of a disk access.
func (t *dbTracer) StepTask(task tracing.Task) {
	if len(task.Steps) == 0 {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	entry, ok := t.pendingEntries[task.ID]
	if !ok {
		return
	}

	step := task.Steps[0]
	t.dataRecorder.InsertData(StepTable, StepEntry{
		TaskID:   task.ID,
		Location: entry.Location,
		Time:     float64(step.Time),
		What:     step.What,
	})
}

// EndTask writes the completed access.
func (t *dbTracer) EndTask(task tracing.Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	entry, exists := t.pendingEntries[task.ID]
	if !exists {
		return
	}

	entry.EndTime = float64(task.EndTime)
	t.dataRecorder.InsertData(AccessTable, *entry)

	delete(t.pendingEntries, task.ID)
}
