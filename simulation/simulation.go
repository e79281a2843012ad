// Package simulation replays block I/O traces against simulated disks.
package simulation

import (
	"fmt"
	"sync"

	"github.com/sarchlab/hddsim/datarecording"
	"github.com/sarchlab/hddsim/disk"
	"github.com/sarchlab/hddsim/disk/accesstrace"
	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/monitoring"
	"github.com/sarchlab/hddsim/sim"
	"github.com/sarchlab/hddsim/trace"
	"github.com/sarchlab/hddsim/tracing"
)

// A Device is a disk that can be driven by a simulation.
type Device interface {
	disk.Device
	tracing.NamedHookable
	BytesPerSector() uint32
}

// Result is the outcome of replaying one trace record.
type Result struct {
	Record  trace.Record
	Block   uint64
	NBlocks uint64
	End     sim.VTimeInSec
	Err     error
}

// Latency returns how long the request took. It is 0 for failed requests.
func (r Result) Latency() sim.VTimeInSec {
	if r.Err != nil {
		return 0
	}

	return r.End - r.Record.Time
}

// Summary aggregates the results of a replay.
type Summary struct {
	Reads     uint64
	Writes    uint64
	Failures  uint64
	TotalTime sim.VTimeInSec

	// Steps counts the steps the requests went through, such as seeks and
	// track switches.
	Steps map[string]uint64
}

// Operations returns the number of requests replayed.
func (s Summary) Operations() uint64 {
	return s.Reads + s.Writes
}

var stepNames = []string{
	hdd.StepSeek, hdd.StepTrackSwitch, hdd.StepCacheHit, hdd.StepCacheMiss,
}

// A Simulation owns the disks of a replay and the services around them.
type Simulation struct {
	id   string
	lock sync.Mutex

	dataRecorder datarecording.DataRecorder
	accessTracer tracing.Tracer
	monitor      *monitoring.Monitor
	monitorURL   string

	devices       []Device
	stepCounters  []*tracing.StepCountTracer
	latencies     []*tracing.LatencyTracer
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil if recording is disabled.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil if
// monitoring is disabled.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// RegisterDevice registers a disk with the simulation.
func (s *Simulation) RegisterDevice(d Device) {
	name := d.Name()
	if _, found := s.compNameIndex[name]; found {
		panic("device " + name + " already registered")
	}

	s.devices = append(s.devices, d)
	s.compNameIndex[name] = len(s.devices) - 1

	counter := tracing.NewStepCountTracer(tracing.AllTasks)
	tracing.CollectTrace(d, counter)
	s.stepCounters = append(s.stepCounters, counter)

	latency := tracing.NewLatencyTracer(tracing.AllTasks)
	tracing.CollectTrace(d, latency)
	s.latencies = append(s.latencies, latency)

	if s.dataRecorder != nil {
		if s.accessTracer == nil {
			s.accessTracer = accesstrace.NewDBTracer(s.dataRecorder)
		}

		tracing.CollectTrace(d, s.accessTracer)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(d)
	}
}

// Devices returns all the registered devices.
func (s *Simulation) Devices() []Device {
	devices := make([]Device, len(s.devices))
	copy(devices, s.devices)

	return devices
}

// GetDeviceByName returns the device with the given name, or nil.
func (s *Simulation) GetDeviceByName(name string) Device {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.devices[i]
}

// DeviceLatency returns the latency of all the requests a device has
// completed since it was registered.
func (s *Simulation) DeviceLatency(name string) (tracing.LatencyStats, bool) {
	i, found := s.compNameIndex[name]
	if !found {
		return tracing.LatencyStats{}, false
	}

	return s.latencies[i].Stats(), true
}

// Replay sends the records to a registered device, in order. Failed requests
// are counted and do not stop the replay. If onResult is not nil, it is
// called after every request.
func (s *Simulation) Replay(
	deviceName string,
	records []trace.Record,
	onResult func(Result),
) (Summary, error) {
	i, found := s.compNameIndex[deviceName]
	if !found {
		return Summary{}, fmt.Errorf("%w: device %s is not registered",
			disk.ErrInvalidArgument, deviceName)
	}

	d := s.devices[i]
	counter := s.stepCounters[i]
	stepsBefore := countSteps(counter)

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar(deviceName, uint64(len(records)))
		defer s.monitor.CompleteProgressBar(bar)
	}

	summary := Summary{}

	for _, rec := range records {
		if bar != nil {
			bar.Issue(1)
		}

		res := s.issue(d, rec)
		summary.add(res)

		if bar != nil {
			bar.Complete(1)
		}

		if onResult != nil {
			onResult(res)
		}
	}

	summary.Steps = countSteps(counter)
	for name, n := range stepsBefore {
		summary.Steps[name] -= n
	}

	return summary, nil
}

func (s *Simulation) issue(d Device, rec trace.Record) Result {
	block, nblocks := rec.Blocks(d.BytesPerSector())
	res := Result{
		Record:  rec,
		Block:   block,
		NBlocks: nblocks,
	}

	s.lock.Lock()
	res.End, res.Err = disk.Do(d, rec.Op, rec.Time, block, nblocks)
	s.lock.Unlock()

	return res
}

func (s *Summary) add(res Result) {
	switch res.Record.Op {
	case disk.OpRead:
		s.Reads++
	case disk.OpWrite:
		s.Writes++
	}

	if res.Err != nil {
		s.Failures++
		return
	}

	s.TotalTime += res.Latency()
}

func countSteps(counter *tracing.StepCountTracer) map[string]uint64 {
	steps := make(map[string]uint64, len(stepNames))
	for _, name := range stepNames {
		steps[name] = counter.StepCount(name)
	}

	return steps
}

// Terminate flushes the recorded data and stops the monitoring server.
func (s *Simulation) Terminate() error {
	if s.monitor != nil {
		if err := s.monitor.StopServer(); err != nil {
			return err
		}
	}

	if s.dataRecorder != nil {
		return s.dataRecorder.Close()
	}

	return nil
}
