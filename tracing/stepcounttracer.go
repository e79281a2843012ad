package tracing

import (
	"sync"
)

// StepCountTracer counts the steps of the tasks accepted by its filter. A
// step is counted every time it is reported. A task is counted once per step
// name, however often it reports that step.
type StepCountTracer struct {
	filter TaskFilter

	lock      sync.Mutex
	inflight  map[string]map[string]bool
	names     []string
	steps     map[string]uint64
	tasksWith map[string]uint64
}

// NewStepCountTracer creates a StepCountTracer.
func NewStepCountTracer(filter TaskFilter) *StepCountTracer {
	return &StepCountTracer{
		filter:    filter,
		inflight:  make(map[string]map[string]bool),
		steps:     make(map[string]uint64),
		tasksWith: make(map[string]uint64),
	}
}

// StepNames returns the step names seen so far, in order of first
// appearance.
func (t *StepCountTracer) StepNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.names...)
}

// StepCount returns how many times a step has been reported.
func (t *StepCountTracer) StepCount(name string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.steps[name]
}

// TaskCount returns how many tasks have reported a step at least once.
func (t *StepCountTracer) TaskCount(name string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.tasksWith[name]
}

func (t *StepCountTracer) StartTask(task Task) {
	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflight[task.ID] = make(map[string]bool)
	t.lock.Unlock()
}

func (t *StepCountTracer) StepTask(task Task) {
	t.lock.Lock()
	defer t.lock.Unlock()

	seen, ok := t.inflight[task.ID]
	if !ok {
		return
	}

	for _, step := range task.Steps {
		if _, known := t.steps[step.What]; !known {
			t.names = append(t.names, step.What)
		}

		t.steps[step.What]++

		if !seen[step.What] {
			seen[step.What] = true
			t.tasksWith[step.What]++
		}
	}
}

func (t *StepCountTracer) EndTask(task Task) {
	t.lock.Lock()
	delete(t.inflight, task.ID)
	t.lock.Unlock()
}
