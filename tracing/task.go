package tracing

import "github.com/sarchlab/hddsim/sim"

// A TaskStep is something that happened while a task was served, such as a
// seek or a cache hit.
type TaskStep struct {
	Time sim.VTimeInSec `json:"time"`
	What string         `json:"what"`
}

// A Task is one request served by a device, from arrival to completion.
type Task struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	What      string         `json:"what"`
	Where     string         `json:"where"`
	StartTime sim.VTimeInSec `json:"start_time"`
	EndTime   sim.VTimeInSec `json:"end_time"`
	Steps     []TaskStep     `json:"steps"`

	// Detail is the device specific description of the request. It is only
	// set when the task starts.
	Detail any `json:"-"`
}

// TaskFilter selects the tasks a tracer accounts for.
type TaskFilter func(t Task) bool

// AllTasks is a TaskFilter that accepts every task.
func AllTasks(Task) bool {
	return true
}
