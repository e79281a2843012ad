package tracing

// A Tracer receives the tasks of the domains it is attached to with
// CollectTrace.
type Tracer interface {
	// StartTask receives a task with its identity, kind, location, start
	// time and detail.
	StartTask(task Task)

	// StepTask receives a task that carries only its ID and the new step.
	StepTask(task Task)

	// EndTask receives a task that carries only its ID and end time.
	EndTask(task Task)
}
