// Package tracing reports the requests served by devices to tracers.
package tracing

import (
	"github.com/sarchlab/hddsim/sim"
)

// NamedHookable is a device that can report tasks.
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// The hook positions at which tasks are reported.
var (
	HookPosTaskStart = &sim.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &sim.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &sim.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask reports that domain starts serving a request at now. The ID,
// kind and what must not be empty, and the domain must be named.
func StartTask(
	id string,
	now sim.VTimeInSec,
	domain NamedHookable,
	kind string,
	what string,
	detail any,
) {
	if domain == nil {
		panic("domain must not be nil")
	}

	if domain.NumHooks() == 0 {
		return
	}

	switch {
	case id == "":
		panic("id must not be empty")
	case kind == "":
		panic("kind must not be empty")
	case what == "":
		panic("what must not be empty")
	case domain.Name() == "":
		panic("domain must have a name")
	}

	invoke(domain, HookPosTaskStart, Task{
		ID:        id,
		Kind:      kind,
		What:      what,
		Where:     domain.Name(),
		StartTime: now,
		Detail:    detail,
	})
}

// AddTaskStep reports that something happened while serving a task.
func AddTaskStep(
	id string,
	now sim.VTimeInSec,
	domain NamedHookable,
	what string,
) {
	invoke(domain, HookPosTaskStep, Task{
		ID:    id,
		Steps: []TaskStep{{Time: now, What: what}},
	})
}

// EndTask reports that a task completes at now.
func EndTask(id string, now sim.VTimeInSec, domain NamedHookable) {
	invoke(domain, HookPosTaskEnd, Task{ID: id, EndTime: now})
}

func invoke(domain NamedHookable, pos *sim.HookPos, task Task) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   task,
	})
}
