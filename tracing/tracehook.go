package tracing

import (
	"fmt"

	"github.com/sarchlab/hddsim/sim"
)

// CollectTrace attaches tracer to domain. Attaching the same tracer to a
// domain twice panics, since every task would be reported twice.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	if hasTracer(domain, tracer) {
		panic(fmt.Sprintf("tracer %T is already attached to %s",
			tracer, domain.Name()))
	}

	domain.AcceptHook(&tracerHook{tracer: tracer})
}

func hasTracer(domain sim.Hookable, tracer Tracer) bool {
	for _, h := range domain.Hooks() {
		if th, ok := h.(*tracerHook); ok && th.tracer == tracer {
			return true
		}
	}

	return false
}

// tracerHook forwards the task positions of a domain to a tracer. Other
// hook positions are ignored.
type tracerHook struct {
	tracer Tracer
}

func (h *tracerHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(task)
	case HookPosTaskStep:
		h.tracer.StepTask(task)
	case HookPosTaskEnd:
		h.tracer.EndTask(task)
	}
}
