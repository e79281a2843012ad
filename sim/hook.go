package sim

// HookPos names a site at which a Hookable invokes its hooks.
type HookPos struct {
	Name string
}

// HookCtx describes one invocation of the hooks of a Hookable.
type HookCtx struct {
	// Domain is the object that invokes the hook.
	Domain Hookable

	// Pos is the site of the invocation.
	Pos *HookPos

	// Item is what the site reports, for example a tracing task.
	Item any
}

// Hook is a piece of code that runs whenever the Hookable it is attached to
// reaches a hook position.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is an object that hooks can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// HookableBase keeps the hooks of a Hookable. Devices embed it.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase returns a HookableBase without hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook attaches a hook. Hooks run in the order they are attached.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks are attached. Devices check it to skip
// building hook contexts nobody would see.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns the attached hooks.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// InvokeHook runs every attached hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
