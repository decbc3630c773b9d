package hooked

// NewInertCtx returns a ctx for running hook-bearing code outside any
// managed invocation. This is the explicit non-reactive fallback: slots are
// per-call throwaways, state setters are no-ops, effects do not run, memo
// computes on every call. Nothing degrades to this mode silently; only a
// ctx obtained here behaves this way.
func NewInertCtx() *HookCtx {
	return &HookCtx{inert: true}
}
