package hooked

// scopeCell backs one WithDeps call: the dependency record plus the
// synthetic identity generation currently in effect.
type scopeCell struct {
	rec depsRecord
	gen Identity
}

// WithDeps runs body under a synthetic identity that is regenerated
// whenever deps change. Because every slot is keyed by identity,
// regeneration abandons all slots created inside body and disposes the
// previous generation first (running its cleanups, innermost scopes before
// outer ones), while the enclosing identity's own slots stay untouched.
//
// This is the composability primitive: a hook built out of other hooks can
// give its internals a mount/unmount lifecycle keyed to its own dependency
// list instead of the call site's re-execution identity. Sibling WithDeps
// blocks hold independent generations and reset independently.
func WithDeps(ctx *HookCtx, deps []any, body func() error) error {
	if err := ctx.check("with-deps"); err != nil {
		return err
	}
	if ctx.inert {
		return body()
	}

	id := ctx.top().id
	slot, _, _, err := ctx.nextSlot("scope", func() any {
		return &scopeCell{}
	})
	if err != nil {
		return err
	}
	cell := slot.Get().(*scopeCell)

	rt := ctx.rt
	if cell.rec.changed(id, deps) {
		if cell.gen != "" {
			rt.Invalidate(cell.gen)
		}
		cell.gen = NewIdentity("scope")
		rt.graph.addChild(id, cell.gen)
	}

	ctx.push(cell.gen)
	defer ctx.pop()
	return body()
}
