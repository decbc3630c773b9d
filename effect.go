package hooked

// CleanupFunc releases or cancels what an effect started. Cancellation is
// cooperative: the runtime calls it and trusts it to wind down whatever the
// effect spawned. It is never awaited by the core.
type CleanupFunc func() error

// EffectFunc is an effect body. A non-nil returned CleanupFunc becomes the
// effect's current cleanup, run before the next generation's body or on
// disposal. Returning nil resets the cleanup to a no-op.
type EffectFunc func() (CleanupFunc, error)

type effectState int

const (
	effectUninitialized effectState = iota
	effectActive
	effectDisposed
)

// effectCell is the per-effect-call slot payload: the dependency record,
// the lifecycle state and the mutable cleanup cell. The disposal channel
// closes over the cell, so it always runs the latest cleanup rather than
// whichever one existed at registration time.
type effectCell struct {
	rec     depsRecord
	state   effectState
	cleanup CleanupFunc
}

// flush runs the stored cleanup exactly once and clears it.
func (cell *effectCell) flush() error {
	fn := cell.cleanup
	cell.cleanup = nil
	if fn == nil {
		return nil
	}
	return fn()
}

// UseEffect runs fn when deps changed since the last invocation under the
// current identity. The previous generation's cleanup runs strictly before
// the new body; dependency bookkeeping is updated strictly before either,
// so a rerun triggered from inside the effect sees current state. An error
// from fn surfaces as *EffectError. With unchanged deps nothing happens and
// the prior cleanup stays installed.
func UseEffect(ctx *HookCtx, fn EffectFunc, deps []any) error {
	if err := ctx.check("use-effect"); err != nil {
		return err
	}
	if ctx.inert {
		return nil
	}

	id := ctx.top().id
	slot, pos, created, err := ctx.nextSlot("effect", func() any {
		return &effectCell{}
	})
	if err != nil {
		return err
	}
	cell := slot.Get().(*effectCell)

	rt := ctx.rt
	if created {
		// one registration per slot, not one per invocation
		rt.registerCleanup(id, func() error {
			flushErr := cell.flush()
			cell.state = effectDisposed
			return flushErr
		})
	}

	if !cell.rec.changed(id, deps) {
		return nil
	}

	if err := cell.flush(); err != nil {
		rt.reportCleanupError(&CleanupError{
			Identity: id,
			Err:      err,
			Context:  "replace",
		})
	}
	cell.state = effectActive

	op := &Operation{Kind: OpEffect, Identity: id, Position: pos, Runtime: rt}
	exts := rt.snapshotExtensions()

	next := func() (any, error) {
		cleanup, effectErr := fn()
		if effectErr != nil {
			return nil, effectErr
		}
		cell.cleanup = cleanup
		return nil, nil
	}

	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}

	if _, err := next(); err != nil {
		for _, ext := range exts {
			ext.OnError(err, op, rt)
		}
		return CreateEffectError(id, pos, err)
	}

	return nil
}
