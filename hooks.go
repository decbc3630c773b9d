package hooked

// UseSlot returns the persistent slot for the current call position,
// initializing it with init on first access under the identity in effect.
// This is the raw storage primitive the typed hooks are built on.
func UseSlot(ctx *HookCtx, init func() any) (*Slot, error) {
	slot, _, _, err := ctx.nextSlot("slot", init)
	return slot, err
}

// UseChanged reports whether deps changed since the previous invocation,
// using a dedicated slot for this call position. See depsRecord for the
// nil/empty list semantics.
func UseChanged(ctx *HookCtx, deps []any) (bool, error) {
	if err := ctx.check("use-changed"); err != nil {
		return false, err
	}
	if ctx.inert {
		return true, nil
	}

	id := ctx.top().id
	slot, _, _, err := ctx.nextSlot("changed", func() any {
		return &depsRecord{}
	})
	if err != nil {
		return false, err
	}
	rec := slot.Get().(*depsRecord)
	return rec.changed(id, deps), nil
}

// Ref is a typed handle over a persistent slot. The handle itself is only
// valid within the invocation that produced it; the slot behind it persists.
type Ref[T any] struct {
	slot *Slot
}

// Get returns the current slot value.
func (r *Ref[T]) Get() T {
	v, _ := r.slot.Get().(T)
	return v
}

// Set overwrites the slot value, visible to later reads in the same
// invocation and to all following invocations of the same identity.
func (r *Ref[T]) Set(v T) {
	r.slot.Set(v)
}

// UseRef returns a mutable reference cell initialized with init on the
// first invocation for the identity in effect. Re-invocations with the same
// identity see the last written value; the initializer is ignored after the
// first run.
func UseRef[T any](ctx *HookCtx, init T) (*Ref[T], error) {
	slot, _, _, err := ctx.nextSlot("ref", func() any {
		return init
	})
	if err != nil {
		return nil, err
	}
	return &Ref[T]{slot: slot}, nil
}

// UseState returns the slot value as of the start of this hook call and a
// setter. The setter writes the slot and asks the engine for a rerun; the
// value already returned does not change, the next invocation observes the
// write. On an inert ctx the setter is a no-op.
func UseState[T any](ctx *HookCtx, init T) (T, func(T), error) {
	var zero T
	if err := ctx.check("use-state"); err != nil {
		return zero, nil, err
	}
	if ctx.inert {
		return init, func(T) {}, nil
	}

	id := ctx.top().id
	slot, _, _, err := ctx.nextSlot("state", func() any {
		return init
	})
	if err != nil {
		return zero, nil, err
	}

	val, _ := slot.Get().(T)
	rt := ctx.rt
	set := func(v T) {
		slot.Set(v)
		rt.requestRerun(id)
	}
	return val, set, nil
}

type memoCell struct {
	rec   depsRecord
	value any
}

// UseMemo returns the last value computed by compute, recomputing only when
// deps changed. The dependency record is updated before compute runs; an
// error from compute surfaces without rolling the record back.
func UseMemo[T any](ctx *HookCtx, compute func() (T, error), deps []any) (T, error) {
	var zero T
	if err := ctx.check("use-memo"); err != nil {
		return zero, err
	}
	if ctx.inert {
		return compute()
	}

	id := ctx.top().id
	slot, _, _, err := ctx.nextSlot("memo", func() any {
		return &memoCell{}
	})
	if err != nil {
		return zero, err
	}
	cell := slot.Get().(*memoCell)

	if cell.rec.changed(id, deps) {
		v, computeErr := compute()
		if computeErr != nil {
			return zero, computeErr
		}
		cell.value = v
	}

	v, _ := cell.value.(T)
	return v, nil
}

type reducerCell struct {
	rec   depsRecord
	value any
}

// UseReducer holds a current value, replacing it with reduce(current) on
// every invocation whose deps changed. The first invocation counts as
// changed, so reduce is applied to init once up front.
func UseReducer[T any](ctx *HookCtx, reduce func(T) T, init T, deps []any) (T, error) {
	var zero T
	if err := ctx.check("use-reducer"); err != nil {
		return zero, err
	}
	if ctx.inert {
		return reduce(init), nil
	}

	id := ctx.top().id
	slot, _, _, err := ctx.nextSlot("reducer", func() any {
		return &reducerCell{value: init}
	})
	if err != nil {
		return zero, err
	}
	cell := slot.Get().(*reducerCell)

	if cell.rec.changed(id, deps) {
		cur, _ := cell.value.(T)
		cell.value = reduce(cur)
	}

	v, _ := cell.value.(T)
	return v, nil
}
