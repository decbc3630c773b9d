package hooked

// frame tracks one identity scope during an invocation: the identity in
// effect and the next call position within it.
type frame struct {
	id  Identity
	pos int
}

// HookCtx is the handle a unit of code uses to reach the runtime during one
// managed invocation. It carries the identity override stack and the
// per-frame call-position cursor. A HookCtx is only valid for the duration
// of the Invoke call that produced it; holding it past that point and
// calling hooks through it fails with NotInExecutionContextError.
type HookCtx struct {
	rt       *Runtime
	frames   []frame
	done     bool
	inert    bool
	orderErr error
}

// Identity reports the identity currently in effect, honoring overrides.
// An inert ctx reports the empty identity.
func (c *HookCtx) Identity() (Identity, error) {
	if err := c.check("identity"); err != nil {
		return "", err
	}
	if len(c.frames) == 0 {
		return "", nil
	}
	return c.top().id, nil
}

// Runtime returns the runtime that produced this ctx. Nil for an inert ctx.
func (c *HookCtx) Runtime() *Runtime {
	return c.rt
}

func (c *HookCtx) check(op string) error {
	if c == nil || c.done {
		return &NotInExecutionContextError{Op: op}
	}
	if !c.inert && len(c.frames) == 0 {
		return &NotInExecutionContextError{Op: op}
	}
	return nil
}

func (c *HookCtx) top() *frame {
	return &c.frames[len(c.frames)-1]
}

func (c *HookCtx) push(id Identity) {
	c.frames = append(c.frames, frame{id: id})
}

func (c *HookCtx) pop() {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	c.finishFrame(f)
}

// finishFrame runs the strict-order arity check for a completed frame. The
// first drift detected during an invocation is kept and surfaced by Invoke.
func (c *HookCtx) finishFrame(f frame) {
	if c.inert || c.rt == nil || !c.rt.strict {
		return
	}
	if err := c.rt.store.checkArity(f.id, f.pos); err != nil && c.orderErr == nil {
		c.orderErr = err
	}
}

// nextSlot allocates or retrieves the slot for the next call position in
// the current frame. For an inert ctx it returns a fresh throwaway slot.
func (c *HookCtx) nextSlot(kind string, init func() any) (*Slot, int, bool, error) {
	if err := c.check(kind); err != nil {
		return nil, 0, false, err
	}
	if init == nil {
		init = func() any { return nil }
	}
	if c.inert {
		return &Slot{value: init()}, 0, true, nil
	}
	f := c.top()
	pos := f.pos
	f.pos++
	slot, created, err := c.rt.store.getOrCreate(f.id, pos, kind, init)
	if err != nil {
		return nil, pos, false, err
	}
	return slot, pos, created, nil
}
