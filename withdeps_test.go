package hooked

import "testing"

func TestWithDeps_SiblingIsolation(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	initsX, initsY := 0, 0
	run := func(x, y int) {
		err := rt.Invoke(id, func(ctx *HookCtx) error {
			if err := WithDeps(ctx, []any{x}, func() error {
				_, err := UseSlot(ctx, func() any {
					initsX++
					return nil
				})
				return err
			}); err != nil {
				return err
			}
			return WithDeps(ctx, []any{y}, func() error {
				_, err := UseSlot(ctx, func() any {
					initsY++
					return nil
				})
				return err
			})
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	run(1, 1)
	if initsX != 1 || initsY != 1 {
		t.Fatalf("expected one init each, got x=%d y=%d", initsX, initsY)
	}

	run(2, 1) // only x changed
	if initsX != 2 {
		t.Errorf("expected the x block to remount, got %d inits", initsX)
	}
	if initsY != 1 {
		t.Errorf("expected the y block to keep its slots, got %d inits", initsY)
	}

	run(2, 9) // only y changed
	if initsX != 2 || initsY != 2 {
		t.Errorf("expected only the y block to remount, got x=%d y=%d", initsX, initsY)
	}
}

func TestWithDeps_OuterSlotsUntouched(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	run := func(x int) int {
		var got int
		err := rt.Invoke(id, func(ctx *HookCtx) error {
			ref, err := UseRef(ctx, 0)
			if err != nil {
				return err
			}
			ref.Set(ref.Get() + 1)
			got = ref.Get()
			return WithDeps(ctx, []any{x}, func() error {
				_, err := UseRef(ctx, 0)
				return err
			})
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return got
	}

	run(1)
	run(2)
	if got := run(3); got != 3 {
		t.Errorf("expected the outer slot to survive inner remounts, got %d", got)
	}
}

func TestWithDeps_RegenerationDisposesPreviousGeneration(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	log := []string{}
	run := func(x int) {
		err := rt.Invoke(id, func(ctx *HookCtx) error {
			return WithDeps(ctx, []any{x}, func() error {
				return UseEffect(ctx, func() (CleanupFunc, error) {
					log = append(log, "mount")
					return func() error {
						log = append(log, "unmount")
						return nil
					}, nil
				}, []any{})
			})
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	run(1)
	run(1)
	assertLog(t, log, []string{"mount"})

	run(2)
	assertLog(t, log, []string{"mount", "unmount", "mount"})
}

func TestWithDeps_NestedScopesTearDownWithParent(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	log := []string{}
	run := func(outer, inner int) {
		err := rt.Invoke(id, func(ctx *HookCtx) error {
			return WithDeps(ctx, []any{outer}, func() error {
				return WithDeps(ctx, []any{inner}, func() error {
					return UseEffect(ctx, func() (CleanupFunc, error) {
						log = append(log, "mount")
						return func() error {
							log = append(log, "unmount")
							return nil
						}, nil
					}, []any{})
				})
			})
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	run(1, 1)
	assertLog(t, log, []string{"mount"})

	// regenerating the outer scope must dispose the nested generation too
	run(2, 1)
	assertLog(t, log, []string{"mount", "unmount", "mount"})
}

func TestWithDeps_IdentityOverrideVisible(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	var outer, inner Identity
	err := rt.Invoke(id, func(ctx *HookCtx) error {
		var err error
		outer, err = ctx.Identity()
		if err != nil {
			return err
		}
		return WithDeps(ctx, []any{1}, func() error {
			inner, err = ctx.Identity()
			return err
		})
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if outer != id {
		t.Errorf("expected outer identity %q, got %q", id, outer)
	}
	if inner == id || inner == "" {
		t.Errorf("expected a distinct synthetic identity inside the scope, got %q", inner)
	}

	// same deps, same generation on the next invocation
	var again Identity
	err = rt.Invoke(id, func(ctx *HookCtx) error {
		return WithDeps(ctx, []any{1}, func() error {
			var err error
			again, err = ctx.Identity()
			return err
		})
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again != inner {
		t.Errorf("expected the generation to be stable while deps are unchanged")
	}
}

func TestWithDeps_InvalidatingCallSiteDisposesGenerations(t *testing.T) {
	rt := NewRuntime()
	id := Identity("unit-a")

	cleanups := 0
	err := rt.Invoke(id, func(ctx *HookCtx) error {
		return WithDeps(ctx, []any{1}, func() error {
			return UseEffect(ctx, func() (CleanupFunc, error) {
				return func() error {
					cleanups++
					return nil
				}, nil
			}, []any{})
		})
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rt.Invalidate(id)
	if cleanups != 1 {
		t.Errorf("expected the virtual generation's cleanup to run, got %d", cleanups)
	}
	if len(rt.Snapshot()) != 0 {
		t.Errorf("expected all slots gone, got %v", rt.Snapshot())
	}
}
