package hooked

import "testing"

// End-to-end scenarios driving the runtime the way a re-execution engine
// would: a queue of rerun requests drained between invocations.

type testEngine struct {
	rt      *Runtime
	pending []Identity
}

func newTestEngine(opts ...RuntimeOption) *testEngine {
	e := &testEngine{}
	opts = append(opts, WithRerun(func(id Identity) {
		e.pending = append(e.pending, id)
	}))
	e.rt = NewRuntime(opts...)
	return e
}

// drain re-invokes until no rerun requests remain.
func (e *testEngine) drain(t *testing.T, unit func(*HookCtx) error, limit int) {
	t.Helper()

	for i := 0; len(e.pending) > 0; i++ {
		if i >= limit {
			t.Fatalf("rerun queue did not settle within %d rounds", limit)
		}
		id := e.pending[0]
		e.pending = e.pending[1:]
		if err := e.rt.Invoke(id, unit); err != nil {
			t.Fatalf("rerun of %s: %v", id, err)
		}
	}
}

func TestScenario_CounterSettles(t *testing.T) {
	engine := newTestEngine()

	renders := []int{}
	counter := func(ctx *HookCtx) error {
		count, setCount, err := UseState(ctx, 0)
		if err != nil {
			return err
		}
		renders = append(renders, count)
		if count < 3 {
			setCount(count + 1)
		}
		return nil
	}

	id := Identity("counter")
	if err := engine.rt.Invoke(id, counter); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	engine.drain(t, counter, 10)

	if len(renders) != 4 {
		t.Fatalf("expected 4 renders, got %v", renders)
	}
	for i, v := range []int{0, 1, 2, 3} {
		if renders[i] != v {
			t.Errorf("render %d: expected %d, got %d", i, v, renders[i])
		}
	}
}

func TestScenario_EffectLog(t *testing.T) {
	rt := NewRuntime()
	id := Identity("A")

	log := []string{}
	unit := func(dep int) func(*HookCtx) error {
		return func(ctx *HookCtx) error {
			return UseEffect(ctx, func() (CleanupFunc, error) {
				log = append(log, "run")
				return func() error {
					log = append(log, "cleanup")
					return nil
				}, nil
			}, []any{dep})
		}
	}

	// invoke twice with deps [1], then once with [2]
	if err := rt.Invoke(id, unit(1)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := rt.Invoke(id, unit(1)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := rt.Invoke(id, unit(2)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	assertLog(t, log, []string{"run", "cleanup", "run"})
}

func TestScenario_ComposedHook(t *testing.T) {
	rt := NewRuntime()
	id := Identity("view")

	// a hook built out of other hooks: its internals remount on its own
	// dependency list, not on the call site's identity
	mounts := 0
	useSession := func(ctx *HookCtx, userID string) (string, error) {
		var token string
		err := WithDeps(ctx, []any{userID}, func() error {
			memo, err := UseMemo(ctx, func() (string, error) {
				mounts++
				return "session-" + userID, nil
			}, []any{})
			token = memo
			return err
		})
		return token, err
	}

	run := func(userID string) string {
		var got string
		err := rt.Invoke(id, func(ctx *HookCtx) error {
			// unrelated state at the call site survives session remounts
			ref, err := UseRef(ctx, "outer")
			if err != nil {
				return err
			}
			_ = ref
			got, err = useSession(ctx, userID)
			return err
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		return got
	}

	if got := run("alice"); got != "session-alice" {
		t.Fatalf("expected session-alice, got %q", got)
	}
	run("alice")
	if mounts != 1 {
		t.Errorf("expected a single mount while the user is stable, got %d", mounts)
	}

	if got := run("bob"); got != "session-bob" {
		t.Fatalf("expected session-bob, got %q", got)
	}
	if mounts != 2 {
		t.Errorf("expected a remount after the user changed, got %d", mounts)
	}
}
