// Package hooked provides an identity-keyed hook runtime for Go: persistent
// state, conditional side effects and deterministic cleanup for units of
// code that an external reactive engine re-runs from scratch.
//
// # Overview
//
// Hooked organizes code around three core concepts:
//
//  1. Identities: opaque tokens naming a logical unit across repeated runs
//  2. Slots: persistent state cells keyed by (identity, call position)
//  3. Effects: side effects gated by dependency change, paired with cleanups
//
// The runtime does not decide when a unit runs. A re-execution engine
// supplies the identity, calls Invoke, and receives rerun requests back
// through an injected callback.
//
// # Basic Usage
//
// Create a runtime wired to your engine:
//
//	rt := hooked.NewRuntime(
//	    hooked.WithRerun(func(id hooked.Identity) { queue <- id }),
//	)
//	defer rt.Dispose()
//
// Run a unit under a stable identity; hooks keep their state between runs:
//
//	counter := func(ctx *hooked.HookCtx) error {
//	    count, setCount, err := hooked.UseState(ctx, 0)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println("count:", count)
//	    setCount(count + 1) // visible on the next invocation
//	    return nil
//	}
//
//	id := hooked.NewIdentity("counter")
//	rt.Invoke(id, counter)
//
// # Hook Ordering
//
// Slots are keyed by call order: the Nth hook call in one invocation maps
// to the Nth slot for that identity. Hook calls must therefore occur in the
// same order on every invocation; never call a hook conditionally. The
// WithStrictOrder option turns drift into a HookOrderError instead of
// silent slot misattribution.
//
// # Effects
//
//	err := hooked.UseEffect(ctx, func() (hooked.CleanupFunc, error) {
//	    watcher := startWatcher(path)
//	    return watcher.Stop, nil
//	}, []any{path})
//
// The body runs when the dependency list changed since the last invocation.
// The previous cleanup always runs before the next body, and the latest
// cleanup runs once on disposal. A nil dependency list means "run every
// invocation"; an empty one means "run once per identity generation".
//
// # Scope Virtualization
//
// WithDeps wraps a block of hooks under a synthetic identity that is
// regenerated when its own dependency list changes, remounting everything
// inside while the outer identity's slots survive:
//
//	err := hooked.WithDeps(ctx, []any{userID}, func() error {
//	    profile, err := hooked.UseMemo(ctx, loadProfile, nil)
//	    ...
//	})
//
// This is what lets hooks be composed out of other hooks without their
// internal state colliding.
//
// # Extensions
//
// Extensions intercept invoke, effect and invalidate operations in a
// middleware chain, and observe errors and cleanup failures. See the
// extensions subpackage for logging and slot-store debugging.
package hooked
