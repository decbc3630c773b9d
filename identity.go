package hooked

import "github.com/rs/xid"

// Identity names a logical unit of execution across repeated invocations.
// Two invocations under the same identity are continuations of the same
// unit; a different identity is a fresh start. Identities are supplied by
// the re-execution engine, but may be overridden locally (see WithIdentity
// and WithDeps).
type Identity string

// NewIdentity mints a unique identity with the given prefix. Engines that
// already have stable per-unit tokens can use those directly instead.
func NewIdentity(prefix string) Identity {
	if prefix == "" {
		prefix = "unit"
	}
	return Identity(prefix + "/" + xid.New().String())
}

// WithIdentity runs body with ctx reporting id as the current identity,
// restoring the previous identity on every exit path. Overrides nest; the
// innermost active override wins.
//
// An identity should appear in at most one override frame per invocation:
// the call-position cursor restarts at zero for each frame, so entering the
// same identity twice would alias its slots.
func WithIdentity(ctx *HookCtx, id Identity, body func() error) error {
	if err := ctx.check("with-identity"); err != nil {
		return err
	}
	ctx.push(id)
	defer ctx.pop()
	return body()
}
