package hooked

import (
	"fmt"
	"runtime/debug"
)

// NotInExecutionContextError reports that an identity-dependent operation was
// invoked with no active managed invocation. This is a usage error: it is
// never retried or recovered internally.
type NotInExecutionContextError struct {
	Op string
}

func (e *NotInExecutionContextError) Error() string {
	return fmt.Sprintf("%s called outside a managed invocation", e.Op)
}

// HookOrderError reports call-position drift: the set or order of hook calls
// changed between invocations of the same identity. Hook calls for a given
// identity must occur in a stable, deterministic order; skipping a hook call
// based on runtime data is a programming error.
type HookOrderError struct {
	Identity Identity
	Position int
	Detail   string
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("hook order drift for identity %q at position %d: %s", e.Identity, e.Position, e.Detail)
}

// EffectError wraps a failure raised by an effect body. By the time it
// surfaces, the previous generation's cleanup has already run.
type EffectError struct {
	Identity   Identity
	Position   int
	Cause      error
	StackTrace []byte
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effect error at identity %q position %d: %v", e.Identity, e.Position, e.Cause)
}

func (e *EffectError) Unwrap() error {
	return e.Cause
}

func CreateEffectError(id Identity, pos int, cause error) *EffectError {
	return &EffectError{
		Identity:   id,
		Position:   pos,
		Cause:      cause,
		StackTrace: debug.Stack(),
	}
}

// CleanupError contains information about a cleanup failure. Cleanup
// failures never abort teardown of the remaining slots for an identity.
type CleanupError struct {
	Identity Identity
	Err      error
	Context  string // "replace", "invalidate" or "dispose"
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup error for identity %q during %s: %v", e.Identity, e.Context, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}
