package hooked

import "reflect"

type unavailableMarker struct{}

func (unavailableMarker) String() string {
	return "<unavailable>"
}

// Unavailable marks a dependency value that could not be produced at
// comparison time. Policy: an unavailable value always compares as changed,
// on both sides of the comparison. The comparator never suspends on it.
var Unavailable = unavailableMarker{}

// depsRecord remembers the last dependency list seen by one hook call and
// the identity under which it was recorded.
type depsRecord struct {
	recorded bool
	deps     []any
	identity Identity
}

// changed reports whether deps differ from the record, updating the record
// whenever it reports true.
//
// A nil deps list is the "no dependency list" sentinel and always reports
// changed. An empty non-nil list reports changed only on the first call or
// when the identity differs from the recorded one. Elements compare by
// value equality.
func (r *depsRecord) changed(id Identity, deps []any) bool {
	if !r.recorded {
		r.recorded = true
		r.deps = cloneDeps(deps)
		r.identity = id
		return true
	}
	if deps == nil {
		r.deps = nil
		r.identity = id
		return true
	}
	if id == r.identity && depsEqual(r.deps, deps) {
		return false
	}
	r.deps = cloneDeps(deps)
	r.identity = id
	return true
}

func depsEqual(prev, next []any) bool {
	if prev == nil || len(prev) != len(next) {
		return false
	}
	for i := range next {
		if _, ok := prev[i].(unavailableMarker); ok {
			return false
		}
		if _, ok := next[i].(unavailableMarker); ok {
			return false
		}
		if !reflect.DeepEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// cloneDeps copies the list so the record owns it even if the caller reuses
// the backing slice.
func cloneDeps(deps []any) []any {
	if deps == nil {
		return nil
	}
	out := make([]any, len(deps))
	copy(out, deps)
	return out
}
