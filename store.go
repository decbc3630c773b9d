package hooked

import (
	"fmt"
	"sync"
)

// Slot is a single persistent state cell keyed by (identity, call position).
// The slot store owns every slot; a hook call reaches its slot through the
// handle returned for the current invocation and must re-fetch it on the
// next one. A slot persists unchanged across invocations with the same
// identity until that identity is invalidated.
type Slot struct {
	value any
}

// Get returns the stored value.
func (s *Slot) Get() any {
	return s.value
}

// Set overwrites the stored value. The write is immediate: later reads in
// the same invocation observe it.
func (s *Slot) Set(v any) {
	s.value = v
}

type slotRecord struct {
	slot *Slot
	kind string
}

type unitSlots struct {
	records []slotRecord
}

// slotStore owns all slots, partitioned by identity. The partition map is
// synchronized so invocations of distinct identities can run concurrently;
// the slots of one identity are only ever touched by the at-most-one
// in-flight invocation for that identity.
type slotStore struct {
	mu    sync.RWMutex
	units map[Identity]*unitSlots
}

func newSlotStore() *slotStore {
	return &slotStore{
		units: make(map[Identity]*unitSlots),
	}
}

// getOrCreate returns the slot for (id, pos), calling init exactly once on
// first access. pos is the call-order cursor: the Nth hook call within one
// invocation of one identity maps to the Nth slot for that identity. A kind
// mismatch at a known position means the call order drifted and is reported
// immediately.
func (st *slotStore) getOrCreate(id Identity, pos int, kind string, init func() any) (*Slot, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	unit := st.units[id]
	if unit == nil {
		unit = &unitSlots{}
		st.units[id] = unit
	}

	if pos < len(unit.records) {
		rec := unit.records[pos]
		if rec.kind != kind {
			return nil, false, &HookOrderError{
				Identity: id,
				Position: pos,
				Detail:   fmt.Sprintf("slot holds a %s hook, call was %s", rec.kind, kind),
			}
		}
		return rec.slot, false, nil
	}

	slot := &Slot{value: init()}
	unit.records = append(unit.records, slotRecord{slot: slot, kind: kind})
	return slot, true, nil
}

// checkArity flags an invocation that made fewer hook calls than the
// identity has recorded slots.
func (st *slotStore) checkArity(id Identity, calls int) error {
	st.mu.RLock()
	defer st.mu.RUnlock()

	unit := st.units[id]
	if unit == nil || calls >= len(unit.records) {
		return nil
	}
	return &HookOrderError{
		Identity: id,
		Position: calls,
		Detail:   fmt.Sprintf("invocation made %d hook calls, identity has %d slots", calls, len(unit.records)),
	}
}

// drop discards every slot for an identity. The next access for that
// identity re-initializes from scratch.
func (st *slotStore) drop(id Identity) {
	st.mu.Lock()
	delete(st.units, id)
	st.mu.Unlock()
}

func (st *slotStore) clear() {
	st.mu.Lock()
	st.units = make(map[Identity]*unitSlots)
	st.mu.Unlock()
}

// snapshot reports the identities currently holding slots and the hook
// kinds of their slots in call order. Diagnostics only.
func (st *slotStore) snapshot() map[Identity][]string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make(map[Identity][]string, len(st.units))
	for id, unit := range st.units {
		kinds := make([]string, len(unit.records))
		for i, rec := range unit.records {
			kinds[i] = rec.kind
		}
		out[id] = kinds
	}
	return out
}
