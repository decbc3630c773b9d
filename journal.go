package hooked

import (
	"sync"
	"time"
)

// InvocationRecord describes one completed invocation.
type InvocationRecord struct {
	Seq      uint64
	Identity Identity
	Start    time.Time
	Duration time.Duration
	Slots    int
	Err      error
}

// invocationJournal keeps a bounded history of recent invocations, oldest
// evicted first.
type invocationJournal struct {
	mu      sync.RWMutex
	records []InvocationRecord
	limit   int
}

func newInvocationJournal(limit int) *invocationJournal {
	return &invocationJournal{
		records: make([]InvocationRecord, 0, 64),
		limit:   limit,
	}
}

func (j *invocationJournal) add(rec InvocationRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.limit > 0 && len(j.records) >= j.limit {
		n := copy(j.records, j.records[1:])
		j.records = j.records[:n]
	}
	j.records = append(j.records, rec)
}

func (j *invocationJournal) all() []InvocationRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]InvocationRecord, len(j.records))
	copy(out, j.records)
	return out
}

func (j *invocationJournal) filter(predicate func(InvocationRecord) bool) []InvocationRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var result []InvocationRecord
	for _, rec := range j.records {
		if predicate(rec) {
			result = append(result, rec)
		}
	}
	return result
}
