package hooked

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// RerunFunc requests an eventual re-invocation of a unit. It is supplied by
// the re-execution engine and is fire-and-forget; the engine may honor it
// asynchronously.
type RerunFunc func(Identity)

// CleanupRegistrar files a disposal callback for an identity with the
// re-execution engine. When configured, the runtime forwards each effect's
// cleanup cell to it in addition to its own registry, so an engine that
// tears units down on its own path still runs the latest cleanups. The
// cells are idempotent; running one from both paths is safe.
type CleanupRegistrar func(Identity, func() error)

type cleanupEntry struct {
	fn    func() error
	order int
}

// Runtime owns the slot store, the cleanup registry, the virtual-identity
// graph and the extension chain. Engine capabilities (rerun, cleanup
// registration) are injected at construction; there is no process-global
// state, so independent runtimes coexist freely.
type Runtime struct {
	mu         sync.RWMutex
	extensions []Extension

	store   *slotStore
	graph   *identityGraph
	journal *invocationJournal
	pools   *poolManager

	cleanupMu       sync.Mutex
	cleanupRegistry map[Identity][]cleanupEntry

	rerun     RerunFunc
	registrar CleanupRegistrar
	logger    *slog.Logger
	strict    bool

	seqCounter atomic.Uint64
}

// RuntimeOption is a modifier for runtimes
type RuntimeOption func(*Runtime)

// WithRerun injects the engine's "request rerun" operation. Without it,
// state setters still write their slot but rerun requests are dropped.
func WithRerun(fn RerunFunc) RuntimeOption {
	return func(rt *Runtime) {
		rt.rerun = fn
	}
}

// WithCleanupRegistrar injects the engine's cleanup registration channel.
func WithCleanupRegistrar(fn CleanupRegistrar) RuntimeOption {
	return func(rt *Runtime) {
		rt.registrar = fn
	}
}

// WithLogger sets the logger used for unhandled cleanup failures.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithStrictOrder enables call-position drift detection: an invocation that
// makes fewer hook calls than its identity has slots fails with a
// HookOrderError instead of silently misattributing slots later.
func WithStrictOrder() RuntimeOption {
	return func(rt *Runtime) {
		rt.strict = true
	}
}

// WithExtension returns an option that registers an extension to a runtime
func WithExtension(ext Extension) RuntimeOption {
	return func(rt *Runtime) {
		if err := rt.UseExtension(ext); err != nil {
			panic(err)
		}
	}
}

// NewRuntime creates a new runtime with optional configuration
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		extensions:      []Extension{},
		store:           newSlotStore(),
		graph:           newIdentityGraph(),
		journal:         newInvocationJournal(1000),
		pools:           newPoolManager(),
		cleanupRegistry: make(map[Identity][]cleanupEntry),
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Invoke runs one managed invocation of unit under id. All hook calls made
// through the supplied ctx execute synchronously in call order. The runtime
// assumes at most one in-flight invocation per identity; invocations of
// distinct identities may run concurrently.
func (rt *Runtime) Invoke(id Identity, unit func(*HookCtx) error) error {
	ctx := &HookCtx{
		rt:     rt,
		frames: rt.pools.acquireFrames(),
	}
	ctx.push(id)

	op := &Operation{Kind: OpInvoke, Identity: id, Runtime: rt}
	exts := rt.snapshotExtensions()

	start := time.Now()

	next := func() (any, error) {
		return nil, unit(ctx)
	}

	// Apply extensions in reverse order (last registered wraps first)
	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}

	_, err := next()

	root := ctx.frames[0]
	ctx.done = true
	ctx.finishFrame(root)

	frames := ctx.frames
	ctx.frames = nil
	rt.pools.releaseFrames(frames)

	if err == nil {
		err = ctx.orderErr
	}
	if err != nil {
		for _, ext := range exts {
			ext.OnError(err, op, rt)
		}
	}

	rt.journal.add(InvocationRecord{
		Seq:      rt.seqCounter.Add(1),
		Identity: id,
		Start:    start,
		Duration: time.Since(start),
		Slots:    root.pos,
		Err:      err,
	})

	return err
}

// Invalidate discards every slot for id and its virtual descendants,
// running the registered cleanups first, innermost scopes before outer
// ones. The next invocation under id starts from scratch.
func (rt *Runtime) Invalidate(id Identity) {
	op := &Operation{Kind: OpInvalidate, Identity: id, Runtime: rt}
	exts := rt.snapshotExtensions()

	next := func() (any, error) {
		rt.invalidate(id)
		return nil, nil
	}

	for i := len(exts) - 1; i >= 0; i-- {
		ext := exts[i]
		currentNext := next
		next = func() (any, error) {
			return ext.Wrap(currentNext, op)
		}
	}

	_, _ = next()
}

func (rt *Runtime) invalidate(id Identity) {
	descendants := rt.graph.descendants(id)
	for i := len(descendants) - 1; i >= 0; i-- {
		rt.teardown(descendants[i], "invalidate")
	}
	rt.teardown(id, "invalidate")
	rt.graph.remove(id)
}

func (rt *Runtime) teardown(id Identity, cleanupContext string) {
	rt.cleanupMu.Lock()
	entries := rt.cleanupRegistry[id]
	delete(rt.cleanupRegistry, id)
	rt.cleanupMu.Unlock()

	rt.runCleanups(id, entries, cleanupContext)
	rt.pools.releaseCleanups(entries)
	rt.store.drop(id)
}

// runCleanups runs entries in LIFO order. Failures are offered to the
// extensions and otherwise logged; they never abort the remaining entries.
func (rt *Runtime) runCleanups(id Identity, entries []cleanupEntry, cleanupContext string) {
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]

		if err := entry.fn(); err != nil {
			rt.reportCleanupError(&CleanupError{
				Identity: id,
				Err:      err,
				Context:  cleanupContext,
			})
		}
	}
}

func (rt *Runtime) reportCleanupError(cleanupErr *CleanupError) {
	for _, ext := range rt.snapshotExtensions() {
		if ext.OnCleanupError(cleanupErr) {
			return
		}
	}
	rt.logger.Error("cleanup failed",
		"identity", string(cleanupErr.Identity),
		"context", cleanupErr.Context,
		"error", cleanupErr.Err,
	)
}

// Dispose tears down the runtime: every outstanding cleanup runs, all slots
// are discarded, and the extensions are disposed.
func (rt *Runtime) Dispose() error {
	rt.cleanupMu.Lock()
	allEntries := make([]struct {
		id      Identity
		entries []cleanupEntry
	}, 0, len(rt.cleanupRegistry))

	for id, entries := range rt.cleanupRegistry {
		allEntries = append(allEntries, struct {
			id      Identity
			entries []cleanupEntry
		}{id, entries})
	}
	rt.cleanupRegistry = make(map[Identity][]cleanupEntry)
	rt.cleanupMu.Unlock()

	for i := len(allEntries) - 1; i >= 0; i-- {
		rt.runCleanups(allEntries[i].id, allEntries[i].entries, "dispose")
		rt.pools.releaseCleanups(allEntries[i].entries)
	}

	rt.store.clear()
	rt.graph.clear()

	for _, ext := range rt.snapshotExtensions() {
		if err := ext.Dispose(rt); err != nil {
			return fmt.Errorf("disposing extension %s: %w", ext.Name(), err)
		}
	}

	return nil
}

// UseExtension registers an extension to the runtime
func (rt *Runtime) UseExtension(ext Extension) error {
	rt.mu.Lock()
	rt.extensions = append(rt.extensions, ext)
	sort.Slice(rt.extensions, func(i, j int) bool {
		return rt.extensions[i].Order() < rt.extensions[j].Order()
	})
	rt.mu.Unlock()

	return ext.Init(rt)
}

func (rt *Runtime) snapshotExtensions() []Extension {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	exts := make([]Extension, len(rt.extensions))
	copy(exts, rt.extensions)
	return exts
}

// registerCleanup files fn under id, once per effect slot. The entry is
// kept in the runtime's own registry and forwarded to the engine's channel
// when one is configured.
func (rt *Runtime) registerCleanup(id Identity, fn func() error) {
	rt.cleanupMu.Lock()
	entries := rt.cleanupRegistry[id]
	if entries == nil {
		entries = rt.pools.acquireCleanups()
	}
	rt.cleanupRegistry[id] = append(entries, cleanupEntry{fn: fn, order: len(entries)})
	rt.cleanupMu.Unlock()

	if rt.registrar != nil {
		rt.registrar(id, fn)
	}
}

func (rt *Runtime) requestRerun(id Identity) {
	if rt.rerun != nil {
		rt.rerun(id)
	}
}

// Snapshot reports the identities currently holding slots and the hook
// kinds of their slots in call order. Intended for diagnostics; call it
// while no invocation is in flight for the identities of interest.
func (rt *Runtime) Snapshot() map[Identity][]string {
	return rt.store.snapshot()
}

// Journal returns a copy of the recent invocation history.
func (rt *Runtime) Journal() []InvocationRecord {
	return rt.journal.all()
}

// JournalFor returns the recent invocation records for one identity.
func (rt *Runtime) JournalFor(id Identity) []InvocationRecord {
	return rt.journal.filter(func(rec InvocationRecord) bool {
		return rec.Identity == id
	})
}

// PoolStats returns a snapshot of the scratch-structure pool counters.
func (rt *Runtime) PoolStats() PoolStats {
	return rt.pools.stats()
}
