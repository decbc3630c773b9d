package hooked

import "sync"

// poolManager pools per-invocation scratch structures: identity frame
// stacks and cleanup-entry slices.
type poolManager struct {
	framePool   sync.Pool
	cleanupPool sync.Pool

	metrics poolMetrics
}

type poolMetrics struct {
	mu            sync.RWMutex
	frameHits     uint64
	frameMisses   uint64
	cleanupHits   uint64
	cleanupMisses uint64
}

// PoolStats is a snapshot of pool efficiency counters.
type PoolStats struct {
	FrameHits     uint64
	FrameMisses   uint64
	CleanupHits   uint64
	CleanupMisses uint64
}

func newPoolManager() *poolManager {
	return &poolManager{}
}

func (pm *poolManager) acquireFrames() []frame {
	if v := pm.framePool.Get(); v != nil {
		pm.metrics.mu.Lock()
		pm.metrics.frameHits++
		pm.metrics.mu.Unlock()

		frames := v.([]frame)
		return frames[:0]
	}

	pm.metrics.mu.Lock()
	pm.metrics.frameMisses++
	pm.metrics.mu.Unlock()

	return make([]frame, 0, 8)
}

func (pm *poolManager) releaseFrames(frames []frame) {
	if frames == nil {
		return
	}
	pm.framePool.Put(frames[:0])
}

func (pm *poolManager) acquireCleanups() []cleanupEntry {
	if v := pm.cleanupPool.Get(); v != nil {
		pm.metrics.mu.Lock()
		pm.metrics.cleanupHits++
		pm.metrics.mu.Unlock()

		entries := v.([]cleanupEntry)
		return entries[:0]
	}

	pm.metrics.mu.Lock()
	pm.metrics.cleanupMisses++
	pm.metrics.mu.Unlock()

	return make([]cleanupEntry, 0, 8)
}

func (pm *poolManager) releaseCleanups(entries []cleanupEntry) {
	if entries == nil {
		return
	}
	for i := range entries {
		entries[i].fn = nil
	}
	pm.cleanupPool.Put(entries[:0])
}

func (pm *poolManager) stats() PoolStats {
	pm.metrics.mu.RLock()
	defer pm.metrics.mu.RUnlock()

	return PoolStats{
		FrameHits:     pm.metrics.frameHits,
		FrameMisses:   pm.metrics.frameMisses,
		CleanupHits:   pm.metrics.cleanupHits,
		CleanupMisses: pm.metrics.cleanupMisses,
	}
}
