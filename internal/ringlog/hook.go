package ringlog

// EvictionHook observes records dropped to make room for new appends.
// OnEvict receives the evicted sequence range, inclusive. It runs on the
// append path outside the arena lock; implementations must be fast and must
// not call back into the Log.
type EvictionHook interface {
	OnEvict(minSeq, maxSeq uint64)
}

// NopHook ignores evictions.
type NopHook struct{}

// OnEvict does nothing.
func (NopHook) OnEvict(uint64, uint64) {}
