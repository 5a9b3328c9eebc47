package blueprint

import "sync/atomic"

type counters struct {
	hits, misses, stale, errors atomic.Int64
	computed, coalesced         atomic.Int64
}

// CacheStats summarizes cache and generation activity since the Service started.
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Stale     int64 `json:"stale"`
	Errors    int64 `json:"errors"`
	Computed  int64 `json:"computed"`
	Coalesced int64 `json:"coalesced"`
}

// HitRate is hits over lookups, or 0 before the first lookup.
func (c CacheStats) HitRate() float64 {
	lookups := c.Hits + c.Misses + c.Stale + c.Errors
	if lookups == 0 {
		return 0
	}
	return float64(c.Hits) / float64(lookups)
}

// CacheStats returns a snapshot of the counters.
func (s *Service) CacheStats() CacheStats {
	return CacheStats{
		Hits:      s.stats.hits.Load(),
		Misses:    s.stats.misses.Load(),
		Stale:     s.stats.stale.Load(),
		Errors:    s.stats.errors.Load(),
		Computed:  s.stats.computed.Load(),
		Coalesced: s.stats.coalesced.Load(),
	}
}
