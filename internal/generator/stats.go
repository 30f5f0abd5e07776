package generator

import "sync"

// Statistics is a point-in-time snapshot of the aggregate counters.
// Derived fields are computed at snapshot time.
type Statistics struct {
	TotalGenerations      int     `json:"total_generations"`
	TotalCostUSD          float64 `json:"total_cost_usd"`
	CacheHits             int     `json:"cache_hits"`
	CacheMisses           int     `json:"cache_misses"`
	CacheHitRate          float64 `json:"cache_hit_rate"`
	TotalGenerationTime   float64 `json:"total_generation_time"`
	AverageGenerationTime float64 `json:"average_generation_time"`

	GenerationsByTemplate map[string]int     `json:"generations_by_template"`
	CostByTemplate        map[string]float64 `json:"cost_by_template"`
}

// stats owns the aggregate counters. Only successful generations touch it:
// failed provider calls and rejected requests leave every counter unchanged.
type stats struct {
	mu sync.Mutex

	totalGenerations    int
	totalCost           float64
	cacheHits           int
	cacheMisses         int
	totalGenerationTime float64

	generationsByTemplate map[string]int
	costByTemplate        map[string]float64
}

func newStats() *stats {
	return &stats{
		generationsByTemplate: make(map[string]int),
		costByTemplate:        make(map[string]float64),
	}
}

// recordMiss accounts a fresh generation that went to the provider.
// countMiss is false when caching was disabled for the call, in which case
// the hit/miss counters are left alone.
func (s *stats) recordMiss(templateName string, cost, seconds float64, countMiss bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalGenerations++
	s.totalCost += cost
	s.totalGenerationTime += seconds
	s.generationsByTemplate[templateName]++
	s.costByTemplate[templateName] += cost
	if countMiss {
		s.cacheMisses++
	}
}

// recordHit accounts a generation served from cache: it counts toward
// totals but re-incurs no cost and no provider time.
func (s *stats) recordHit(templateName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalGenerations++
	s.cacheHits++
	s.generationsByTemplate[templateName]++
}

// reset zeroes every counter.
func (s *stats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalGenerations = 0
	s.totalCost = 0
	s.cacheHits = 0
	s.cacheMisses = 0
	s.totalGenerationTime = 0
	s.generationsByTemplate = make(map[string]int)
	s.costByTemplate = make(map[string]float64)
}

func (s *stats) snapshot() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Statistics{
		TotalGenerations:      s.totalGenerations,
		TotalCostUSD:          s.totalCost,
		CacheHits:             s.cacheHits,
		CacheMisses:           s.cacheMisses,
		TotalGenerationTime:   s.totalGenerationTime,
		GenerationsByTemplate: make(map[string]int, len(s.generationsByTemplate)),
		CostByTemplate:        make(map[string]float64, len(s.costByTemplate)),
	}
	for name, n := range s.generationsByTemplate {
		snap.GenerationsByTemplate[name] = n
	}
	for name, c := range s.costByTemplate {
		snap.CostByTemplate[name] = c
	}

	if lookups := s.cacheHits + s.cacheMisses; lookups > 0 {
		snap.CacheHitRate = float64(s.cacheHits) / float64(lookups)
	}
	if s.totalGenerations > 0 {
		snap.AverageGenerationTime = s.totalGenerationTime / float64(s.totalGenerations)
	}
	return snap
}
