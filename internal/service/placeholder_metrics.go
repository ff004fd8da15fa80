package service

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/spec-kit/shop-directory/internal/config"
)

// PlaceholderFields names the stats fields that are generated, not measured.
var PlaceholderFields = []string{"profileViews", "customerLeads"}

// PlaceholderMetrics fabricates profile views and customer leads. The values
// are uniform random integers in half-open ranges and carry no information.
type PlaceholderMetrics struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges config.StatsConfig
}

// NewPlaceholderMetrics seeds a generator from the clock.
func NewPlaceholderMetrics(ranges config.StatsConfig) *PlaceholderMetrics {
	seed := uint64(time.Now().UnixNano())
	return NewSeededPlaceholderMetrics(ranges, seed)
}

// NewSeededPlaceholderMetrics returns a reproducible generator.
func NewSeededPlaceholderMetrics(ranges config.StatsConfig, seed uint64) *PlaceholderMetrics {
	return &PlaceholderMetrics{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ranges: ranges,
	}
}

// ProfileViews returns a value in [ViewsMin, ViewsMax).
func (p *PlaceholderMetrics) ProfileViews() int {
	return p.between(p.ranges.ViewsMin, p.ranges.ViewsMax)
}

// CustomerLeads returns a value in [LeadsMin, LeadsMax).
func (p *PlaceholderMetrics) CustomerLeads() int {
	return p.between(p.ranges.LeadsMin, p.ranges.LeadsMax)
}

func (p *PlaceholderMetrics) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rng.IntN(hi-lo)
}
