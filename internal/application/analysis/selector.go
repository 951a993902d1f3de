package analysis

import "hash/fnv"

// Strategy is the provider plan for one analysis run.
type Strategy string

const (
	StrategyHeuristic Strategy = "heuristic-only"
	StrategyVision    Strategy = "vision-only"
	StrategyDual      Strategy = "dual"
)

// SelectorConfig is explicit configuration, not ambient state, so org-level
// assignment stays reproducible.
type SelectorConfig struct {
	DualMode bool
}

// Selector assigns a provider strategy per organization. The assignment is a
// stable function of the tenant ID; it never re-randomizes between calls.
type Selector struct {
	cfg SelectorConfig
}

func NewSelector(cfg SelectorConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the strategy for a tenant. Dual mode, when enabled globally,
// applies to every tenant.
func (s *Selector) Select(tenant string) Strategy {
	if s.cfg.DualMode {
		return StrategyDual
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tenant))
	if h.Sum32()%2 == 0 {
		return StrategyHeuristic
	}
	return StrategyVision
}
