package heuristic

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

const (
	baseScoreClean     = 90
	baseScoreIndicated = 75
	maxJitter          = 8

	// indicatorChance is the fixed probability that any counterfeit
	// indicators appear at all in a heuristic run.
	indicatorChance = 0.20
)

// Engine produces a self-contained assessment from category metadata alone.
// No external calls; latency is simulated to model real-world variance.
type Engine struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	minLatency time.Duration
	maxLatency time.Duration
}

// NewEngine builds an engine with a dedicated random source. Pass seed 0 for
// a time-based seed; tests pass a fixed seed for determinism.
func NewEngine(seed int64, minLatency, maxLatency time.Duration) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if minLatency <= 0 {
		minLatency = 800 * time.Millisecond
	}
	if maxLatency < minLatency {
		maxLatency = minLatency + time.Second
	}
	return &Engine{
		rnd:        rand.New(rand.NewSource(seed)),
		minLatency: minLatency,
		maxLatency: maxLatency,
	}
}

func (e *Engine) Name() analysis.ProviderName { return analysis.ProviderHeuristic }

// Analyze never fails for a well-formed category; the only early return is
// context cancellation during the simulated latency window.
func (e *Engine) Analyze(ctx context.Context, in analysis.ProviderInput) (*analysis.ProviderResult, error) {
	e.mu.Lock()
	latency := e.minLatency + time.Duration(e.rnd.Int63n(int64(e.maxLatency-e.minLatency)+1))
	drawIndicators := e.rnd.Float64() < indicatorChance
	var indicators []analysis.CounterfeitIndicator
	if drawIndicators {
		indicators = e.drawIndicators(in.Category)
	}
	markers := e.drawMarkers(in.Category)
	score := baseScoreClean
	if len(indicators) > 0 {
		score = baseScoreIndicated
	}
	score += e.rnd.Intn(maxJitter + 1)
	e.mu.Unlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	score = analysis.ClampScore(score)
	risk := riskFor(score, indicators)

	return &analysis.ProviderResult{
		Provider:   analysis.ProviderHeuristic,
		Confidence: score,
		Risk:       risk,
		Findings:   findings(in, score, risk, indicators),
		Indicators: indicators,
		Markers:    markers,
	}, nil
}

// riskFor starts from the pure score tier and worsens it based on drawn
// indicator severities. This intentionally differs from the vision path's
// pure-threshold policy.
func riskFor(score int, indicators []analysis.CounterfeitIndicator) analysis.FraudRisk {
	risk := analysis.RiskForScore(score)
	high := 0
	medium := 0
	for _, ind := range indicators {
		switch ind.Severity {
		case analysis.LevelHigh:
			high++
		case analysis.LevelMedium:
			medium++
		}
	}
	switch {
	case high >= 2:
		return analysis.RiskCritical
	case high == 1:
		return worst(risk, analysis.RiskHigh)
	case medium >= 1:
		return worst(risk, analysis.RiskMedium)
	default:
		return risk
	}
}

var riskOrder = map[analysis.FraudRisk]int{
	analysis.RiskLow:      0,
	analysis.RiskMedium:   1,
	analysis.RiskHigh:     2,
	analysis.RiskCritical: 3,
}

func worst(a, b analysis.FraudRisk) analysis.FraudRisk {
	if riskOrder[a] >= riskOrder[b] {
		return a
	}
	return b
}

func (e *Engine) drawIndicators(category assets.Category) []analysis.CounterfeitIndicator {
	pool := indicatorPools[category]
	if len(pool) == 0 {
		pool = indicatorPools[assets.CategoryCollectibles]
	}
	n := 1 + e.rnd.Intn(2)
	if n > len(pool) {
		n = len(pool)
	}
	picks := e.rnd.Perm(len(pool))[:n]
	out := make([]analysis.CounterfeitIndicator, 0, n)
	for _, i := range picks {
		out = append(out, pool[i])
	}
	return out
}

func (e *Engine) drawMarkers(category assets.Category) []analysis.AuthenticityMarker {
	pool := markerPools[category]
	if len(pool) == 0 {
		pool = markerPools[assets.CategoryCollectibles]
	}
	n := 2 + e.rnd.Intn(3) // 2-4 markers, baseline positive signal
	if n > len(pool) {
		n = len(pool)
	}
	picks := e.rnd.Perm(len(pool))[:n]
	out := make([]analysis.AuthenticityMarker, 0, n)
	for _, i := range picks {
		out = append(out, pool[i])
	}
	return out
}

func findings(in analysis.ProviderInput, score int, risk analysis.FraudRisk, indicators []analysis.CounterfeitIndicator) analysis.Findings {
	subject := string(in.Category)
	if in.Brand != "" {
		subject = in.Brand + " " + subject
	}
	keyObs := []string{
		fmt.Sprintf("%d image(s) considered", in.ImageCount),
	}
	for _, ind := range indicators {
		keyObs = append(keyObs, "flagged: "+ind.Label)
	}
	return analysis.Findings{
		Headline:          fmt.Sprintf("Heuristic review of %s", subject),
		OverallAssessment: fmt.Sprintf("Metadata-driven assessment scored %d/100 (%s fraud risk).", score, risk),
		KeyObservations:   keyObs,
	}
}
