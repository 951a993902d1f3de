package heuristic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

func testInput() analysis.ProviderInput {
	return analysis.ProviderInput{
		Category:   assets.CategoryWatches,
		Brand:      "Omega",
		Model:      "Speedmaster",
		ImageCount: 2,
	}
}

func fastEngine(seed int64) *Engine {
	return NewEngine(seed, time.Millisecond, 2*time.Millisecond)
}

func TestAnalyzeDeterministicForSeed(t *testing.T) {
	a := fastEngine(42)
	b := fastEngine(42)

	resA, err := a.Analyze(context.Background(), testInput())
	require.NoError(t, err)
	resB, err := b.Analyze(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, resA.Confidence, resB.Confidence)
	assert.Equal(t, resA.Risk, resB.Risk)
	assert.Equal(t, resA.Indicators, resB.Indicators)
	assert.Equal(t, resA.Markers, resB.Markers)
}

func TestAnalyzeBounds(t *testing.T) {
	e := fastEngine(7)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		res, err := e.Analyze(ctx, testInput())
		require.NoError(t, err)

		assert.Equal(t, analysis.ProviderHeuristic, res.Provider)
		assert.GreaterOrEqual(t, res.Confidence, 75)
		assert.LessOrEqual(t, res.Confidence, analysis.MaxConfidence)

		// baseline positive signal regardless of indicators
		assert.GreaterOrEqual(t, len(res.Markers), 2)
		assert.LessOrEqual(t, len(res.Markers), 4)
		assert.LessOrEqual(t, len(res.Indicators), 2)

		if len(res.Indicators) == 0 {
			assert.GreaterOrEqual(t, res.Confidence, 90)
			assert.Equal(t, analysis.RiskForScore(res.Confidence), res.Risk)
		} else {
			assert.LessOrEqual(t, res.Confidence, 83)
		}
		assert.NotEmpty(t, res.Findings.Headline)
		assert.NotEmpty(t, res.Findings.OverallAssessment)
	}
}

func TestAnalyzeRiskNeverImproves(t *testing.T) {
	e := fastEngine(99)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		res, err := e.Analyze(ctx, testInput())
		require.NoError(t, err)

		tier := riskOrder[analysis.RiskForScore(res.Confidence)]
		assert.GreaterOrEqual(t, riskOrder[res.Risk], tier)
	}
}

func TestAnalyzeHonorsContextCancellation(t *testing.T) {
	e := NewEngine(1, 500*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Analyze(ctx, testInput())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeUnknownCategoryUsesFallbackPool(t *testing.T) {
	e := fastEngine(3)
	in := testInput()
	in.Category = assets.Category("antiques")

	res, err := e.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Markers)
}

func TestRiskForSeverityFloors(t *testing.T) {
	high := analysis.CounterfeitIndicator{Label: "x", Severity: analysis.LevelHigh}
	medium := analysis.CounterfeitIndicator{Label: "y", Severity: analysis.LevelMedium}

	assert.Equal(t, analysis.RiskCritical, riskFor(95, []analysis.CounterfeitIndicator{high, high}))
	assert.Equal(t, analysis.RiskHigh, riskFor(95, []analysis.CounterfeitIndicator{high}))
	assert.Equal(t, analysis.RiskMedium, riskFor(95, []analysis.CounterfeitIndicator{medium}))
	assert.Equal(t, analysis.RiskLow, riskFor(95, nil))

	// floors never improve an already-worse tier
	assert.Equal(t, analysis.RiskCritical, riskFor(60, []analysis.CounterfeitIndicator{medium}))
}
