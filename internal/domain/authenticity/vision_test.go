package authenticity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/domain/vision"
)

func richWatchObservation() *vision.Observation {
	return &vision.Observation{
		Labels: []vision.Label{
			{Description: "Wristwatch", Score: 0.93},
			{Description: "Analog watch", Score: 0.88},
		},
		TextBlocks: []string{"ROLEX OYSTER PERPETUAL", "16610LV"},
		Logos: []vision.Logo{
			{Description: "Rolex", Score: 0.95},
		},
		Colors: []vision.Color{
			{RGB: "#0a3d2c", Fraction: 0.41},
			{RGB: "#c0c0c0", Fraction: 0.28},
			{RGB: "#1c1c1c", Fraction: 0.18},
			{RGB: "#f5f5f0", Fraction: 0.09},
		},
	}
}

func watchInput() analysis.ProviderInput {
	return analysis.ProviderInput{
		Category:   assets.CategoryWatches,
		Brand:      "Rolex",
		Model:      "Submariner",
		ImageCount: 3,
	}
}

func TestScoreObservationRichEvidence(t *testing.T) {
	res := ScoreObservation(watchInput(), richWatchObservation())
	require.NotNil(t, res)

	// every positive signal fires; the raw sum exceeds the ceiling
	assert.Equal(t, analysis.MaxConfidence, res.Confidence)
	assert.Equal(t, analysis.RiskLow, res.Risk)
	assert.Equal(t, analysis.ProviderVision, res.Provider)
	assert.Empty(t, res.Indicators)
	assert.NotNil(t, res.Observation)

	labels := markerLabels(res.Markers)
	assert.Contains(t, labels, "brand logo detected")
	assert.Contains(t, labels, "text extracted")
	assert.Contains(t, labels, "serial-pattern match")
	assert.Contains(t, labels, "rich color profile")
}

func TestScoreObservationWeakEvidence(t *testing.T) {
	res := ScoreObservation(watchInput(), &vision.Observation{})
	require.NotNil(t, res)

	assert.Equal(t, 70, res.Confidence)
	assert.Equal(t, analysis.RiskHigh, res.Risk)
	assert.Empty(t, res.Markers)

	labels := indicatorLabels(res.Indicators)
	assert.Contains(t, labels, "brand logo not detected")
	assert.Contains(t, labels, "no text detected")
	assert.Contains(t, labels, "limited color profile")
}

func TestScoreObservationNoBrand(t *testing.T) {
	in := watchInput()
	in.Brand = ""
	res := ScoreObservation(in, &vision.Observation{})

	// without a brand there is nothing to miss
	assert.NotContains(t, indicatorLabels(res.Indicators), "brand logo not detected")
}

func markerLabels(ms []analysis.AuthenticityMarker) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Label)
	}
	return out
}

func indicatorLabels(is []analysis.CounterfeitIndicator) []string {
	out := make([]string, 0, len(is))
	for _, i := range is {
		out = append(out, i.Label)
	}
	return out
}
