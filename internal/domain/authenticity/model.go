package authenticity

import (
	"fmt"
	"math"
	"strings"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/vision"
)

const (
	baseWeight       = 0.7
	adjustmentWeight = 0.3

	serialFullCredit    = 100.0
	serialHalfCredit    = 50.0
	serialUnknownCredit = 70.0

	// Combined craft+material proxy below this floor raises a quality concern.
	qualityFloor = 80.0
)

// Refine applies the category weighting model to a vision-backed base result.
// It is a pure function: identical inputs always produce the identical refined
// result, and the base result is never mutated.
func Refine(in analysis.ProviderInput, base analysis.ProviderResult, profile WeightProfile, pattern *BrandPattern) analysis.ProviderResult {
	out := base
	out.Indicators = append([]analysis.CounterfeitIndicator(nil), base.Indicators...)
	out.Markers = append([]analysis.AuthenticityMarker(nil), base.Markers...)
	out.Findings.KeyObservations = append([]string(nil), base.Findings.KeyObservations...)

	obs := base.Observation

	logoScore, logoMatched := brandLogoScore(in.Brand, obs)
	logoContribution := logoScore * 100 * profile.BrandDetection

	text := obs.FullText()
	serial := FindSerialToken(text)
	serialCredit := 0.0
	serialVerified := false
	if serial != "" {
		switch {
		case pattern.MatchesSerial(serial):
			serialCredit = serialFullCredit
			serialVerified = true
		case pattern == nil:
			serialCredit = serialUnknownCredit
		default:
			serialCredit = serialHalfCredit
		}
	}
	serialContribution := serialCredit * profile.SerialNumberPattern

	craftProxy := craftQualityProxy(text)
	materialProxy := imageQualityProxy(obs)
	docProxy := 0.0
	if obs != nil {
		docProxy = obs.TopLabelScore() * 100
	}

	// Age verification has no observable input at this stage and contributes
	// zero to the weighted sum.
	adjustment := logoContribution +
		serialContribution +
		craftProxy*profile.CraftQuality +
		materialProxy*profile.MaterialConsistency +
		docProxy*profile.DocumentationPresence

	final := analysis.ClampScore(int(math.Round(baseWeight*float64(base.Confidence) + adjustmentWeight*adjustment)))
	out.Confidence = final
	out.Risk = analysis.RiskForScore(final)

	delta := final - base.Confidence
	out.Markers = append(out.Markers, analysis.AuthenticityMarker{
		Label:       "category weighting applied",
		Confidence:  analysis.LevelMedium,
		Description: fmt.Sprintf("category model adjusted confidence by %+d (weighted evidence %.1f)", delta, adjustment),
	})

	if pattern != nil && logoMatched && serialVerified {
		out.Markers = append(out.Markers, analysis.AuthenticityMarker{
			Label:       "brand pattern verified",
			Confidence:  analysis.LevelHigh,
			Description: fmt.Sprintf("logo and serial evidence both consistent with known %s patterns", pattern.Brand),
		})
	}

	if craftProxy+materialProxy < qualityFloor {
		out.Indicators = append(out.Indicators, analysis.CounterfeitIndicator{
			Label:       "image evidence quality concern",
			Severity:    analysis.LevelMedium,
			Description: "combined text and image quality signals fall below the assessment floor",
		})
	}

	out.Findings.OverallAssessment = fmt.Sprintf(
		"Category-weighted assessment scored %d/100 (%s fraud risk).", final, out.Risk)
	return out
}

// craftQualityProxy maps extracted-text richness into a 0-100 contribution.
func craftQualityProxy(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	extra := float64(len(trimmed)) / 2
	if extra > 30 {
		extra = 30
	}
	return 70 + extra
}

// imageQualityProxy maps the dominant-color palette into a 0-100 contribution.
func imageQualityProxy(obs *vision.Observation) float64 {
	if obs == nil {
		return 0
	}
	v := float64(len(obs.Colors)) * 25
	if v > 100 {
		v = 100
	}
	return v
}
