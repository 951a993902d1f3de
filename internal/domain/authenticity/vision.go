package authenticity

import (
	"fmt"
	"strings"

	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
	"github.com/luxeledger/authenticity/internal/domain/vision"
)

const (
	visionBaseScore    = 70
	logoMatchBonus     = 10
	textPresentBonus   = 5
	serialTokenBonus   = 8
	colorProfileBonus  = 5
	labelMatchBonus    = 2
	labelBonusCap      = 10
	richColorThreshold = 4
)

// categoryLabels lists vendor label vocabulary relevant per category; overlap
// with detected labels earns the capped label bonus.
var categoryLabels = map[assets.Category][]string{
	assets.CategoryWatches:      {"watch", "wristwatch", "analog watch", "clock", "watch accessory", "strap"},
	assets.CategoryCars:         {"car", "vehicle", "wheel", "sports car", "automotive design", "rim"},
	assets.CategoryHandbags:     {"bag", "handbag", "leather", "fashion accessory", "luggage", "zipper"},
	assets.CategoryJewelry:      {"jewellery", "jewelry", "ring", "necklace", "gemstone", "diamond", "gold"},
	assets.CategoryArt:          {"art", "painting", "canvas", "frame", "sculpture", "drawing"},
	assets.CategoryCollectibles: {"collectible", "toy", "figurine", "card", "memorabilia", "stamp"},
}

// ScoreObservation derives a scored result from a mapped vision observation.
// Fixed increments per positive signal on top of a base of 70, clamped to 98;
// fraud risk is the pure score tier.
func ScoreObservation(in analysis.ProviderInput, obs *vision.Observation) *analysis.ProviderResult {
	score := visionBaseScore
	var markers []analysis.AuthenticityMarker
	var indicators []analysis.CounterfeitIndicator
	var keyObs []string

	logoScore, logoMatched := brandLogoScore(in.Brand, obs)
	if logoMatched {
		score += logoMatchBonus
		markers = append(markers, analysis.AuthenticityMarker{
			Label:       "brand logo detected",
			Confidence:  levelForScore(logoScore),
			Description: fmt.Sprintf("logo matching %q detected with score %.2f", in.Brand, logoScore),
		})
		keyObs = append(keyObs, fmt.Sprintf("brand logo match (%.2f)", logoScore))
	}

	text := obs.FullText()
	if strings.TrimSpace(text) != "" {
		score += textPresentBonus
		markers = append(markers, analysis.AuthenticityMarker{
			Label:       "text extracted",
			Confidence:  analysis.LevelMedium,
			Description: fmt.Sprintf("%d text block(s) extracted from primary image", len(obs.TextBlocks)),
		})
	}

	serial := FindSerialToken(text)
	if serial != "" {
		score += serialTokenBonus
		markers = append(markers, analysis.AuthenticityMarker{
			Label:       "serial-pattern match",
			Confidence:  analysis.LevelMedium,
			Description: fmt.Sprintf("serial-number-shaped token %q found in extracted text", serial),
		})
		keyObs = append(keyObs, "serial-shaped token present")
	}

	if len(obs.Colors) >= richColorThreshold {
		score += colorProfileBonus
		markers = append(markers, analysis.AuthenticityMarker{
			Label:       "rich color profile",
			Confidence:  analysis.LevelLow,
			Description: fmt.Sprintf("%d dominant colors resolved", len(obs.Colors)),
		})
	}

	if n := matchingLabels(in.Category, obs); n > 0 {
		bonus := n * labelMatchBonus
		if bonus > labelBonusCap {
			bonus = labelBonusCap
		}
		score += bonus
		keyObs = append(keyObs, fmt.Sprintf("%d category-relevant label(s)", n))
	}

	score = analysis.ClampScore(score)
	risk := analysis.RiskForScore(score)

	// Negative signals surface as indicators once risk is off the floor.
	if risk != analysis.RiskLow {
		if !logoMatched && in.Brand != "" {
			indicators = append(indicators, analysis.CounterfeitIndicator{
				Label:       "brand logo not detected",
				Severity:    analysis.LevelHigh,
				Description: fmt.Sprintf("no logo matching %q found in primary image", in.Brand),
			})
		}
		if strings.TrimSpace(text) == "" {
			indicators = append(indicators, analysis.CounterfeitIndicator{
				Label:       "no text detected",
				Severity:    analysis.LevelMedium,
				Description: "no engravings, stamps or markings could be read",
			})
		}
		if len(obs.Colors) < richColorThreshold {
			indicators = append(indicators, analysis.CounterfeitIndicator{
				Label:       "limited color profile",
				Severity:    analysis.LevelLow,
				Description: "dominant-color analysis returned a sparse palette",
			})
		}
	}

	return &analysis.ProviderResult{
		Provider:    analysis.ProviderVision,
		Confidence:  score,
		Risk:        risk,
		Findings:    visionFindings(in, score, risk, keyObs),
		Indicators:  indicators,
		Markers:     markers,
		Observation: obs,
	}
}

func visionFindings(in analysis.ProviderInput, score int, risk analysis.FraudRisk, keyObs []string) analysis.Findings {
	subject := string(in.Category)
	if in.Brand != "" {
		subject = in.Brand + " " + subject
	}
	return analysis.Findings{
		Headline:          fmt.Sprintf("Vision analysis of %s", subject),
		OverallAssessment: fmt.Sprintf("Image-based assessment scored %d/100 (%s fraud risk) across %d analyzed image(s).", score, risk, in.ImageCount),
		KeyObservations:   keyObs,
	}
}

func brandLogoScore(brand string, obs *vision.Observation) (float64, bool) {
	if brand == "" || obs == nil {
		return 0, false
	}
	needle := strings.ToLower(brand)
	best := 0.0
	found := false
	for _, l := range obs.Logos {
		if strings.Contains(strings.ToLower(l.Description), needle) {
			found = true
			if l.Score > best {
				best = l.Score
			}
		}
	}
	return best, found
}

func matchingLabels(category assets.Category, obs *vision.Observation) int {
	wanted := categoryLabels[category]
	if len(wanted) == 0 || obs == nil {
		return 0
	}
	n := 0
	for _, l := range obs.Labels {
		desc := strings.ToLower(l.Description)
		for _, w := range wanted {
			if strings.Contains(desc, w) {
				n++
				break
			}
		}
	}
	return n
}

func levelForScore(s float64) analysis.Level {
	switch {
	case s >= 0.8:
		return analysis.LevelHigh
	case s >= 0.5:
		return analysis.LevelMedium
	default:
		return analysis.LevelLow
	}
}
