package authenticity

import (
	"math"

	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// WeightProfile holds the six category weights used by the scoring model.
// Weights for a profile sum to 1.0.
type WeightProfile struct {
	BrandDetection        float64 `json:"brand_detection"`
	SerialNumberPattern   float64 `json:"serial_number_pattern"`
	MaterialConsistency   float64 `json:"material_consistency"`
	CraftQuality          float64 `json:"craft_quality"`
	AgeVerification       float64 `json:"age_verification"`
	DocumentationPresence float64 `json:"documentation_presence"`
}

// Sum returns the total of all six weights.
func (w WeightProfile) Sum() float64 {
	return w.BrandDetection + w.SerialNumberPattern + w.MaterialConsistency +
		w.CraftQuality + w.AgeVerification + w.DocumentationPresence
}

// Valid reports whether the weights sum to 1.0 within float tolerance.
func (w WeightProfile) Valid() bool {
	return math.Abs(w.Sum()-1.0) < 1e-9
}

var defaultProfile = WeightProfile{
	BrandDetection:        0.20,
	SerialNumberPattern:   0.15,
	MaterialConsistency:   0.20,
	CraftQuality:          0.20,
	AgeVerification:       0.10,
	DocumentationPresence: 0.15,
}

var profiles = map[assets.Category]WeightProfile{
	assets.CategoryWatches: {
		BrandDetection:        0.25,
		SerialNumberPattern:   0.20,
		MaterialConsistency:   0.15,
		CraftQuality:          0.20,
		AgeVerification:       0.10,
		DocumentationPresence: 0.10,
	},
	assets.CategoryCars: {
		BrandDetection:        0.20,
		SerialNumberPattern:   0.25,
		MaterialConsistency:   0.15,
		CraftQuality:          0.10,
		AgeVerification:       0.15,
		DocumentationPresence: 0.15,
	},
	assets.CategoryHandbags: {
		BrandDetection:        0.30,
		SerialNumberPattern:   0.15,
		MaterialConsistency:   0.20,
		CraftQuality:          0.20,
		AgeVerification:       0.05,
		DocumentationPresence: 0.10,
	},
	assets.CategoryJewelry: {
		BrandDetection:        0.15,
		SerialNumberPattern:   0.10,
		MaterialConsistency:   0.30,
		CraftQuality:          0.25,
		AgeVerification:       0.10,
		DocumentationPresence: 0.10,
	},
	assets.CategoryArt: {
		BrandDetection:        0.05,
		SerialNumberPattern:   0.05,
		MaterialConsistency:   0.20,
		CraftQuality:          0.30,
		AgeVerification:       0.20,
		DocumentationPresence: 0.20,
	},
	assets.CategoryCollectibles: {
		BrandDetection:        0.15,
		SerialNumberPattern:   0.15,
		MaterialConsistency:   0.15,
		CraftQuality:          0.15,
		AgeVerification:       0.20,
		DocumentationPresence: 0.20,
	},
}

// ProfileFor returns the weight profile for a category, falling back to a
// balanced default for unknown categories.
func ProfileFor(category assets.Category) WeightProfile {
	if p, ok := profiles[category]; ok {
		return p
	}
	return defaultProfile
}
