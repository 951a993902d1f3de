package heuristic

import (
	"github.com/luxeledger/authenticity/internal/domain/analysis"
	"github.com/luxeledger/authenticity/internal/domain/assets"
)

// Category-specific candidate pools. Indicators are drawn rarely (see
// indicatorChance); markers always contribute the 2-4 baseline positives.

var indicatorPools = map[assets.Category][]analysis.CounterfeitIndicator{
	assets.CategoryWatches: {
		{Label: "cyclops magnification below spec", Severity: analysis.LevelMedium, Description: "date magnification appears under 2.5x"},
		{Label: "case back engraving atypical", Severity: analysis.LevelHigh, Description: "engraving depth and font inconsistent with reference pieces"},
		{Label: "lume application uneven", Severity: analysis.LevelMedium, Description: "hour marker lume shows irregular edges"},
		{Label: "bracelet tolerances loose", Severity: analysis.LevelLow, Description: "link play exceeds expected tolerance"},
	},
	assets.CategoryCars: {
		{Label: "VIN stamping irregular", Severity: analysis.LevelHigh, Description: "stamp depth varies across characters"},
		{Label: "panel gap variance", Severity: analysis.LevelMedium, Description: "gaps inconsistent with factory assembly"},
		{Label: "badge font mismatch", Severity: analysis.LevelMedium, Description: "emblem lettering differs from era-correct type"},
		{Label: "overspray traces", Severity: analysis.LevelLow, Description: "paint overspray near trim suggests rework"},
	},
	assets.CategoryHandbags: {
		{Label: "stitch count off-pattern", Severity: analysis.LevelHigh, Description: "stitches per inch deviates from house standard"},
		{Label: "hardware weight low", Severity: analysis.LevelMedium, Description: "clasp and rings lighter than solid-brass reference"},
		{Label: "date code placement wrong", Severity: analysis.LevelMedium, Description: "stamp located outside the documented position"},
		{Label: "lining texture off", Severity: analysis.LevelLow, Description: "interior fabric weave differs from reference"},
	},
	assets.CategoryJewelry: {
		{Label: "hallmark strike shallow", Severity: analysis.LevelHigh, Description: "purity hallmark lacks expected definition"},
		{Label: "stone setting machine-finished", Severity: analysis.LevelMedium, Description: "prong work shows no hand finishing"},
		{Label: "metal tone inconsistent", Severity: analysis.LevelMedium, Description: "alloy color varies across the piece"},
	},
	assets.CategoryArt: {
		{Label: "signature stroke hesitation", Severity: analysis.LevelHigh, Description: "signature shows drawn rather than fluid strokes"},
		{Label: "canvas aging uniform", Severity: analysis.LevelMedium, Description: "aging pattern lacks natural variance"},
		{Label: "pigment anachronism", Severity: analysis.LevelHigh, Description: "pigment profile postdates the attributed period"},
	},
	assets.CategoryCollectibles: {
		{Label: "print registration off", Severity: analysis.LevelMedium, Description: "color layers misaligned beyond press tolerance"},
		{Label: "packaging gloss modern", Severity: analysis.LevelLow, Description: "box finish inconsistent with stated production year"},
		{Label: "serial hologram missing", Severity: analysis.LevelHigh, Description: "expected holographic seal absent"},
	},
}

var markerPools = map[assets.Category][]analysis.AuthenticityMarker{
	assets.CategoryWatches: {
		{Label: "movement finishing consistent", Confidence: analysis.LevelHigh, Description: "visible movement decoration matches reference grade"},
		{Label: "crown etching crisp", Confidence: analysis.LevelMedium, Description: "crown logo etched with expected definition"},
		{Label: "rehaut alignment correct", Confidence: analysis.LevelMedium, Description: "inner ring engraving aligns with dial markers"},
		{Label: "dial print serif-accurate", Confidence: analysis.LevelMedium, Description: "dial typography matches catalog specimens"},
		{Label: "clasp action positive", Confidence: analysis.LevelLow, Description: "clasp engages with factory-typical resistance"},
	},
	assets.CategoryCars: {
		{Label: "chassis numbers matching", Confidence: analysis.LevelHigh, Description: "stamped numbers concur across chassis and plate"},
		{Label: "factory weld pattern present", Confidence: analysis.LevelMedium, Description: "spot weld spacing consistent with production line"},
		{Label: "glass etching era-correct", Confidence: analysis.LevelMedium, Description: "window maker marks match build year"},
		{Label: "interior patina consistent", Confidence: analysis.LevelLow, Description: "wear pattern consistent with stated mileage"},
	},
	assets.CategoryHandbags: {
		{Label: "saddle stitching angled", Confidence: analysis.LevelHigh, Description: "hand stitching shows expected angle and tension"},
		{Label: "hardware engraving deep", Confidence: analysis.LevelMedium, Description: "logo engraving on hardware cleanly struck"},
		{Label: "leather grain natural", Confidence: analysis.LevelMedium, Description: "hide grain shows natural irregularity"},
		{Label: "heat stamp centered", Confidence: analysis.LevelMedium, Description: "brand stamp centered and evenly impressed"},
	},
	assets.CategoryJewelry: {
		{Label: "hallmark set complete", Confidence: analysis.LevelHigh, Description: "maker, purity and assay marks all present"},
		{Label: "stone seating hand-set", Confidence: analysis.LevelMedium, Description: "prongs show hand-finished seating"},
		{Label: "weight matches spec", Confidence: analysis.LevelMedium, Description: "piece weight consistent with declared materials"},
	},
	assets.CategoryArt: {
		{Label: "craquelure age-consistent", Confidence: analysis.LevelMedium, Description: "crack pattern consistent with attributed age"},
		{Label: "stretcher bar period-correct", Confidence: analysis.LevelMedium, Description: "support construction matches the period"},
		{Label: "provenance chain plausible", Confidence: analysis.LevelLow, Description: "documented ownership history has no gaps"},
	},
	assets.CategoryCollectibles: {
		{Label: "production marks present", Confidence: analysis.LevelMedium, Description: "mold or press marks where expected"},
		{Label: "material composition correct", Confidence: analysis.LevelMedium, Description: "materials consistent with original production"},
		{Label: "wear pattern natural", Confidence: analysis.LevelLow, Description: "aging consistent with claimed storage"},
	},
}
