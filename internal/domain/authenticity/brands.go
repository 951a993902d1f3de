package authenticity

import (
	"regexp"
	"strings"
)

// BrandPattern is static reference data for one known brand: the expected
// serial-number shape, features an authentic piece shows, and tells common on
// counterfeits.
type BrandPattern struct {
	Brand            string
	SerialPattern    *regexp.Regexp
	ExpectedFeatures []string
	CounterfeitTells []string
}

// MatchesSerial reports whether the token fits the brand's serial shape.
func (p *BrandPattern) MatchesSerial(token string) bool {
	if p == nil || p.SerialPattern == nil || token == "" {
		return false
	}
	return p.SerialPattern.MatchString(strings.ToUpper(token))
}

var brandPatterns = map[string]*BrandPattern{
	"rolex": {
		Brand:         "Rolex",
		SerialPattern: regexp.MustCompile(`^[A-Z0-9]{7,8}$`),
		ExpectedFeatures: []string{
			"laser-etched crown at 6 o'clock on crystal",
			"rehaut engraving aligned with dial markers",
			"solid case back without engraving",
		},
		CounterfeitTells: []string{
			"visible seconds-hand stutter",
			"magnification under 2.5x on date cyclops",
			"engraved or display case back",
		},
	},
	"omega": {
		Brand:         "Omega",
		SerialPattern: regexp.MustCompile(`^\d{8}$`),
		ExpectedFeatures: []string{
			"serial repeated on movement and case",
			"symmetrical lyre lugs",
		},
		CounterfeitTells: []string{
			"printed rather than applied logo",
			"serial font spacing uneven",
		},
	},
	"patek philippe": {
		Brand:         "Patek Philippe",
		SerialPattern: regexp.MustCompile(`^\d{6,7}$`),
		ExpectedFeatures: []string{
			"Geneva seal on movement",
			"hand-finished anglage",
		},
		CounterfeitTells: []string{
			"machine-stamped movement decoration",
		},
	},
	"cartier": {
		Brand:         "Cartier",
		SerialPattern: regexp.MustCompile(`^[A-Z]{2}\d{4,6}$`),
		ExpectedFeatures: []string{
			"secret signature in a Roman numeral",
			"serial engraved on case back",
		},
		CounterfeitTells: []string{
			"missing secret signature",
			"shallow case back engraving",
		},
	},
	"hermes": {
		Brand:         "Hermès",
		SerialPattern: regexp.MustCompile(`^[A-Z]{1,2}[0-9A-Z]{0,4}$`),
		ExpectedFeatures: []string{
			"blind stamp matching production year",
			"saddle stitching at an angle",
		},
		CounterfeitTells: []string{
			"perfectly uniform machine stitching",
			"heat stamp off-center",
		},
	},
	"chanel": {
		Brand:         "Chanel",
		SerialPattern: regexp.MustCompile(`^\d{7,8}$`),
		ExpectedFeatures: []string{
			"serial sticker with matching authenticity card",
			"CC lock with flat-head screws",
		},
		CounterfeitTells: []string{
			"serial sticker without hologram layers",
		},
	},
	"louis vuitton": {
		Brand:         "Louis Vuitton",
		SerialPattern: regexp.MustCompile(`^[A-Z]{2}\d{4}$`),
		ExpectedFeatures: []string{
			"date code stamped inside lining",
			"monogram symmetrical across seams",
		},
		CounterfeitTells: []string{
			"date code format invalid for stated era",
			"monogram cut at seams",
		},
	},
	"ferrari": {
		Brand:         "Ferrari",
		SerialPattern: regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`),
		ExpectedFeatures: []string{
			"VIN matching chassis plate and glass etching",
			"assembly number on major panels",
		},
		CounterfeitTells: []string{
			"VIN plate rivets non-original",
		},
	},
	"porsche": {
		Brand:         "Porsche",
		SerialPattern: regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`),
		ExpectedFeatures: []string{
			"VIN visible at windshield base",
			"option sticker matching build sheet",
		},
		CounterfeitTells: []string{
			"option sticker font mismatch",
		},
	},
}

// PatternFor returns the static pattern for a brand, or nil when the brand is
// unknown to the reference set.
func PatternFor(brand string) *BrandPattern {
	key := strings.ToLower(strings.TrimSpace(brand))
	key = strings.ReplaceAll(key, "è", "e")
	return brandPatterns[key]
}
