package authenticity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternFor(t *testing.T) {
	assert.Equal(t, "Rolex", PatternFor("Rolex").Brand)
	assert.Equal(t, "Rolex", PatternFor("  ROLEX  ").Brand)
	assert.Equal(t, "Hermès", PatternFor("Hermès").Brand)
	assert.Equal(t, "Hermès", PatternFor("hermes").Brand)
	assert.Equal(t, "Louis Vuitton", PatternFor("louis vuitton").Brand)
	assert.Nil(t, PatternFor("unknown brand"))
	assert.Nil(t, PatternFor(""))
}

func TestMatchesSerial(t *testing.T) {
	rolex := PatternFor("rolex")
	assert.True(t, rolex.MatchesSerial("16610LV0"))
	assert.True(t, rolex.MatchesSerial("z463821"), "case-insensitive")
	assert.False(t, rolex.MatchesSerial("1234"), "too short")
	assert.False(t, rolex.MatchesSerial("123456789"), "too long")

	omega := PatternFor("omega")
	assert.True(t, omega.MatchesSerial("81034572"))
	assert.False(t, omega.MatchesSerial("8103457A"), "digits only")

	ferrari := PatternFor("ferrari")
	assert.True(t, ferrari.MatchesSerial("ZFF80AMA5K0240001"))
	assert.False(t, ferrari.MatchesSerial("ZFF80AMA5K024000I"), "VIN excludes I")

	var nilPattern *BrandPattern
	assert.False(t, nilPattern.MatchesSerial("16610LV0"))
	assert.False(t, rolex.MatchesSerial(""))
}

func TestFindSerialToken(t *testing.T) {
	assert.Equal(t, "16610LV", FindSerialToken("ROLEX OYSTER 16610LV SWISS MADE"))
	assert.Equal(t, "16610LV", FindSerialToken("rolex oyster 16610lv"), "uppercased before matching")
	assert.Equal(t, "", FindSerialToken("OYSTER PERPETUAL"), "letters only never qualifies")
	assert.Equal(t, "", FindSerialToken("AB 123"), "too short")
	assert.Equal(t, "", FindSerialToken(""))

	// first qualifying token wins
	assert.Equal(t, "SA1234", FindSerialToken("STAMPED SA1234 THEN ZZ9999"))
}
