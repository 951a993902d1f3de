package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectIsStablePerTenant(t *testing.T) {
	s := NewSelector(SelectorConfig{})

	for i := 0; i < 10; i++ {
		tenant := fmt.Sprintf("org-%d", i)
		first := s.Select(tenant)
		for j := 0; j < 20; j++ {
			assert.Equal(t, first, s.Select(tenant), "tenant %s re-randomized", tenant)
		}
	}
}

func TestSelectCoversBothStrategies(t *testing.T) {
	s := NewSelector(SelectorConfig{})

	seen := map[Strategy]bool{}
	for i := 0; i < 64; i++ {
		seen[s.Select(fmt.Sprintf("org-%d", i))] = true
	}
	assert.True(t, seen[StrategyHeuristic])
	assert.True(t, seen[StrategyVision])
	assert.False(t, seen[StrategyDual])
}

func TestSelectDualMode(t *testing.T) {
	s := NewSelector(SelectorConfig{DualMode: true})

	for i := 0; i < 10; i++ {
		assert.Equal(t, StrategyDual, s.Select(fmt.Sprintf("org-%d", i)))
	}
}
