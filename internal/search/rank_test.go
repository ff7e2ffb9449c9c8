package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedBlendCombine(t *testing.T) {
	blend := DefaultBlend()

	stored, engine := blend.Weights()
	assert.Equal(t, 0.7, stored)
	assert.Equal(t, 0.3, engine)

	assert.InDelta(t, 2.5, blend.Combine(nil, 2.5), 1e-9)

	s := 10.0
	assert.InDelta(t, 10*0.7+2*0.3, blend.Combine(&s, 2.0), 1e-9)
}

func TestCustomBlendWeights(t *testing.T) {
	blend := WeightedBlend{Stored: 0.5, Engine: 0.5}
	s := 4.0
	assert.InDelta(t, 3.0, blend.Combine(&s, 2.0), 1e-9)
}
