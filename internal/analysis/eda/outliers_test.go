package eda

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeOutliers_FlagsExtremeValue(t *testing.T) {
	s := SummarizeOutliers([]float64{1, 2, 3, 4, 5, 100})

	assert.InDelta(t, 2.25, s.Q1, 1e-12)
	assert.InDelta(t, 4.75, s.Q3, 1e-12)
	assert.InDelta(t, 2.5, s.IQR, 1e-12)
	assert.InDelta(t, -1.5, s.Low, 1e-12)
	assert.InDelta(t, 8.5, s.High, 1e-12)
	assert.Equal(t, 1, s.Outliers)
}

func TestSummarizeOutliers_IgnoresMissing(t *testing.T) {
	s := SummarizeOutliers([]float64{math.NaN(), 1, 2, 3, math.NaN()})
	assert.InDelta(t, 1.5, s.Q1, 1e-12)
	assert.InDelta(t, 2.5, s.Q3, 1e-12)
	assert.Equal(t, 0, s.Outliers)
}

func TestSummarizeOutliers_Empty(t *testing.T) {
	s := SummarizeOutliers([]float64{math.NaN()})
	assert.True(t, math.IsNaN(s.Low))
	assert.True(t, math.IsNaN(s.High))
	assert.True(t, math.IsNaN(s.IQR))
	assert.Equal(t, 0, s.Outliers)
}

func TestSummarizeOutliers_FenceOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		x := make([]float64, 1+rng.Intn(60))
		for i := range x {
			x[i] = rng.NormFloat64() * float64(1+trial)
		}
		s := SummarizeOutliers(x)

		assert.LessOrEqual(t, s.Low, s.Q1)
		assert.LessOrEqual(t, s.Q1, s.Q3)
		assert.LessOrEqual(t, s.Q3, s.High)
		assert.GreaterOrEqual(t, s.Outliers, 0)
		assert.LessOrEqual(t, s.Outliers, len(x))
	}
}

func TestSummarizeOutliers_ConstantColumn(t *testing.T) {
	s := SummarizeOutliers([]float64{3, 3, 3, 3})
	assert.Equal(t, 0.0, s.IQR)
	assert.Equal(t, 0, s.Outliers)
}
