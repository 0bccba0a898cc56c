package eda

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalQuantile computes quantile function for standard normal (inverse CDF)
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// ChiSquareSurvival computes the upper tail probability of a chi-square statistic
func ChiSquareSurvival(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(chiSquare) {
		return math.NaN()
	}
	return distuv.ChiSquared{K: float64(degreesOfFreedom)}.Survival(chiSquare)
}

// dropNaN returns the finite-or-infinite values of x, discarding NaN (missing)
func dropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func sortedCopy(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// QuantileSorted interpolates linearly between the order statistics closest to
// p·(n−1), the convention dataframe libraries default to. sorted must be ascending.
func QuantileSorted(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// OrderStatisticMedians returns Filliben's estimates of the uniform order
// statistic medians mapped through the standard normal quantile, the
// theoretical axis of a normal probability plot.
func OrderStatisticMedians(n int) []float64 {
	if n <= 0 {
		return nil
	}
	u := make([]float64, n)
	u[n-1] = math.Pow(0.5, 1/float64(n))
	u[0] = 1 - u[n-1]
	for i := 2; i < n; i++ {
		u[i-1] = (float64(i) - 0.3175) / (float64(n) + 0.365)
	}
	out := make([]float64, n)
	for i, p := range u {
		out[i] = NormalQuantile(p)
	}
	return out
}
