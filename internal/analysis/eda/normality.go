package eda

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"goeda/domain/stats/eda"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultAlpha is the significance threshold of the normality verdict
	DefaultAlpha = 0.05
	// DefaultSampleCap bounds the sample handed to the normality tests
	DefaultSampleCap = 5000
	// DefaultSeed drives the reproducible subsample above the cap
	DefaultSeed int64 = 42

	// omnibusMinN is the sample size from which D'Agostino K² replaces Shapiro–Wilk
	omnibusMinN = 20
)

// warnZeroVariance is recorded when a test degenerates on constant data
const warnZeroVariance = "variância zero: teste não informativo"

var errNonFinite = errors.New("sample contains infinite values")

// NormalityOptions configures AssessNormality; zero fields take the defaults
type NormalityOptions struct {
	Alpha     float64
	SampleCap int
	Seed      int64
}

func (o NormalityOptions) withDefaults() NormalityOptions {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = DefaultAlpha
	}
	if o.SampleCap <= 0 {
		o.SampleCap = DefaultSampleCap
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

// AssessNormality classifies a numeric sample. Fewer than 3 values are
// reported as insufficient data, 3–19 tested values go through Shapiro–Wilk and
// larger samples through D'Agostino K². Samples above the cap are reduced to a
// seeded subsample first. The result never carries a Go error: a failing test
// is reported through StatusFailed.
func AssessNormality(values []float64, opts NormalityOptions) eda.NormalityResult {
	opts = opts.withDefaults()
	x := dropNaN(values)
	n := len(x)

	res := eda.NormalityResult{
		N:         n,
		Skew:      sampleSkew(x),
		Kurtosis:  sampleExKurtosis(x),
		Statistic: math.NaN(),
		PValue:    math.NaN(),
	}

	if n < 3 {
		res.Status = eda.StatusInsufficientData
		res.Test = eda.TestInsufficientData
		return res
	}

	if n > opts.SampleCap {
		x = subsample(x, opts.SampleCap, opts.Seed)
		res.Subsampled = true
	}

	test := eda.TestShapiroWilk
	run := shapiroWilk
	if len(x) >= omnibusMinN {
		test = eda.TestDAgostinoK2
		run = dagostinoK2
	}

	statistic, p, warning, err := guardedTest(run, x)
	if err != nil {
		res.Status = eda.StatusFailed
		res.Test = eda.TestFailed
		res.Error = err.Error()
		return res
	}

	res.Status = eda.StatusOK
	res.Test = test
	res.Statistic = statistic
	res.PValue = p
	res.Warning = warning
	res.IsNormal = !math.IsNaN(p) && p >= opts.Alpha
	return res
}

type normalityTest func(x []float64) (statistic, p float64, warning string, err error)

// guardedTest turns a panic inside the numeric code into an error
func guardedTest(run normalityTest, x []float64) (statistic, p float64, warning string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normality test aborted: %v", r)
		}
	}()
	return run(x)
}

// subsample draws exactly size values without replacement, reproducibly for a seed
func subsample(x []float64, size int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, size)
	for i, idx := range rng.Perm(len(x))[:size] {
		out[i] = x[idx]
	}
	return out
}

// sampleSkew is the adjusted Fisher–Pearson coefficient G1
func sampleSkew(x []float64) float64 {
	if len(x) < 3 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// sampleExKurtosis is the bias-corrected excess kurtosis G2
func sampleExKurtosis(x []float64) float64 {
	if len(x) < 4 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 {
		return 0
	}
	return stat.ExKurtosis(x, nil)
}

func checkFinite(x []float64) error {
	for _, v := range x {
		if math.IsInf(v, 0) {
			return errNonFinite
		}
	}
	return nil
}

// dagostinoK2 is the D'Agostino–Pearson omnibus test: the skewness and
// kurtosis z-scores (biased moments) squared and summed, compared to χ²(2).
func dagostinoK2(x []float64) (float64, float64, string, error) {
	if err := checkFinite(x); err != nil {
		return math.NaN(), math.NaN(), "", err
	}
	if len(x) < 8 {
		return math.NaN(), math.NaN(), "", fmt.Errorf("skewness test requires at least 8 values, got %d", len(x))
	}

	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return math.NaN(), math.NaN(), warnZeroVariance, nil
	}
	g1 := stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
	b2 := stat.Moment(4, x, nil) / (m2 * m2)

	z1, err := skewnessZ(g1, float64(len(x)))
	if err != nil {
		return math.NaN(), math.NaN(), "", err
	}
	z2, err := kurtosisZ(b2, float64(len(x)))
	if err != nil {
		return math.NaN(), math.NaN(), "", err
	}

	k2 := z1*z1 + z2*z2
	return k2, ChiSquareSurvival(k2, 2), "", nil
}

// skewnessZ transforms the sample skewness to an approximately standard normal deviate
func skewnessZ(g1, n float64) (float64, error) {
	y := g1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	if w2 <= 1 {
		return 0, fmt.Errorf("degenerate skewness transform (W²=%g)", w2)
	}
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	ya := y / alpha
	return delta * math.Log(ya+math.Sqrt(ya*ya+1)), nil
}

// kurtosisZ is the Anscombe–Glynn transform of the (non-excess) sample kurtosis
func kurtosisZ(b2, n float64) (float64, error) {
	e := 3 * (n - 1) / (n + 1)
	varb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(varb2)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	if a <= 4 {
		return 0, fmt.Errorf("degenerate kurtosis transform (A=%g)", a)
	}

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, errors.New("kurtosis transform denominator is zero")
	}
	term2 := math.Cbrt((1 - 2/a) / denom)
	return (term1 - term2) / math.Sqrt(2/(9*a)), nil
}

// Royston (1995) AS R94 coefficients
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

const swSmall = 1e-19

func poly(c []float64, x float64) float64 {
	result := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		result = result*x + c[i]
	}
	return result
}

// shapiroWilk computes W and its p-value with Royston's approximation, valid
// for 3 ≤ n ≤ 5000.
func shapiroWilk(values []float64) (float64, float64, string, error) {
	n := len(values)
	if n < 3 {
		return math.NaN(), math.NaN(), "", fmt.Errorf("shapiro-wilk requires at least 3 values, got %d", n)
	}
	if err := checkFinite(values); err != nil {
		return math.NaN(), math.NaN(), "", err
	}

	x := sortedCopy(values)
	if x[n-1]-x[0] < swSmall {
		return math.NaN(), math.NaN(), warnZeroVariance, nil
	}

	an := float64(n)
	nn2 := n / 2
	a := make([]float64, nn2+1) // 1-based, a[i] weights x[n-i] − x[i-1]

	if n == 3 {
		a[1] = math.Sqrt(0.5)
	} else {
		an25 := an + 0.25
		summ2 := 0.0
		for i := 1; i <= nn2; i++ {
			a[i] = NormalQuantile((float64(i) - 0.375) / an25)
			summ2 += a[i] * a[i]
		}
		summ2 *= 2
		ssumm2 := math.Sqrt(summ2)
		rsn := 1 / math.Sqrt(an)
		a1 := poly(swC1, rsn) - a[1]/ssumm2

		first := 2
		fac := math.Sqrt((summ2 - 2*a[1]*a[1]) / (1 - 2*a1*a1))
		if n > 5 {
			first = 3
			a2 := -a[2]/ssumm2 + poly(swC2, rsn)
			fac = math.Sqrt((summ2 - 2*a[1]*a[1] - 2*a[2]*a[2]) / (1 - 2*a1*a1 - 2*a2*a2))
			a[2] = a2
		}
		if math.IsNaN(fac) || fac == 0 {
			return math.NaN(), math.NaN(), "", errors.New("shapiro-wilk coefficients could not be normalised")
		}
		a[1] = a1
		for i := first; i <= nn2; i++ {
			a[i] /= -fac
		}
	}

	mean := stat.Mean(x, nil)
	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	num := 0.0
	for i := 1; i <= nn2; i++ {
		num += a[i] * (x[n-i] - x[i-1])
	}
	w := num * num / ss
	if w > 1 {
		w = 1
	}

	if n == 3 {
		// exact distribution
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return w, math.Max(p, 0), "", nil
	}

	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return w, 1e-99, "", nil
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return w, distuv.Normal{Mu: m, Sigma: s}.Survival(y), "", nil
}
