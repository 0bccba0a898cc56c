package plot

import (
	"math"
	"sort"

	"goeda/internal/analysis/eda"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// maxHistogramBins bounds the Freedman–Diaconis count, which grows with the
// distance of a single outlier from a tight cluster
const maxHistogramBins = 1000

// Bins is a histogram: len(Edges) == len(Counts)+1
type Bins struct {
	Edges  []float64
	Counts []float64
}

// HistogramBins bins the finite values with the larger of the Sturges and
// Freedman–Diaconis bin counts, the usual "auto" rule
func HistogramBins(values []float64) Bins {
	x := finiteSorted(values)
	n := len(x)
	if n == 0 {
		return Bins{}
	}
	lo, hi := x[0], x[n-1]
	if lo == hi {
		return Bins{Edges: []float64{lo - 0.5, lo + 0.5}, Counts: []float64{float64(n)}}
	}

	span := hi - lo
	width := span / (math.Log2(float64(n)) + 1)
	iqr := stat.Quantile(0.75, stat.LinInterp, x, nil) - stat.Quantile(0.25, stat.LinInterp, x, nil)
	if fd := 2 * iqr * math.Pow(float64(n), -1.0/3); fd > 0 && fd < width {
		width = fd
	}
	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1
	bins := int(math.Min(math.Ceil(span/width), float64(max(sturges, maxHistogramBins))))
	if bins < 1 {
		bins = 1
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	edges[bins] = hi
	// stat.Histogram wants a half-open last bin; nudge it to include the maximum
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)
	return Bins{Edges: edges, Counts: counts}
}

// QQ holds a normal probability plot with its least squares reference line
type QQ struct {
	Theoretical []float64
	Ordered     []float64
	Slope       float64
	Intercept   float64
}

// QQPoints pairs the sorted sample with the normal order statistic medians
func QQPoints(values []float64) QQ {
	x := finiteSorted(values)
	if len(x) == 0 {
		return QQ{}
	}
	theo := eda.OrderStatisticMedians(len(x))
	qq := QQ{Theoretical: theo, Ordered: x, Slope: math.NaN(), Intercept: math.NaN()}
	if len(x) > 1 {
		qq.Intercept, qq.Slope = stat.LinearRegression(theo, x, nil, false)
	}
	return qq
}

// Box summarises a sample the way a Tukey boxplot draws it
type Box struct {
	LowerWhisker float64
	Q1           float64
	Median       float64
	Q3           float64
	UpperWhisker float64
	Outliers     []float64
}

// BoxStats places the whiskers at the most extreme values inside the 1.5·IQR fences
func BoxStats(values []float64) (Box, bool) {
	x := finiteSorted(values)
	if len(x) == 0 {
		return Box{}, false
	}
	b := Box{
		Q1:     eda.QuantileSorted(0.25, x),
		Median: eda.QuantileSorted(0.5, x),
		Q3:     eda.QuantileSorted(0.75, x),
	}
	iqr := b.Q3 - b.Q1
	low, high := b.Q1-eda.IQRMultiplier*iqr, b.Q3+eda.IQRMultiplier*iqr

	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range x {
		if v >= low {
			b.LowerWhisker = math.Min(v, b.Q1)
			break
		}
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] <= high {
			b.UpperWhisker = math.Max(x[i], b.Q3)
			break
		}
	}
	for _, v := range x {
		if v < low || v > high {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, true
}

func finiteSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
