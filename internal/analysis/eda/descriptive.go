package eda

import (
	"math"
	"sort"

	"goeda/domain/dataset"
	"goeda/domain/stats/eda"

	"github.com/montanaflynn/stats"
	gstat "gonum.org/v1/gonum/stat"
)

// DescribeColumn computes count, mean, std, min, quartiles and max of the
// valid values. Statistics of an empty column are NaN.
func DescribeColumn(col dataset.Column) eda.Describe {
	x := col.Valid()
	d := eda.Describe{Column: col.Name, Count: len(x)}
	if len(x) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Median, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	d.Mean, _ = stats.Mean(x)
	d.Std = math.NaN()
	if len(x) > 1 {
		d.Std, _ = stats.StandardDeviationSample(x)
	}
	d.Min, _ = stats.Min(x)
	d.Max, _ = stats.Max(x)
	d.Median, _ = stats.Median(x)

	sorted := sortedCopy(x)
	d.Q25 = QuantileSorted(0.25, sorted)
	d.Q75 = QuantileSorted(0.75, sorted)
	return d
}

// MissingSummary counts missing cells per column, sorted by count descending
// (ties keep table order). Percentages are rounded to two decimals.
func MissingSummary(t *dataset.Table) []eda.MissingEntry {
	entries := make([]eda.MissingEntry, 0, t.Width())
	for _, c := range t.Columns() {
		count := c.MissingCount()
		pct := math.NaN()
		if t.Rows() > 0 {
			pct = math.Round(float64(count)/float64(t.Rows())*100*100) / 100
		}
		entries = append(entries, eda.MissingEntry{Column: c.Name, Count: count, Percent: pct})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// DuplicateRows counts rows identical to an earlier row across all columns
func DuplicateRows(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	for i := 0; i < t.Rows(); i++ {
		key := t.RowKey(i)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// SummarizeCategorical builds the frequency table of a column with missing
// cells counted under "nan". Values are ordered by count descending, ties by
// first appearance, and truncated to topK.
func SummarizeCategorical(col dataset.Column, topK int) eda.CategoricalSummary {
	counts := make(map[string]int)
	var order []string
	for _, v := range col.Cells {
		label := v.Label()
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}

	freq := make([]eda.CategoryCount, 0, len(order))
	for _, label := range order {
		freq = append(freq, eda.CategoryCount{Value: label, Count: counts[label]})
	}
	sort.SliceStable(freq, func(i, j int) bool {
		return freq[i].Count > freq[j].Count
	})

	summary := eda.CategoricalSummary{
		Column:     col.Name,
		Categories: len(freq),
		Records:    len(col.Cells),
	}
	if topK > 0 && len(freq) > topK {
		freq = freq[:topK]
	}
	summary.Top = freq
	return summary
}

// CorrelationMatrixOf computes Pearson coefficients over pairwise complete
// observations. Pairs with fewer than two shared rows or no variance are NaN.
func CorrelationMatrixOf(t *dataset.Table, columns []string) eda.CorrelationMatrix {
	series := make([][]float64, len(columns))
	for i, name := range columns {
		col, _ := t.Column(name)
		series[i] = col.Floats()
	}

	values := make([][]float64, len(columns))
	for i := range values {
		values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pairwiseCorrelation(series[i], series[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return eda.CorrelationMatrix{Columns: columns, Values: values}
}

func pairwiseCorrelation(a, b []float64) float64 {
	var x, y []float64
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	if len(x) < 2 || gstat.Variance(x, nil) == 0 || gstat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return gstat.Correlation(x, y, nil)
}
