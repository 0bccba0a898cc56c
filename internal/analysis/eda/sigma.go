package eda

import (
	"goeda/domain/dataset"
	"goeda/domain/stats/eda"

	"gonum.org/v1/gonum/stat"
)

// sigmaCoverage pairs each multiplier with the share a normal distribution
// places inside mean ± kσ. The labels are reference values only.
var sigmaCoverage = []struct {
	k     float64
	label string
}{
	{0.5, "≈38%"},
	{1, "≈68%"},
	{2, "≈95%"},
	{3, "≈99.7%"},
}

// BuildSigmaIntervals emits mean ± kσ rows (sample standard deviation) for
// every named column holding at least one valid value. Unknown, non-numeric
// and empty columns are skipped.
func BuildSigmaIntervals(t *dataset.Table, columns []string) []eda.SigmaRow {
	var rows []eda.SigmaRow
	for _, name := range columns {
		col, ok := t.Column(name)
		if !ok || col.Type != dataset.ValueTypeNumeric {
			continue
		}
		x := col.Valid()
		if len(x) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(x, nil)
		for _, c := range sigmaCoverage {
			rows = append(rows, eda.SigmaRow{
				Column:   name,
				K:        c.k,
				Coverage: c.label,
				Mean:     mean,
				StdDev:   std,
				Low:      mean - c.k*std,
				High:     mean + c.k*std,
			})
		}
	}
	return rows
}
