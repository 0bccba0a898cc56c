package eda

import (
	"math"

	"goeda/domain/stats/eda"
)

// IQRMultiplier is Tukey's fence distance in interquartile ranges
const IQRMultiplier = 1.5

// SummarizeOutliers computes Tukey fences and counts the values strictly
// outside them. NaN values are ignored; an empty sample yields NaN fences and
// zero outliers.
func SummarizeOutliers(values []float64) eda.OutlierSummary {
	x := sortedCopy(dropNaN(values))
	if len(x) == 0 {
		nan := math.NaN()
		return eda.OutlierSummary{Q1: nan, Q3: nan, IQR: nan, Low: nan, High: nan}
	}

	q1 := QuantileSorted(0.25, x)
	q3 := QuantileSorted(0.75, x)
	iqr := q3 - q1
	low := q1 - IQRMultiplier*iqr
	high := q3 + IQRMultiplier*iqr

	count := 0
	for _, v := range x {
		if v < low || v > high {
			count++
		}
	}

	return eda.OutlierSummary{
		Q1:       q1,
		Q3:       q3,
		IQR:      iqr,
		Low:      low,
		High:     high,
		Outliers: count,
	}
}
