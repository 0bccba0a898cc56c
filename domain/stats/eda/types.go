package eda

import (
	"fmt"
	"math"
)

// TestStatus tags the outcome of a normality assessment
type TestStatus string

const (
	StatusOK               TestStatus = "ok"
	StatusInsufficientData TestStatus = "insufficient_data"
	StatusFailed           TestStatus = "failed"
)

// Test names as they appear in the findings report
const (
	TestShapiroWilk      = "Shapiro–Wilk"
	TestDAgostinoK2      = "D'Agostino K²"
	TestInsufficientData = "insufficient data"
	TestFailed           = "failed"
)

// NormalityResult is the status-tagged outcome of the normality assessor
type NormalityResult struct {
	N          int        `json:"n"`
	Skew       float64    `json:"skew"`
	Kurtosis   float64    `json:"kurtosis"` // excess
	Status     TestStatus `json:"status"`
	Test       string     `json:"test"`
	Statistic  float64    `json:"statistic"`
	PValue     float64    `json:"p_value"`
	IsNormal   bool       `json:"is_normal"`
	Subsampled bool       `json:"subsampled,omitempty"`
	Warning    string     `json:"warning,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// OutlierSummary holds the Tukey fences of a column. Empty input yields NaN
// quartiles and fences with zero outliers.
type OutlierSummary struct {
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	IQR      float64 `json:"iqr"`
	Low      float64 `json:"iqr_low"`
	High     float64 `json:"iqr_high"`
	Outliers int     `json:"n_outliers"`
}

// ColumnStats is the per numeric column record of a run
type ColumnStats struct {
	Column    string          `json:"column"`
	Normality NormalityResult `json:"normality"`
	Outliers  OutlierSummary  `json:"outliers"`
}

// SigmaRow is one mean ± kσ reference interval. Coverage is the theoretical
// share under a normal distribution, never measured on the data.
type SigmaRow struct {
	Column   string  `json:"column"`
	K        float64 `json:"k"`
	Coverage string  `json:"coverage"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Low      float64 `json:"low"`
	High     float64 `json:"high"`
}

// Label renders the multiplier with its coverage, e.g. "0.5σ (≈38%)"
func (r SigmaRow) Label() string {
	return fmt.Sprintf("%sσ (%s)", formatK(r.K), r.Coverage)
}

// Interval renders the bounds with two decimals, e.g. "[1.00, 3.00]"
func (r SigmaRow) Interval() string {
	return fmt.Sprintf("[%.2f, %.2f]", r.Low, r.High)
}

func formatK(k float64) string {
	if k == math.Trunc(k) {
		return fmt.Sprintf("%.0f", k)
	}
	return fmt.Sprintf("%g", k)
}

// Describe is the descriptive statistics row of a numeric column
type Describe struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// MissingEntry counts missing cells of one column
type MissingEntry struct {
	Column  string  `json:"column"`
	Count   int     `json:"missing_count"`
	Percent float64 `json:"missing_pct"` // rounded to two decimals
}

// CategoryCount is one value of a categorical frequency table
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalSummary describes a non-numeric column
type CategoricalSummary struct {
	Column     string          `json:"column"`
	Categories int             `json:"n_categories"`
	Records    int             `json:"n_records"`
	Top        []CategoryCount `json:"top"`
}

// CorrelationMatrix holds pairwise Pearson coefficients across numeric columns
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
