package eda

import (
	"math"
	"testing"
	"time"

	"goeda/domain/dataset"
	"goeda/domain/stats/eda"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTable() *dataset.Table {
	return dataset.MustTable(
		dataset.NewNumericColumn("a", []float64{1, 2, 3, 4, 5, 100}),
		dataset.NewStringColumn("b", []string{"x", "x", "y", "", "y", "z"}),
	)
}

func TestDescribeColumn(t *testing.T) {
	col, _ := scenarioTable().Column("a")
	d := DescribeColumn(col)

	assert.Equal(t, 6, d.Count)
	assert.InDelta(t, 115.0/6, d.Mean, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 100.0, d.Max)
	assert.InDelta(t, 2.25, d.Q25, 1e-12)
	assert.InDelta(t, 3.5, d.Median, 1e-12)
	assert.InDelta(t, 4.75, d.Q75, 1e-12)
	assert.InDelta(t, 39.6, d.Std, 0.1)
}

func TestDescribeColumn_Empty(t *testing.T) {
	col := dataset.NewNumericColumn("e", []float64{math.NaN()})
	d := DescribeColumn(col)

	assert.Equal(t, 0, d.Count)
	assert.True(t, math.IsNaN(d.Mean))
	assert.True(t, math.IsNaN(d.Q75))
}

func TestMissingSummary(t *testing.T) {
	entries := MissingSummary(scenarioTable())

	require.Len(t, entries, 2)
	assert.Equal(t, eda.MissingEntry{Column: "b", Count: 1, Percent: 16.67}, entries[0])
	assert.Equal(t, eda.MissingEntry{Column: "a", Count: 0, Percent: 0}, entries[1])
}

func TestDuplicateRows(t *testing.T) {
	assert.Equal(t, 0, DuplicateRows(scenarioTable()))

	table := dataset.MustTable(
		dataset.NewNumericColumn("n", []float64{1, 2, 1, math.NaN(), math.NaN()}),
		dataset.NewStringColumn("s", []string{"a", "b", "a", "", ""}),
	)
	assert.Equal(t, 2, DuplicateRows(table), "missing cells compare equal")
}

func TestDuplicateRows_TimestampsKeepFullPrecision(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	// same wall clock as base, one hour earlier as an instant
	shifted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	table := dataset.MustTable(
		dataset.NewTimestampColumn("quando", []time.Time{base, base.Add(250 * time.Millisecond), shifted}),
	)
	assert.Equal(t, 0, DuplicateRows(table))

	sameInstant := dataset.MustTable(
		dataset.NewTimestampColumn("quando", []time.Time{base, base.In(time.FixedZone("BRT", -3*3600))}),
	)
	assert.Equal(t, 1, DuplicateRows(sameInstant))
}

func TestDuplicateRows_CellBoundariesCannotBeForged(t *testing.T) {
	table := dataset.MustTable(
		dataset.NewStringColumn("x", []string{"p\x1fq", "p"}),
		dataset.NewStringColumn("y", []string{"r", "q\x1fr"}),
	)
	assert.Equal(t, 0, DuplicateRows(table))

	split := dataset.MustTable(
		dataset.NewStringColumn("x", []string{"ab", "a"}),
		dataset.NewStringColumn("y", []string{"c", "bc"}),
	)
	assert.Equal(t, 0, DuplicateRows(split))
}

func TestDuplicateRows_NumbersCompareExactly(t *testing.T) {
	table := dataset.MustTable(
		dataset.NewNumericColumn("v", []float64{1, math.Nextafter(1, 2), 0, math.Copysign(0, -1)}),
	)
	assert.Equal(t, 1, DuplicateRows(table), "only -0 and 0 coincide")
}

func TestSummarizeCategorical(t *testing.T) {
	col, _ := scenarioTable().Column("b")
	s := SummarizeCategorical(col, 15)

	assert.Equal(t, 4, s.Categories)
	assert.Equal(t, 6, s.Records)
	assert.Equal(t, []eda.CategoryCount{
		{Value: "x", Count: 2},
		{Value: "y", Count: 2},
		{Value: "nan", Count: 1},
		{Value: "z", Count: 1},
	}, s.Top)

	truncated := SummarizeCategorical(col, 2)
	assert.Len(t, truncated.Top, 2)
	assert.Equal(t, 4, truncated.Categories)
}

func TestCorrelationMatrixOf(t *testing.T) {
	table := dataset.MustTable(
		dataset.NewNumericColumn("x", []float64{1, 2, 3, 4}),
		dataset.NewNumericColumn("y", []float64{2, 4, 6, math.NaN()}),
		dataset.NewNumericColumn("z", []float64{4, 3, 2, 1}),
		dataset.NewNumericColumn("c", []float64{7, 7, 7, 7}),
	)
	m := CorrelationMatrixOf(table, []string{"x", "y", "z", "c"})

	require.Len(t, m.Values, 4)
	assert.InDelta(t, 1, m.Values[0][0], 1e-12)
	assert.InDelta(t, 1, m.Values[0][1], 1e-12)
	assert.InDelta(t, -1, m.Values[0][2], 1e-12)
	assert.Equal(t, m.Values[1][2], m.Values[2][1])
	assert.True(t, math.IsNaN(m.Values[0][3]), "constant column has no correlation")
}
