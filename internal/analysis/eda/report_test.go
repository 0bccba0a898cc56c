package eda

import (
	"math"
	"testing"

	"goeda/domain/stats/eda"

	"github.com/stretchr/testify/assert"
)

func TestReportBuilder_HeaderAndMissingness(t *testing.T) {
	b := NewReportBuilder()
	b.AddHeader("vendas.csv", 6, 2)
	b.AddMissingness([]eda.MissingEntry{
		{Column: "b", Count: 3, Percent: 50},
		{Column: "c", Count: 1, Percent: 16.67},
		{Column: "a", Count: 0, Percent: 0},
	}, 3)

	assert.Equal(t, []string{
		"EDA para: vendas.csv",
		"Formato: 6 linhas × 2 colunas",
		"",
		"Colunas com valores ausentes: 2 de 3",
		"Top colunas com mais ausências:",
		"  - b: 3 (50.0%)",
		"  - c: 1 (16.67%)",
		"",
	}, b.Lines())
}

func TestReportBuilder_MissingnessShowsAtMostFive(t *testing.T) {
	var entries []eda.MissingEntry
	for _, c := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		entries = append(entries, eda.MissingEntry{Column: c, Count: 1, Percent: 10})
	}
	b := NewReportBuilder()
	b.AddMissingness(entries, 7)

	lines := b.Lines()
	assert.Equal(t, "Colunas com valores ausentes: 7 de 7", lines[0])
	assert.Len(t, lines, 1+1+5+1)
}

func TestReportBuilder_Inventories(t *testing.T) {
	b := NewReportBuilder()
	b.AddNumericInventory(nil)
	b.AddNumericInventory([]string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"})
	b.AddCategoricalInventory(nil)
	b.AddCategoricalInventory([]eda.CategoricalSummary{{
		Column: "b", Categories: 4, Records: 6,
		Top: []eda.CategoryCount{{Value: "x", Count: 2}, {Value: "nan", Count: 1}},
	}})

	assert.Equal(t, []string{
		"Não há colunas numéricas.",
		"",
		"Colunas numéricas: 9 → c1, c2, c3, c4, c5, c6, c7, c8…",
		"",
		"Colunas categóricas: 1 → b",
		"  - b: 4 categorias, 6 registros; top: x (2), nan (1)",
		"",
	}, b.Lines())
}

func TestReportBuilder_NormalityTable(t *testing.T) {
	b := NewReportBuilder()
	b.AddNormalityTable([]eda.ColumnStats{
		{
			Column: "a",
			Normality: eda.NormalityResult{
				N: 6, Skew: 2.4448, Kurtosis: 5.9769, Status: eda.StatusOK,
				Test: eda.TestShapiroWilk, Statistic: 0.5313, PValue: 6.214e-05,
			},
			Outliers: eda.OutlierSummary{Low: -1.5, High: 8.5, Outliers: 1},
		},
		{
			Column: "e",
			Normality: eda.NormalityResult{
				Skew: math.NaN(), Kurtosis: math.NaN(), Status: eda.StatusInsufficientData,
				Test: eda.TestInsufficientData, PValue: math.NaN(),
			},
			Outliers: eda.OutlierSummary{Low: math.NaN(), High: math.NaN()},
		},
	}, 0.05)

	assert.Equal(t, []string{
		"Normalidade e outliers (α=0.05):",
		"  - a: n=6, skew=2.44, kurtosis=5.98, teste=Shapiro–Wilk, p=6.214e-05, aparenta normal=não, IQR=[-1.50, 8.50], outliers=1",
		"  - e: n=0, skew=nan, kurtosis=nan, teste=insufficient data, p=nan, aparenta normal=não, IQR=[nan, nan], outliers=0",
		"",
	}, b.Lines())
}

func TestReportBuilder_EmptySectionsWriteNothing(t *testing.T) {
	b := NewReportBuilder()
	b.AddNormalityTable(nil, 0.05)
	b.AddSigmaTable(nil)
	b.AddWarnings(nil)
	assert.Empty(t, b.Lines())
	assert.Equal(t, "", b.String())
}

func TestWarnings(t *testing.T) {
	assert.Empty(t, Warnings(Findings{Alpha: 0.05}))

	got := Warnings(Findings{
		Duplicates: 1, MissingColumns: 2, NumericColumns: 3,
		NonNormal: 1, OutlierColumns: 2, Alpha: 0.05,
	})
	assert.Equal(t, []string{
		"1 linhas duplicadas",
		"2 colunas com ausências",
		"1/3 colunas numéricas não parecem normais (α=0.05)",
		"Outliers pelo IQR em 2 colunas numéricas",
	}, got)
}

func TestSuggestions(t *testing.T) {
	assert.Empty(t, Suggestions(Findings{}))
	assert.Len(t, Suggestions(Findings{NumericColumns: 1}), 2)
	assert.Len(t, Suggestions(Findings{NumericColumns: 2}), 3)
	assert.Len(t, Suggestions(Findings{MissingColumns: 1, Duplicates: 1, NumericColumns: 2}), 5)
}
