package console

import (
	"bytes"
	"math"
	"testing"

	"goeda/domain/stats/eda"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Tables(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDTypes([]string{"a", "b"}, []string{"int64", "object"})
	p.PrintMissing([]eda.MissingEntry{{Column: "b", Count: 1, Percent: 16.67}})
	p.PrintDescribe([]eda.Describe{{Column: "a", Count: 6, Mean: 1234.5, Std: math.NaN()}})
	p.PrintCategorical([]eda.CategoricalSummary{{Column: "b", Categories: 4, Top: []eda.CategoryCount{{Value: "x", Count: 2}}}})
	p.PrintNormality([]eda.ColumnStats{{
		Column:    "a",
		Normality: eda.NormalityResult{N: 6, Test: eda.TestShapiroWilk, PValue: 6.2e-5},
		Outliers:  eda.OutlierSummary{Low: -1.5, High: 8.5, Outliers: 1},
	}})
	p.PrintCorrelation(eda.CorrelationMatrix{Columns: []string{"a", "c"}, Values: [][]float64{{1, 0.5}, {0.5, 1}}})
	p.PrintSigma([]eda.SigmaRow{{Column: "a", K: 1, Coverage: "≈68%", Low: 1, High: 3}})
	p.PrintReport("EDA para: teste")

	out := buf.String()
	for _, want := range []string{
		"Tipos de dados", "int64",
		"Valores ausentes", "16,67",
		"Estatísticas descritivas", "1.234,500", "NaN",
		"Top categorias: b (4 categorias)",
		"Normalidade e outliers", "Shapiro–Wilk", "6.2e-05", "-1,500",
		"Matriz de correlação", "0,50",
		"Intervalos de sigma", "1σ (≈68%)",
		"Resumo", "EDA para: teste",
	} {
		assert.Contains(t, out, want)
	}
}
