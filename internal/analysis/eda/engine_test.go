package eda

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goeda/domain/dataset"
	"goeda/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls []string
	fail  bool
}

func (r *recordingRenderer) record(kind, column string) error {
	r.calls = append(r.calls, kind+":"+column)
	if r.fail {
		return errors.New("display unavailable")
	}
	return nil
}

func (r *recordingRenderer) Histogram(fig ports.Figure) error { return r.record("hist", fig.Column) }
func (r *recordingRenderer) QQPlot(fig ports.Figure) error    { return r.record("qq", fig.Column) }
func (r *recordingRenderer) BoxPlot(fig ports.Figure) error   { return r.record("box", fig.Column) }
func (r *recordingRenderer) Heatmap(fig ports.HeatmapFigure) error {
	return r.record("heatmap", strings.Join(fig.Labels, ","))
}

func runOptions(t *testing.T, name string) Options {
	opts := DefaultOptions()
	opts.DatasetName = name
	opts.SummaryPath = filepath.Join(t.TempDir(), "eda_resumo.txt")
	return opts
}

func TestEngine_ScenarioOutlierAndMissing(t *testing.T) {
	renderer := &recordingRenderer{}
	engine := NewEngine(WithRenderer(renderer))
	opts := runOptions(t, "scenario-a")

	res, err := engine.Run(scenarioTable(), opts)
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Linhas duplicadas: 0")
	assert.Contains(t, res.Text, "  - b: 1 (16.67%)")
	assert.Contains(t, res.Text, "Colunas com valores ausentes: 1 de 2")
	assert.Contains(t, res.Text, "Outliers pelo IQR em 1 colunas numéricas")

	require.Len(t, res.Stats, 1)
	assert.Equal(t, "a", res.Stats[0].Column)
	assert.GreaterOrEqual(t, res.Stats[0].Outliers.Outliers, 1)
	assert.Equal(t, 1, res.Missing[0].Count)
	assert.Equal(t, "b", res.Missing[0].Column)

	assert.Equal(t, []string{"hist:a", "qq:a", "box:a"}, renderer.calls, "a single numeric column gets no heatmap")
	assert.Nil(t, res.Correlation)
	assert.Len(t, res.Sigma, 4)

	written, err := os.ReadFile(opts.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, res.Text, string(written))
	assert.Equal(t, "EDA para: scenario-a", res.Lines[0])
	assert.Equal(t, "Formato: 6 linhas × 2 colunas", res.Lines[1])
}

func TestEngine_ScenarioDuplicates(t *testing.T) {
	table := dataset.MustTable(
		dataset.NewNumericColumn("x", []float64{1, 2, 1, 3}),
		dataset.NewStringColumn("y", []string{"p", "q", "p", "r"}),
	)
	res, err := NewEngine().Run(table, runOptions(t, "dups"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Duplicates)
	assert.Contains(t, res.Text, "Linhas duplicadas: 1")
	assert.Contains(t, res.Text, " - 1 linhas duplicadas")
	assert.Contains(t, res.Text, "Remover/justificar duplicatas; investigar chaves primárias.")
}

func TestEngine_ScenarioNoNumericColumns(t *testing.T) {
	renderer := &recordingRenderer{}
	table := dataset.MustTable(
		dataset.NewStringColumn("cidade", []string{"Recife", "Natal", "Recife"}),
		dataset.NewBooleanColumn("ativo", []bool{true, false, true}),
	)
	res, err := NewEngine(WithRenderer(renderer)).Run(table, runOptions(t, "texto"))
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Não há colunas numéricas.")
	assert.NotContains(t, res.Text, "Intervalos de sigma")
	assert.NotContains(t, res.Text, "Normalidade e outliers")
	assert.Empty(t, res.Sigma)
	assert.Nil(t, res.Correlation)
	assert.Empty(t, renderer.calls)
	assert.Contains(t, res.Text, "Colunas categóricas: 2 → cidade, ativo")
}

func TestEngine_IdempotentOverwrite(t *testing.T) {
	opts := runOptions(t, "idem")
	require.NoError(t, os.WriteFile(opts.SummaryPath, []byte(strings.Repeat("stale\n", 1000)), 0o644))

	engine := NewEngine()
	first, err := engine.Run(scenarioTable(), opts)
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(opts.SummaryPath)
	require.NoError(t, err)

	second, err := engine.Run(scenarioTable(), opts)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(opts.SummaryPath)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, firstBytes, secondBytes)
	assert.Equal(t, second.Text, string(secondBytes))
	assert.NotContains(t, string(secondBytes), "stale")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestEngine_PlotLimitsAndSkips(t *testing.T) {
	renderer := &recordingRenderer{}
	table := dataset.MustTable(
		dataset.NewNumericColumn("n1", []float64{1, 2, 3, 4}),
		dataset.NewNumericColumn("n2", []float64{1, 2, math.NaN(), math.NaN()}),
		dataset.NewNumericColumn("n3", []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}),
		dataset.NewNumericColumn("n4", []float64{4, 1, 3, 2}),
	)
	opts := runOptions(t, "limits")
	opts.MaxNumericPlots = 3
	opts.MaxQQPlots = 2
	opts.MaxBoxPlots = 0

	res, err := NewEngine(WithRenderer(renderer)).Run(table, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"hist:n1", "hist:n2",
		"qq:n1",
		"heatmap:n1,n2,n3,n4",
	}, renderer.calls)
	require.NotNil(t, res.Correlation)
	assert.Len(t, res.Stats, 4)
	assert.Len(t, res.Sigma, 12, "the all-missing column has no sigma rows")
}

func TestEngine_RendererFailuresDoNotAbort(t *testing.T) {
	renderer := &recordingRenderer{fail: true}
	table := dataset.MustTable(
		dataset.NewNumericColumn("a", []float64{1, 2, 3, 4}),
		dataset.NewNumericColumn("b", []float64{2, 1, 4, 3}),
	)
	res, err := NewEngine(WithRenderer(renderer)).Run(table, runOptions(t, "falhas"))
	require.NoError(t, err)

	assert.Equal(t, len(renderer.calls), res.PlotErrors)
	assert.Contains(t, res.Text, "Sugestões próximas etapas:")
}

func TestEngine_WriteFailure(t *testing.T) {
	opts := runOptions(t, "x")
	opts.SummaryPath = filepath.Join(t.TempDir(), "missing-dir", "out.txt")

	_, err := NewEngine().Run(scenarioTable(), opts)
	require.Error(t, err)
}

func TestEngine_NilTable(t *testing.T) {
	_, err := NewEngine().Run(nil, DefaultOptions())
	require.Error(t, err)
}
