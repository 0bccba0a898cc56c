package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"goeda/adapters/console"
	"goeda/domain/dataset"
	"goeda/internal/analysis/eda"
	"goeda/internal/config"
	"goeda/internal/errors"
	"goeda/internal/testkit"
	"goeda/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	table *dataset.Table
	err   error
}

func (r stubReader) ReadTable() (*dataset.Table, error) { return r.table, r.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.SummaryPath = filepath.Join(dir, "eda_resumo.txt")
	cfg.Output.PlotsPath = filepath.Join(dir, "eda_graficos.html")
	return cfg
}

func TestEDAService_AnalyzeCSV(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "vendas.csv")
	require.NoError(t, os.WriteFile(path, []byte("a;b\n1;x\n2;x\n3;y\n4;\n5;y\n100;z\n"), 0o644))

	var out bytes.Buffer
	svc := NewEDAService(cfg, console.NewPrinter(&out))
	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "vendas.csv", resp.Result.DatasetName)
	assert.Equal(t, []string{"a"}, resp.Result.NumericColumns)
	assert.Equal(t, "EDA para: vendas.csv", resp.Result.Lines[0])

	written, err := os.ReadFile(cfg.Output.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, resp.Result.Text, string(written))

	assert.Equal(t, cfg.Output.PlotsPath, resp.PlotsPath)
	assert.FileExists(t, cfg.Output.PlotsPath)
	assert.Contains(t, string(resp.PlotsHTML), "Histograma: a")
	assert.Contains(t, out.String(), "EDA para: vendas.csv")
}

func TestEDAService_PlotsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plot.Enabled = false

	table := testkit.NewShoppingDataGenerator(testkit.DefaultShoppingConfig()).GenerateTable()
	resp, err := NewEDAService(cfg, nil).Analyze(context.Background(), AnalyzeRequest{Table: table, Name: "compras"})
	require.NoError(t, err)

	assert.Equal(t, "compras", resp.Result.DatasetName)
	assert.Empty(t, resp.PlotsPath)
	assert.Nil(t, resp.PlotsHTML)
	assert.NoFileExists(t, cfg.Output.PlotsPath)
	assert.Zero(t, resp.Result.PlotErrors)
}

func TestEDAService_ConfiguredNameWins(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.DatasetName = "pedidos"
	table := dataset.MustTable(dataset.NewNumericColumn("a", []float64{1, 2, 3}))

	svc := NewEDAService(cfg, nil).WithReaderFactory(func(string) ports.TableReader {
		return stubReader{table: table}
	})
	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{Path: "qualquer.csv"})
	require.NoError(t, err)
	assert.Equal(t, "pedidos", resp.Result.DatasetName)
}

func TestEDAService_ExplicitNameMatchingDefaultIsKept(t *testing.T) {
	cfg := testConfig(t)
	table := dataset.MustTable(dataset.NewNumericColumn("a", []float64{1, 2, 3}))
	svc := NewEDAService(cfg, nil).WithReaderFactory(func(string) ports.TableReader {
		return stubReader{table: table}
	})

	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{Path: "voos.csv", Name: "dataset"})
	require.NoError(t, err)
	assert.Equal(t, "dataset", resp.Result.DatasetName)

	resp, err = svc.Analyze(context.Background(), AnalyzeRequest{Table: table})
	require.NoError(t, err)
	assert.Equal(t, "dataset", resp.Result.DatasetName, "in-memory tables fall back to the engine default")
}

func TestEDAService_NormalizeStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cidades.csv")
	require.NoError(t, os.WriteFile(path, []byte("cidade\nSão   Paulo\nSão Paulo\nRecife\n"), 0o644))

	for _, tc := range []struct {
		normalize bool
		want      int
	}{
		{false, 3},
		{true, 2},
	} {
		cfg := testConfig(t)
		cfg.Plot.Enabled = false
		cfg.Data.NormalizeStrings = tc.normalize

		resp, err := NewEDAService(cfg, nil).Analyze(context.Background(), AnalyzeRequest{Path: path})
		require.NoError(t, err)
		require.Len(t, resp.Result.Categorical, 1)
		assert.Equal(t, tc.want, resp.Result.Categorical[0].Categories)
	}
}

func TestEDAService_Errors(t *testing.T) {
	cfg := testConfig(t)
	svc := NewEDAService(cfg, nil)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = svc.Analyze(context.Background(), AnalyzeRequest{Path: filepath.Join(t.TempDir(), "nao_existe.csv")})
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Analyze(ctx, AnalyzeRequest{Table: dataset.MustTable()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output.SummaryPath)
}

func TestEDAService_OptionsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Alpha = 0.01
	cfg.Plot.MaxQQPlots = 2

	opts := NewEDAService(cfg, nil).Options("")
	assert.Equal(t, 0.01, opts.Alpha)
	assert.Equal(t, 2, opts.MaxQQPlots)
	assert.Empty(t, opts.DatasetName)

	cfg.Plot.Enabled = false
	assert.Zero(t, NewEDAService(cfg, nil).Options("x").MaxNumericPlots)
}

func TestEDAService_ServeRequiresAddress(t *testing.T) {
	cfg := testConfig(t)
	svc := NewEDAService(cfg, nil)

	err := svc.Serve(context.Background(), &AnalyzeResponse{})
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))

	result := &AnalyzeResponse{Result: &eda.Result{DatasetName: "x"}}
	err = svc.Serve(context.Background(), result)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
