package eda

import (
	"fmt"
	"math"
	"os"
	"time"

	"goeda/domain/dataset"
	"goeda/domain/stats/eda"
	"goeda/internal"
	"goeda/internal/errors"
	"goeda/ports"

	"github.com/google/uuid"
)

// Default presentation limits of a run
const (
	DefaultMaxNumericPlots = 12
	DefaultMaxQQPlots      = 6
	DefaultMaxBoxPlots     = 8
	DefaultTopKCategories  = 15
	DefaultSummaryPath     = "eda_resumo.txt"
	DefaultDatasetName     = "dataset"

	// qqMinValues is the smallest sample a QQ plot is drawn for
	qqMinValues = 3
	// heatmapMinColumns is the number of numeric columns a correlation heatmap needs
	heatmapMinColumns = 2
)

// Options configures one orchestrated run
type Options struct {
	DatasetName     string
	Alpha           float64
	MaxNumericPlots int
	MaxQQPlots      int
	MaxBoxPlots     int
	TopKCategories  int
	SummaryPath     string
	SampleCap       int
	Seed            int64
}

// DefaultOptions returns the options of a plain run
func DefaultOptions() Options {
	return Options{
		DatasetName:     DefaultDatasetName,
		Alpha:           DefaultAlpha,
		MaxNumericPlots: DefaultMaxNumericPlots,
		MaxQQPlots:      DefaultMaxQQPlots,
		MaxBoxPlots:     DefaultMaxBoxPlots,
		TopKCategories:  DefaultTopKCategories,
		SummaryPath:     DefaultSummaryPath,
		SampleCap:       DefaultSampleCap,
		Seed:            DefaultSeed,
	}
}

func (o Options) normalized() Options {
	if o.DatasetName == "" {
		o.DatasetName = DefaultDatasetName
	}
	if o.Alpha <= 0 || o.Alpha >= 1 || math.IsNaN(o.Alpha) {
		o.Alpha = DefaultAlpha
	}
	o.MaxNumericPlots = max(o.MaxNumericPlots, 0)
	o.MaxQQPlots = max(o.MaxQQPlots, 0)
	o.MaxBoxPlots = max(o.MaxBoxPlots, 0)
	if o.TopKCategories <= 0 {
		o.TopKCategories = DefaultTopKCategories
	}
	if o.SummaryPath == "" {
		o.SummaryPath = DefaultSummaryPath
	}
	return o
}

// Result is everything a run computed, plus the report it wrote
type Result struct {
	RunID              string                   `json:"run_id"`
	DatasetName        string                   `json:"dataset_name"`
	Rows               int                      `json:"rows"`
	Columns            int                      `json:"columns"`
	ColumnNames        []string                 `json:"column_names"`
	DTypes             []string                 `json:"dtypes"`
	Missing            []eda.MissingEntry       `json:"missing"`
	Duplicates         int                      `json:"duplicates"`
	Describe           []eda.Describe           `json:"describe"`
	NumericColumns     []string                 `json:"numeric_columns"`
	CategoricalColumns []string                 `json:"categorical_columns"`
	Categorical        []eda.CategoricalSummary `json:"categorical"`
	Stats              []eda.ColumnStats        `json:"stats"`
	Correlation        *eda.CorrelationMatrix   `json:"correlation,omitempty"`
	Sigma              []eda.SigmaRow           `json:"sigma"`
	Warnings           []string                 `json:"warnings"`
	Suggestions        []string                 `json:"suggestions"`
	Lines              []string                 `json:"lines"`
	Text               string                   `json:"text"`
	SummaryPath        string                   `json:"summary_path"`
	PlotErrors         int                      `json:"plot_errors"`
}

// Engine orchestrates a run: profiling, per-column assessment, figures,
// the findings report and its single write to disk
type Engine struct {
	renderer ports.PlotRenderer
	console  ports.ConsolePrinter
	logger   *internal.Logger
}

// EngineOption customises an Engine
type EngineOption func(*Engine)

// WithRenderer sends figures to r; without one no figures are produced
func WithRenderer(r ports.PlotRenderer) EngineOption {
	return func(e *Engine) { e.renderer = r }
}

// WithConsole sends the intermediate tables to p
func WithConsole(p ports.ConsolePrinter) EngineOption {
	return func(e *Engine) { e.console = p }
}

// WithLogger replaces the default logger
func WithLogger(l *internal.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: internal.DefaultLogger.With("EDAEngine")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run analyses t, renders its figures, writes the report to opts.SummaryPath
// (replacing any previous content) and returns the computed result. The only
// error is a failure to write the report; renderer failures are logged and
// counted in Result.PlotErrors.
func (e *Engine) Run(t *dataset.Table, opts Options) (*Result, error) {
	if t == nil {
		return nil, errors.InvalidInput("no table to analyse")
	}
	opts = opts.normalized()
	start := time.Now()

	res := &Result{
		RunID:              uuid.NewString(),
		DatasetName:        opts.DatasetName,
		Rows:               t.Rows(),
		Columns:            t.Width(),
		ColumnNames:        t.Names(),
		NumericColumns:     t.NumericNames(),
		CategoricalColumns: t.CategoricalNames(),
		SummaryPath:        opts.SummaryPath,
	}
	e.logger.Info("run %s: %q with %d rows × %d columns", res.RunID, opts.DatasetName, res.Rows, res.Columns)

	for _, c := range t.Columns() {
		res.DTypes = append(res.DTypes, c.DType())
	}
	res.Missing = MissingSummary(t)
	res.Duplicates = DuplicateRows(t)
	for _, name := range res.NumericColumns {
		col, _ := t.Column(name)
		res.Describe = append(res.Describe, DescribeColumn(col))
	}
	for _, name := range res.CategoricalColumns {
		col, _ := t.Column(name)
		res.Categorical = append(res.Categorical, SummarizeCategorical(col, opts.TopKCategories))
	}

	if e.console != nil {
		e.console.PrintDTypes(res.ColumnNames, res.DTypes)
		e.console.PrintMissing(res.Missing)
		if len(res.Describe) > 0 {
			e.console.PrintDescribe(res.Describe)
		}
		if len(res.Categorical) > 0 {
			e.console.PrintCategorical(res.Categorical)
		}
	}

	normOpts := NormalityOptions{Alpha: opts.Alpha, SampleCap: opts.SampleCap, Seed: opts.Seed}
	for _, name := range res.NumericColumns {
		col, _ := t.Column(name)
		x := col.Valid()
		cs := eda.ColumnStats{
			Column:    name,
			Normality: AssessNormality(x, normOpts),
			Outliers:  SummarizeOutliers(x),
		}
		if cs.Normality.Status == eda.StatusFailed {
			e.logger.Warn("normality test failed on %s: %s", name, cs.Normality.Error)
		}
		res.Stats = append(res.Stats, cs)
	}
	if e.console != nil && len(res.Stats) > 0 {
		e.console.PrintNormality(res.Stats)
	}

	res.PlotErrors = e.renderFigures(t, res.NumericColumns, opts)

	if len(res.NumericColumns) >= heatmapMinColumns {
		m := CorrelationMatrixOf(t, res.NumericColumns)
		res.Correlation = &m
		if e.renderer != nil {
			fig := ports.HeatmapFigure{Title: "Correlação (numéricas)", Labels: m.Columns, Matrix: m.Values}
			if err := e.renderer.Heatmap(fig); err != nil {
				e.logger.Warn("heatmap: %v", err)
				res.PlotErrors++
			}
		}
		if e.console != nil {
			e.console.PrintCorrelation(m)
		}
	}

	res.Sigma = BuildSigmaIntervals(t, res.NumericColumns)
	if e.console != nil && len(res.Sigma) > 0 {
		e.console.PrintSigma(res.Sigma)
	}

	findings := Findings{
		Duplicates:     res.Duplicates,
		NumericColumns: len(res.NumericColumns),
		Alpha:          opts.Alpha,
	}
	for _, m := range res.Missing {
		if m.Count > 0 {
			findings.MissingColumns++
		}
	}
	for _, cs := range res.Stats {
		if !cs.Normality.IsNormal {
			findings.NonNormal++
		}
		if cs.Outliers.Outliers > 0 {
			findings.OutlierColumns++
		}
	}
	res.Warnings = Warnings(findings)
	res.Suggestions = Suggestions(findings)

	b := NewReportBuilder()
	b.AddHeader(opts.DatasetName, res.Rows, res.Columns)
	b.AddDTypes(res.ColumnNames, res.DTypes)
	b.AddMissingness(res.Missing, res.Columns)
	b.AddDuplicates(res.Duplicates)
	b.AddNumericInventory(res.NumericColumns)
	b.AddCategoricalInventory(res.Categorical)
	b.AddNormalityTable(res.Stats, opts.Alpha)
	b.AddSigmaTable(res.Sigma)
	b.AddWarnings(res.Warnings)
	b.AddSuggestions(res.Suggestions)
	res.Lines = b.Lines()
	res.Text = b.String()

	if err := os.WriteFile(opts.SummaryPath, []byte(res.Text), 0o644); err != nil {
		return nil, errors.IOError(opts.SummaryPath, err)
	}
	if e.console != nil {
		e.console.PrintReport(res.Text)
	}

	e.logger.Info("run %s: report written to %s in %v (%d figure errors)", res.RunID, opts.SummaryPath, time.Since(start).Round(time.Millisecond), res.PlotErrors)
	return res, nil
}

// renderFigures draws histograms, QQ plots and boxplots for the leading
// numeric columns, skipping columns without enough values. It returns the
// number of renderer failures.
func (e *Engine) renderFigures(t *dataset.Table, numeric []string, opts Options) int {
	if e.renderer == nil {
		return 0
	}
	failures := 0
	draw := func(kind string, fig ports.Figure, render func(ports.Figure) error) {
		if err := render(fig); err != nil {
			e.logger.Warn("%s for %s: %v", kind, fig.Column, err)
			failures++
		}
	}

	for _, name := range leading(numeric, opts.MaxNumericPlots) {
		x := validOf(t, name)
		if len(x) == 0 {
			continue
		}
		draw("histogram", ports.Figure{
			Column: name, Title: fmt.Sprintf("Histograma: %s", name),
			XLabel: name, YLabel: "Frequência", Values: x,
		}, e.renderer.Histogram)
	}
	for _, name := range leading(numeric, opts.MaxQQPlots) {
		x := validOf(t, name)
		if len(x) < qqMinValues {
			continue
		}
		draw("qq plot", ports.Figure{
			Column: name, Title: fmt.Sprintf("QQ-plot: %s", name),
			XLabel: "Quantis teóricos", YLabel: "Quantis amostrais", Values: x,
		}, e.renderer.QQPlot)
	}
	for _, name := range leading(numeric, opts.MaxBoxPlots) {
		x := validOf(t, name)
		if len(x) == 0 {
			continue
		}
		draw("boxplot", ports.Figure{
			Column: name, Title: fmt.Sprintf("Boxplot: %s", name),
			XLabel: name, Values: x,
		}, e.renderer.BoxPlot)
	}
	return failures
}

func leading(names []string, limit int) []string {
	if limit < len(names) {
		return names[:limit]
	}
	return names
}

func validOf(t *dataset.Table, name string) []float64 {
	col, _ := t.Column(name)
	return col.Valid()
}
