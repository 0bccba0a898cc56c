package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"goeda/internal"
	"goeda/internal/errors"
	"goeda/ports"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Renderer collects the figures of a run on one go-echarts page
type Renderer struct {
	page   *components.Page
	count  int
	logger *internal.Logger
}

var _ ports.PlotRenderer = (*Renderer)(nil)

// NewRenderer creates an empty page titled after the dataset
func NewRenderer(title string) *Renderer {
	page := components.NewPage()
	page.PageTitle = title
	return &Renderer{page: page, logger: internal.DefaultLogger.With("PlotRenderer")}
}

// Len is the number of figures added so far
func (r *Renderer) Len() int {
	return r.count
}

func globalOptions(title, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "900px",
			Height: "480px",
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Salvar",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

// Histogram adds a frequency bar chart
func (r *Renderer) Histogram(fig ports.Figure) error {
	bins := HistogramBins(fig.Values)
	if len(bins.Counts) == 0 {
		return errors.InvalidInput(fmt.Sprintf("histogram for %s: no finite values", fig.Column))
	}

	labels := make([]string, len(bins.Counts))
	items := make([]opts.BarData, len(bins.Counts))
	for i, c := range bins.Counts {
		labels[i] = fmt.Sprintf("%.2f – %.2f", bins.Edges[i], bins.Edges[i+1])
		items[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(fig.Title, fig.XLabel, fig.YLabel)...)
	bar.SetXAxis(labels).AddSeries(fig.Column, items)
	r.add(bar)
	return nil
}

// QQPlot adds a normal probability plot with its fitted reference line
func (r *Renderer) QQPlot(fig ports.Figure) error {
	qq := QQPoints(fig.Values)
	if len(qq.Ordered) == 0 {
		return errors.InvalidInput(fmt.Sprintf("qq plot for %s: no finite values", fig.Column))
	}

	points := make([]opts.ScatterData, len(qq.Ordered))
	for i := range qq.Ordered {
		points[i] = opts.ScatterData{Value: [2]float64{qq.Theoretical[i], qq.Ordered[i]}, SymbolSize: 6}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globalOptions(fig.Title, fig.XLabel, fig.YLabel),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)...)
	scatter.AddSeries(fig.Column, points)

	if !math.IsNaN(qq.Slope) {
		first, last := qq.Theoretical[0], qq.Theoretical[len(qq.Theoretical)-1]
		line := charts.NewLine()
		line.AddSeries("referência", []opts.LineData{
			{Value: [2]float64{first, qq.Intercept + qq.Slope*first}},
			{Value: [2]float64{last, qq.Intercept + qq.Slope*last}},
		})
		scatter.Overlap(line)
	}
	r.add(scatter)
	return nil
}

// BoxPlot adds a Tukey boxplot with the outliers drawn as points
func (r *Renderer) BoxPlot(fig ports.Figure) error {
	box, ok := BoxStats(fig.Values)
	if !ok {
		return errors.InvalidInput(fmt.Sprintf("boxplot for %s: no finite values", fig.Column))
	}

	chart := charts.NewBoxPlot()
	chart.SetGlobalOptions(globalOptions(fig.Title, fig.XLabel, fig.YLabel)...)
	chart.SetXAxis([]string{fig.Column}).AddSeries(fig.Column, []opts.BoxPlotData{{
		Name:  fig.Column,
		Value: []float64{box.LowerWhisker, box.Q1, box.Median, box.Q3, box.UpperWhisker},
	}})

	if len(box.Outliers) > 0 {
		points := make([]opts.ScatterData, len(box.Outliers))
		for i, v := range box.Outliers {
			points[i] = opts.ScatterData{Value: []interface{}{fig.Column, v}, SymbolSize: 6}
		}
		outliers := charts.NewScatter()
		outliers.AddSeries("outliers", points)
		chart.Overlap(outliers)
	}
	r.add(chart)
	return nil
}

// Heatmap adds a labelled matrix; NaN cells are left blank
func (r *Renderer) Heatmap(fig ports.HeatmapFigure) error {
	if len(fig.Labels) == 0 || len(fig.Matrix) != len(fig.Labels) {
		return errors.InvalidInput(fmt.Sprintf("heatmap %q: %d labels for %d rows", fig.Title, len(fig.Labels), len(fig.Matrix)))
	}

	var items []opts.HeatMapData
	for i, row := range fig.Matrix {
		for j, v := range row {
			var cell interface{} = "-"
			if !math.IsNaN(v) {
				cell = math.Round(v*100) / 100
			}
			items = append(items, opts.HeatMapData{Value: [3]interface{}{j, i, cell}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros, Width: "900px", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: fig.Labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: fig.Labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#3b4cc0", "#f7f7f7", "#b40426"}},
		}),
	)
	hm.SetXAxis(fig.Labels).AddSeries("r", items,
		charts.WithLabelOpts(opts.Label{Show: true}))
	r.add(hm)
	return nil
}

func (r *Renderer) add(chart components.Charter) {
	r.page.AddCharts(chart)
	r.count++
}

// Render writes the page HTML to w
func (r *Renderer) Render(w io.Writer) error {
	return r.page.Render(w)
}

// Bytes renders the page into memory
func (r *Renderer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering plot page")
	}
	return buf.Bytes(), nil
}

// Flush writes the page to path, replacing any previous file. A page without
// figures is not written.
func (r *Renderer) Flush(path string) error {
	if r.count == 0 {
		r.logger.Info("no figures to write")
		return nil
	}
	html, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	r.logger.Info("%d figures written to %s", r.count, path)
	return nil
}
