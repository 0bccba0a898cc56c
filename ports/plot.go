package ports

// Figure is a single-variable plot request: the data plus its labels
type Figure struct {
	Column string
	Title  string
	XLabel string
	YLabel string
	Values []float64
}

// HeatmapFigure is a labelled square matrix, e.g. a correlation matrix
type HeatmapFigure struct {
	Title  string
	Labels []string
	Matrix [][]float64
}

// PlotRenderer displays figures on an external presentation surface.
// Calls arrive strictly in sequence; the renderer owns layout and lifecycle.
type PlotRenderer interface {
	Histogram(fig Figure) error
	QQPlot(fig Figure) error
	BoxPlot(fig Figure) error
	Heatmap(fig HeatmapFigure) error
}
