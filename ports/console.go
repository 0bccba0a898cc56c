package ports

import "goeda/domain/stats/eda"

// ConsolePrinter receives the intermediate tables of a run for human display
type ConsolePrinter interface {
	PrintDTypes(columns, dtypes []string)
	PrintMissing(entries []eda.MissingEntry)
	PrintDescribe(rows []eda.Describe)
	PrintCategorical(rows []eda.CategoricalSummary)
	PrintNormality(rows []eda.ColumnStats)
	PrintCorrelation(m eda.CorrelationMatrix)
	PrintSigma(rows []eda.SigmaRow)
	PrintReport(text string)
}
