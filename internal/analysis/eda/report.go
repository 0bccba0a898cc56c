package eda

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"goeda/domain/stats/eda"
)

const (
	inventoryPreview = 8
	topMissingShown  = 5
)

// ReportBuilder accumulates the findings report one section at a time
type ReportBuilder struct {
	lines []string
}

// NewReportBuilder creates an empty report
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Lines returns a copy of the accumulated lines
func (b *ReportBuilder) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String joins the lines with newlines
func (b *ReportBuilder) String() string {
	return strings.Join(b.lines, "\n")
}

func (b *ReportBuilder) add(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *ReportBuilder) blank() {
	b.lines = append(b.lines, "")
}

// AddHeader writes the dataset label and its shape
func (b *ReportBuilder) AddHeader(name string, rows, cols int) {
	b.add("EDA para: %s", name)
	b.add("Formato: %d linhas × %d colunas", rows, cols)
	b.blank()
}

// AddDTypes lists the storage type of every column
func (b *ReportBuilder) AddDTypes(columns, dtypes []string) {
	b.add("Tipos de dados:")
	for i, c := range columns {
		b.add("  - %s: %s", c, dtypes[i])
	}
	b.blank()
}

// AddMissingness counts columns with missing cells and lists the worst five.
// entries must be sorted by count descending.
func (b *ReportBuilder) AddMissingness(entries []eda.MissingEntry, totalCols int) {
	var withMissing []eda.MissingEntry
	for _, e := range entries {
		if e.Count > 0 {
			withMissing = append(withMissing, e)
		}
	}
	b.add("Colunas com valores ausentes: %d de %d", len(withMissing), totalCols)
	if len(withMissing) > 0 {
		b.add("Top colunas com mais ausências:")
		for i, e := range withMissing {
			if i == topMissingShown {
				break
			}
			b.add("  - %s: %d (%s%%)", e.Column, e.Count, formatPercent(e.Percent))
		}
	}
	b.blank()
}

// AddDuplicates reports the number of repeated rows
func (b *ReportBuilder) AddDuplicates(n int) {
	b.add("Linhas duplicadas: %d", n)
	b.blank()
}

// AddNumericInventory names the numeric columns, or states there are none
func (b *ReportBuilder) AddNumericInventory(names []string) {
	if len(names) == 0 {
		b.add("Não há colunas numéricas.")
	} else {
		b.add("Colunas numéricas: %d → %s", len(names), preview(names))
	}
	b.blank()
}

// AddCategoricalInventory names the categorical columns with their most
// frequent values. Nothing is written when there are none.
func (b *ReportBuilder) AddCategoricalInventory(summaries []eda.CategoricalSummary) {
	if len(summaries) == 0 {
		return
	}
	names := make([]string, len(summaries))
	for i, s := range summaries {
		names[i] = s.Column
	}
	b.add("Colunas categóricas: %d → %s", len(names), preview(names))
	for _, s := range summaries {
		top := make([]string, len(s.Top))
		for i, c := range s.Top {
			top[i] = fmt.Sprintf("%s (%d)", c.Value, c.Count)
		}
		b.add("  - %s: %d categorias, %d registros; top: %s", s.Column, s.Categories, s.Records, strings.Join(top, ", "))
	}
	b.blank()
}

// AddNormalityTable writes one line per numeric column with its test outcome
// and IQR fences
func (b *ReportBuilder) AddNormalityTable(rows []eda.ColumnStats, alpha float64) {
	if len(rows) == 0 {
		return
	}
	b.add("Normalidade e outliers (α=%s):", formatAlpha(alpha))
	for _, r := range rows {
		n := r.Normality
		line := fmt.Sprintf("  - %s: n=%d, skew=%s, kurtosis=%s, teste=%s, p=%s, aparenta normal=%s, IQR=[%s, %s], outliers=%d",
			r.Column, n.N, formatFloat(n.Skew, 2), formatFloat(n.Kurtosis, 2), n.Test, formatP(n.PValue),
			yesNo(n.IsNormal), formatFloat(r.Outliers.Low, 2), formatFloat(r.Outliers.High, 2), r.Outliers.Outliers)
		if n.Subsampled {
			line += " (subamostra)"
		}
		if n.Warning != "" {
			line += fmt.Sprintf(" (aviso: %s)", n.Warning)
		}
		if n.Error != "" {
			line += fmt.Sprintf(" (erro: %s)", n.Error)
		}
		b.lines = append(b.lines, line)
	}
	b.blank()
}

// AddSigmaTable writes the mean ± kσ reference intervals
func (b *ReportBuilder) AddSigmaTable(rows []eda.SigmaRow) {
	if len(rows) == 0 {
		return
	}
	b.add("Intervalos de sigma (0,5σ, 1σ, 2σ, 3σ):")
	for _, r := range rows {
		b.add("  - %s: %s %s", r.Column, r.Label(), r.Interval())
	}
	b.blank()
}

// AddWarnings writes the alert block; an empty list writes nothing
func (b *ReportBuilder) AddWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.add("⚠️ Alertas potenciais:")
	for _, w := range warnings {
		b.add(" - %s", w)
	}
	b.blank()
}

// AddSuggestions writes the next-steps block
func (b *ReportBuilder) AddSuggestions(suggestions []string) {
	b.add("Sugestões próximas etapas:")
	for _, s := range suggestions {
		b.add(" - %s", s)
	}
}

// Findings are the facts the warning and suggestion tables are keyed on
type Findings struct {
	Duplicates     int
	MissingColumns int
	NumericColumns int
	NonNormal      int
	OutlierColumns int
	Alpha          float64
}

// Warnings summarises each problem present in the findings with one line
func Warnings(f Findings) []string {
	var out []string
	if f.Duplicates > 0 {
		out = append(out, fmt.Sprintf("%d linhas duplicadas", f.Duplicates))
	}
	if f.MissingColumns > 0 {
		out = append(out, fmt.Sprintf("%d colunas com ausências", f.MissingColumns))
	}
	if f.NumericColumns > 0 {
		if f.NonNormal > 0 {
			out = append(out, fmt.Sprintf("%d/%d colunas numéricas não parecem normais (α=%s)", f.NonNormal, f.NumericColumns, formatAlpha(f.Alpha)))
		}
		if f.OutlierColumns > 0 {
			out = append(out, fmt.Sprintf("Outliers pelo IQR em %d colunas numéricas", f.OutlierColumns))
		}
	}
	return out
}

// Suggestions is a fixed decision table over missingness, duplicates and the
// number of numeric columns
func Suggestions(f Findings) []string {
	var out []string
	if f.MissingColumns > 0 {
		out = append(out, "Tratar ausências (imputação por média/mediana/moda ou modelos); avaliar descartar colunas com muita ausência.")
	}
	if f.Duplicates > 0 {
		out = append(out, "Remover/justificar duplicatas; investigar chaves primárias.")
	}
	if f.NumericColumns > 0 {
		out = append(out,
			"Para colunas não normais: transformação (log/Box-Cox) ou métodos não paramétricos.",
			"Padronizar/normalizar variáveis para modelos sensíveis à escala.")
	}
	if f.NumericColumns >= 2 {
		out = append(out, "Verificar colinearidade; usar regularização ou redução de dimensionalidade se necessário.")
	}
	return out
}

func preview(names []string) string {
	if len(names) <= inventoryPreview {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:inventoryPreview], ", ") + "…"
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatP(p float64) string {
	if math.IsNaN(p) {
		return "nan"
	}
	return strconv.FormatFloat(p, 'g', 4, 64)
}

// formatPercent prints a rounded percentage keeping at least one decimal, e.g. 50.0 or 16.67
func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatAlpha(alpha float64) string {
	return strconv.FormatFloat(alpha, 'g', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}
