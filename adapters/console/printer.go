package console

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	"goeda/domain/stats/eda"
	"goeda/ports"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer renders the intermediate tables of a run as bordered text tables
type Printer struct {
	w       io.Writer
	heading func(format string, a ...interface{}) string
	num     *message.Printer
}

var _ ports.ConsolePrinter = (*Printer)(nil)

// NewPrinter writes to w; headings are bold cyan when w is a color terminal
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold).SprintfFunc(),
		num:     message.NewPrinter(language.BrazilianPortuguese),
	}
}

func (p *Printer) section(title string) {
	output(p.w, "\n%s\n", p.heading("%s", title))
}

func (p *Printer) table(header []string, rows [][]string) {
	tbl := tablewriter.NewWriter(p.w)
	tbl.SetHeader(header)
	tbl.SetBorder(true)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)
	tbl.AppendBulk(rows)
	tbl.Render()
}

// decimal formats v with Brazilian separators, e.g. 1.234,50
func (p *Printer) decimal(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return p.num.Sprintf("%."+strconv.Itoa(prec)+"f", v)
}

func (p *Printer) count(n int) string {
	return p.num.Sprintf("%d", n)
}

// PrintDTypes prints column storage types
func (p *Printer) PrintDTypes(columns, dtypes []string) {
	p.section("Tipos de dados")
	rows := make([][]string, len(columns))
	for i, c := range columns {
		rows[i] = []string{c, dtypes[i]}
	}
	p.table([]string{"coluna", "dtype"}, rows)
}

// PrintMissing prints the missingness table
func (p *Printer) PrintMissing(entries []eda.MissingEntry) {
	p.section("Valores ausentes")
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Column, p.count(e.Count), p.decimal(e.Percent, 2)}
	}
	p.table([]string{"coluna", "missing_count", "missing_pct"}, rows)
}

// PrintDescribe prints descriptive statistics of the numeric columns
func (p *Printer) PrintDescribe(rows []eda.Describe) {
	p.section("Estatísticas descritivas")
	out := make([][]string, len(rows))
	for i, d := range rows {
		out[i] = []string{
			d.Column, p.count(d.Count), p.decimal(d.Mean, 3), p.decimal(d.Std, 3), p.decimal(d.Min, 3),
			p.decimal(d.Q25, 3), p.decimal(d.Median, 3), p.decimal(d.Q75, 3), p.decimal(d.Max, 3),
		}
	}
	p.table([]string{"coluna", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, out)
}

// PrintCategorical prints one frequency table per categorical column
func (p *Printer) PrintCategorical(rows []eda.CategoricalSummary) {
	for _, s := range rows {
		p.section(fmt.Sprintf("Top categorias: %s (%d categorias)", s.Column, s.Categories))
		out := make([][]string, len(s.Top))
		for i, c := range s.Top {
			out[i] = []string{c.Value, p.count(c.Count)}
		}
		p.table([]string{s.Column, "contagem"}, out)
	}
}

// PrintNormality prints the per-column normality and outlier summary
func (p *Printer) PrintNormality(rows []eda.ColumnStats) {
	p.section("Normalidade e outliers")
	out := make([][]string, len(rows))
	for i, r := range rows {
		n := r.Normality
		out[i] = []string{
			r.Column, p.count(n.N), p.decimal(n.Skew, 3), p.decimal(n.Kurtosis, 3), n.Test,
			pValue(n.PValue), strconv.FormatBool(n.IsNormal),
			p.decimal(r.Outliers.Low, 3), p.decimal(r.Outliers.High, 3), p.count(r.Outliers.Outliers),
		}
	}
	p.table([]string{"coluna", "n", "skew", "kurtosis", "teste", "p_value", "is_normal", "iqr_low", "iqr_high", "n_outliers"}, out)
}

// PrintCorrelation prints the correlation matrix
func (p *Printer) PrintCorrelation(m eda.CorrelationMatrix) {
	p.section("Matriz de correlação")
	out := make([][]string, len(m.Columns))
	for i, c := range m.Columns {
		row := []string{c}
		for _, v := range m.Values[i] {
			row = append(row, p.decimal(v, 2))
		}
		out[i] = row
	}
	p.table(append([]string{""}, m.Columns...), out)
}

// PrintSigma prints the sigma reference intervals
func (p *Printer) PrintSigma(rows []eda.SigmaRow) {
	p.section("Intervalos de sigma")
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Column, r.Label(), p.decimal(r.Low, 2), p.decimal(r.High, 2)}
	}
	p.table([]string{"coluna", "faixa", "limite inferior", "limite superior"}, out)
}

// PrintReport prints the final findings text
func (p *Printer) PrintReport(text string) {
	p.section("Resumo")
	output(p.w, "%s\n", text)
}

func pValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// output the given message with formatting.
func output(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		log.Println("output error", err.Error())
	}
}
