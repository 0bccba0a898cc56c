package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column is a named, consistently typed sequence of cells
type Column struct {
	Name  string
	Type  ValueType
	Cells []Value
	// FloatText marks a numeric column whose source text had decimal or
	// exponent notation, so it stays float64 even when every value is whole
	FloatText bool
}

// Table is an in-memory dataset of equally long named columns.
// It is treated as immutable once built.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable assembles a table, rejecting duplicated names and ragged columns
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicated column name %q", c.Name)
		}
		if i == 0 {
			t.rows = len(c.Cells)
		} else if len(c.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Cells), t.rows)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// MustTable is NewTable for literals in tests and demos
func MustTable(columns ...Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewNumericColumn builds a numeric column; NaN marks a missing cell
func NewNumericColumn(name string, values []float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = NewNumericValue(v)
	}
	return Column{Name: name, Type: ValueTypeNumeric, Cells: cells}
}

// NewStringColumn builds a categorical column; "" marks a missing cell
func NewStringColumn(name string, values []string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = NewStringValue(v)
	}
	return Column{Name: name, Type: ValueTypeString, Cells: cells}
}

// NewBooleanColumn builds a boolean column without missing cells
func NewBooleanColumn(name string, values []bool) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = NewBooleanValue(v)
	}
	return Column{Name: name, Type: ValueTypeBoolean, Cells: cells}
}

// NewTimestampColumn builds a timestamp column; the zero time marks a missing cell
func NewTimestampColumn(name string, values []time.Time) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		if v.IsZero() {
			cells[i] = NewMissingValue()
			continue
		}
		cells[i] = NewTimestampValue(v)
	}
	return Column{Name: name, Type: ValueTypeTimestamp, Cells: cells}
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the columns in table order
func (t *Table) Columns() []Column { return t.columns }

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// NumericNames returns the numeric columns in table order
func (t *Table) NumericNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.Type == ValueTypeNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalNames returns every non-numeric column in table order
func (t *Table) CategoricalNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.Type != ValueTypeNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// Floats returns the column as float64 with NaN for missing cells
func (c Column) Floats() []float64 {
	out := make([]float64, len(c.Cells))
	for i, v := range c.Cells {
		out[i] = v.AsFloat64()
	}
	return out
}

// Valid returns the non-missing numeric values in row order
func (c Column) Valid() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, v := range c.Cells {
		if !v.IsMissing && v.NumericVal != nil {
			out = append(out, *v.NumericVal)
		}
	}
	return out
}

// MissingCount counts missing cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Cells {
		if v.IsMissing {
			n++
		}
	}
	return n
}

// DType reports the column's storage type with the labels analysts know from
// dataframe libraries: int64, float64, bool, datetime64[ns] and object.
func (c Column) DType() string {
	switch c.Type {
	case ValueTypeNumeric:
		if c.FloatText {
			return "float64"
		}
		for _, v := range c.Cells {
			if v.IsMissing {
				return "float64"
			}
			if f := *v.NumericVal; f != math.Trunc(f) || math.IsInf(f, 0) {
				return "float64"
			}
		}
		return "int64"
	case ValueTypeBoolean:
		if c.MissingCount() > 0 {
			return "object"
		}
		return "bool"
	case ValueTypeTimestamp:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

// RowKey identifies a row's content; two rows share a key iff every cell is
// equal, with missing equal to missing. Cells are length-prefixed so no cell
// text can forge a boundary, and numbers and timestamps keep full precision.
func (t *Table) RowKey(row int) string {
	var b strings.Builder
	for _, c := range t.columns {
		cell := cellKey(c.Cells[row])
		fmt.Fprintf(&b, "%d:%s", len(cell), cell)
	}
	return b.String()
}

func cellKey(v Value) string {
	switch {
	case v.IsMissing:
		return "m"
	case v.NumericVal != nil:
		f := *v.NumericVal
		if f == 0 {
			f = 0 // -0 equals 0
		}
		return "f" + strconv.FormatUint(math.Float64bits(f), 16)
	case v.TimestampVal != nil:
		return "t" + strconv.FormatInt(v.TimestampVal.UnixNano(), 10)
	case v.BooleanVal != nil:
		return "b" + strconv.FormatBool(*v.BooleanVal)
	case v.StringVal != nil:
		return "s" + *v.StringVal
	}
	return "?" + string(v.Type)
}

func nan() float64 { return math.NaN() }
