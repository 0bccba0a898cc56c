package excel

// RawData is a sheet as read from disk: trimmed header names and rows of cell text
type RawData struct {
	Headers []string
	Rows    [][]string
}

// Column returns the cells of the i-th column, padding short rows with ""
func (d *RawData) Column(i int) []string {
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}
