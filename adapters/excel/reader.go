package excel

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goeda/adapters/datareadiness/coercer"
	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads Excel and CSV files into a typed table
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string, config ReaderConfig) *DataReader {
	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		logger:   internal.DefaultLogger.With("DataReader"),
	}
}

// ReadTable reads the file and infers a type for every column
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	raw, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	typeCoercer := coercer.NewTypeCoercer(r.config.CoercionConfig)
	columns := make([]dataset.Column, len(raw.Headers))
	for i, header := range raw.Headers {
		columns[i] = typeCoercer.InferColumn(header, raw.Column(i))
		r.logger.Debug("column %q inferred as %s", header, columns[i].DType())
	}

	table, err := dataset.NewTable(columns...)
	if err != nil {
		return nil, errors.Wrapf(errors.InvalidInput(err.Error()), "building table from %s", r.filePath)
	}
	return table, nil
}

// ReadData reads the header row and the data rows as trimmed text
func (r *DataReader) ReadData() (*RawData, error) {
	r.logger.Info("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.IOError(r.filePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv", "tsv", "txt":
		rows, err = r.readCSVRows()
	case "xlsx", "xlsm":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type %q (expected .csv or .xlsx)", r.fileType))
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no header row", r.filePath))
	}
	return r.processRows(rows), nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IOError(r.filePath, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput(fmt.Sprintf("%s has no sheets", r.filePath))
		}
		sheet = sheets[0]
	}

	// raw values keep full numeric precision instead of the cell's display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(errors.IOError(r.filePath, err), "reading sheet %q", sheet)
	}
	r.logger.Info("Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IOError(r.filePath, err)
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	delimiter := r.config.Delimiter
	if delimiter == 0 {
		head, _ := buffered.Peek(4096)
		delimiter = SniffDelimiter(string(head))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(errors.IOError(r.filePath, err), "parsing CSV")
		}
		rows = append(rows, record)
	}
	r.logger.Info("CSV file read in %.2fms (%d rows, delimiter %q)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows), delimiter)
	return rows, nil
}

// processRows trims cells, names blank headers, de-duplicates header names
// and pads short rows
func (r *DataReader) processRows(rows [][]string) *RawData {
	headers := uniqueHeaders(rows[0])

	data := &RawData{Headers: headers, Rows: make([][]string, 0, len(rows)-1)}
	truncated := 0
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(headers))
		for j, cell := range row {
			if j >= len(headers) {
				truncated++
				break
			}
			cells[j] = strings.TrimSpace(cell)
		}
		data.Rows = append(data.Rows, cells)
	}
	if truncated > 0 {
		r.logger.Warn("%d rows had more cells than headers; extra cells dropped", truncated)
	}

	r.logger.Info("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(data.Rows))
	return data
}

// uniqueHeaders names blank headers "Unnamed: i" and suffixes repeats with ".1", ".2", …
func uniqueHeaders(row []string) []string {
	headers := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, h := range row {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if last, dup := seen[h]; dup {
			for n := last + 1; ; n++ {
				candidate := fmt.Sprintf("%s.%d", h, n)
				if _, taken := seen[candidate]; !taken {
					seen[h] = n
					name = candidate
					break
				}
			}
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		headers[i] = name
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SniffDelimiter picks the most frequent of comma, semicolon, tab and pipe in
// the header line, defaulting to comma
func SniffDelimiter(sample string) rune {
	line := sample
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		line = sample[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
