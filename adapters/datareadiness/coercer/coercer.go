package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"goeda/domain/dataset"
)

// naTokens are the cell texts read as missing, matching dataframe readers' defaults
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-nan": {}, "-NaN": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "#NA": {}, "<NA>": {}, "-1.#IND": {},
	"1.#QNAN": {}, "-1.#QNAN": {}, "#N/A N/A": {},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// TypeCoercer infers a column type from raw cell text and converts the cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the inference thresholds and parsing rules
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`   // share of non-missing cells that must parse as numbers
	BooleanThreshold   float64 `json:"boolean_threshold"`   // share that must parse as booleans
	TimestampThreshold float64 `json:"timestamp_threshold"` // share that must parse as timestamps
	DetectTimestamps   bool    `json:"detect_timestamps"`
	LenientNumbers     bool    `json:"lenient_numbers"` // accept currency, percent, (neg) and decimal commas
	NormalizeStrings   bool    `json:"normalize_strings"`
}

// DefaultCoercionConfig types a column only when every non-missing cell
// parses, and leaves dates and free text untouched
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// IsNAToken reports whether a trimmed cell denotes a missing value
func IsNAToken(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// InferColumn picks the column type from the distribution of raw cells and
// coerces every cell to it. Cells that do not parse become missing.
func (c *TypeCoercer) InferColumn(name string, raw []string) dataset.Column {
	analysis := c.AnalyzeTypeDistribution(raw)
	cells := make([]dataset.Value, len(raw))
	for i, s := range raw {
		cells[i] = c.CoerceValue(s, analysis.RecommendedType)
	}
	col := dataset.Column{Name: name, Type: analysis.RecommendedType, Cells: cells}
	if col.Type == dataset.ValueTypeNumeric {
		col.FloatText = c.hasFloatText(raw)
	}
	return col
}

// hasFloatText reports whether any parsed numeric cell is written as a float
// ("1.0", "2e3") rather than an integer literal
func (c *TypeCoercer) hasFloatText(raw []string) bool {
	for _, s := range raw {
		if IsNAToken(s) {
			continue
		}
		s = strings.TrimSpace(s)
		if c.config.LenientNumbers {
			s = normalizeLenientNumber(s)
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			return true
		}
	}
	return false
}

// CoerceValue converts one raw cell to the target type
func (c *TypeCoercer) CoerceValue(raw string, target dataset.ValueType) dataset.Value {
	if IsNAToken(raw) {
		return dataset.NewMissingValue()
	}
	s := strings.TrimSpace(raw)

	switch target {
	case dataset.ValueTypeNumeric:
		if v, ok := c.tryParseNumeric(s); ok {
			return v
		}
		return dataset.NewMissingValue()
	case dataset.ValueTypeBoolean:
		if v, ok := c.tryParseBoolean(s); ok {
			return v
		}
		return dataset.NewMissingValue()
	case dataset.ValueTypeTimestamp:
		if v, ok := c.tryParseTimestamp(s); ok {
			return v
		}
		return dataset.NewMissingValue()
	default:
		return c.coerceToString(s)
	}
}

// AnalyzeTypeDistribution counts how many non-missing cells parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(raw []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(raw)}

	for _, s := range raw {
		if IsNAToken(s) {
			continue
		}
		analysis.ValidCount++
		s = strings.TrimSpace(s)

		if _, ok := c.tryParseNumeric(s); ok {
			analysis.NumericCount++
		}
		if _, ok := c.tryParseBoolean(s); ok {
			analysis.BooleanCount++
		}
		if c.config.DetectTimestamps {
			if _, ok := c.tryParseTimestamp(s); ok {
				analysis.TimestampCount++
			}
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

func (c *TypeCoercer) coerceToString(s string) dataset.Value {
	if c.config.NormalizeStrings {
		s = c.normalizeString(s)
	}
	return dataset.NewStringValue(s)
}

// tryParseNumeric accepts plain decimal and scientific notation. In lenient
// mode it also handles (123) negatives, currency and percent signs, and
// European separators.
func (c *TypeCoercer) tryParseNumeric(s string) (dataset.Value, bool) {
	if s == "" {
		return dataset.Value{}, false
	}
	if c.config.LenientNumbers {
		s = normalizeLenientNumber(s)
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) {
		return dataset.Value{}, false
	}
	return dataset.NewNumericValue(val), true
}

func normalizeLenientNumber(s string) string {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		negative = true
	}

	for _, symbol := range []string{"R$", "$", "€", "£", "¥", "BRL", "USD", "EUR", "GBP", "JPY", "%"} {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.TrimSpace(s)

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	hasSpace := strings.Contains(s, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56
		after := s[strings.LastIndex(s, ",")+1:]
		if len(after) <= 3 && strings.Trim(after, "0123456789") == "" {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, " ", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, " ", "")
	}

	if negative {
		s = "-" + s
	}
	return s
}

// tryParseBoolean accepts true/false in any case, plus yes/no/on/off when lenient
func (c *TypeCoercer) tryParseBoolean(s string) (dataset.Value, bool) {
	switch strings.ToLower(s) {
	case "true":
		return dataset.NewBooleanValue(true), true
	case "false":
		return dataset.NewBooleanValue(false), true
	}
	if c.config.LenientNumbers {
		switch strings.ToLower(s) {
		case "yes", "sim", "on":
			return dataset.NewBooleanValue(true), true
		case "no", "não", "nao", "off":
			return dataset.NewBooleanValue(false), true
		}
	}
	return dataset.Value{}, false
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
}

func (c *TypeCoercer) tryParseTimestamp(s string) (dataset.Value, bool) {
	if s == "" {
		return dataset.Value{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dataset.NewTimestampValue(t), true
		}
	}
	return dataset.Value{}, false
}

// normalizeString collapses whitespace and drops control characters
func (c *TypeCoercer) normalizeString(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// determineRecommendedType applies the thresholds, most restrictive type first.
// A column without valid cells is numeric, as an all-missing column is read as floats.
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) dataset.ValueType {
	if analysis.ValidCount == 0 {
		return dataset.ValueTypeNumeric
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.ValueTypeNumeric
	}
	if analysis.BooleanRatio >= c.config.BooleanThreshold {
		return dataset.ValueTypeBoolean
	}
	if c.config.DetectTimestamps && analysis.TimestampRatio >= c.config.TimestampThreshold {
		return dataset.ValueTypeTimestamp
	}
	return dataset.ValueTypeString
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int               `json:"total_count"`
	ValidCount      int               `json:"valid_count"`
	NumericCount    int               `json:"numeric_count"`
	BooleanCount    int               `json:"boolean_count"`
	TimestampCount  int               `json:"timestamp_count"`
	NumericRatio    float64           `json:"numeric_ratio"`
	BooleanRatio    float64           `json:"boolean_ratio"`
	TimestampRatio  float64           `json:"timestamp_ratio"`
	RecommendedType dataset.ValueType `json:"recommended_type"`
}
