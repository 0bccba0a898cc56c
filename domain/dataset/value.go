package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Value represents a typed cell with an explicit missing flag
type Value struct {
	Type         ValueType  `json:"type"`
	StringVal    *string    `json:"string_val,omitempty"`
	NumericVal   *float64   `json:"numeric_val,omitempty"`
	BooleanVal   *bool      `json:"boolean_val,omitempty"`
	TimestampVal *time.Time `json:"timestamp_val,omitempty"`
	IsMissing    bool       `json:"is_missing"`
}

// ValueType defines the storage type for values and columns
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// NewStringValue creates a string value; the empty string is missing
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: &s}
}

// NewNumericValue creates a numeric value; NaN is missing
func NewNumericValue(n float64) Value {
	if n != n {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: &n}
}

// NewBooleanValue creates a boolean value
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: &t}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing, IsMissing: true}
}

// Label renders the value the way a categorical frequency table shows it.
// Missing cells render as "nan".
func (v Value) Label() string {
	switch {
	case v.IsMissing:
		return "nan"
	case v.StringVal != nil:
		return *v.StringVal
	case v.NumericVal != nil:
		return strconv.FormatFloat(*v.NumericVal, 'g', -1, 64)
	case v.BooleanVal != nil:
		if *v.BooleanVal {
			return "True"
		}
		return "False"
	case v.TimestampVal != nil:
		return v.TimestampVal.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("<%s>", v.Type)
}

// AsFloat64 returns the numeric value, or NaN when missing or not numeric
func (v Value) AsFloat64() float64 {
	if v.NumericVal != nil && !v.IsMissing {
		return *v.NumericVal
	}
	return nan()
}
