package excel

import (
	"goeda/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for a tabular data source
type ReaderConfig struct {
	Sheet          string                 `json:"sheet"`     // xlsx sheet; empty means the first one
	Delimiter      rune                   `json:"delimiter"` // csv delimiter; zero means sniffed
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns the defaults: first sheet, sniffed delimiter, strict typing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
