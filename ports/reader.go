package ports

import "goeda/domain/dataset"

// TableReader loads one dataset from its source
type TableReader interface {
	ReadTable() (*dataset.Table, error)
}
