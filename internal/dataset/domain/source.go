package domain

import "context"

// RawTable is one untyped source table as produced by a Source. The merger
// owns all validation and type coercion so sources stay thin.
type RawTable struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Column returns the index of a named column, or -1.
func (t RawTable) Column(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// RawTables is the full input contract of the merger.
type RawTables struct {
	Orders    RawTable
	Items     RawTable
	Products  RawTable
	Customers RawTable
	Reviews   RawTable
	Payments  RawTable
}

// Source produces the six raw tables of one analysis session. Loading may
// block on I/O; everything downstream of it is in-memory and pure.
type Source interface {
	Fetch(ctx context.Context) (RawTables, error)
}
