// Package store provides a generic read-only query interface over the hosted
// Postgres schema, plus the fallback runner that tries ordered query plans
// against partially-deployed tables.
//
// The interface is deliberately narrow: select from one table with equality /
// substring / set filters, ordering, and limit/offset. Structural errors
// (table or column absent in this deployment) are distinguishable from
// logically empty results so callers can skip to the next fallback.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Op is a filter operator.
type Op string

const (
	OpEq    Op = "eq"    // column = value
	OpILike Op = "ilike" // column ILIKE value (caller supplies % wildcards)
	OpIn    Op = "in"    // column = ANY(values)
)

// Filter constrains one column.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Order sorts by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes one select against one table.
type Query struct {
	Table   string
	Columns []string // empty selects all columns
	Filters []Filter
	Order   []Order
	Limit   int
	Offset  int
}

// Row is one result row as column name → scalar value. Rows are read-only
// snapshots; nothing in the application mutates them after retrieval.
type Row map[string]any

// Store executes queries against the data store.
type Store interface {
	Select(ctx context.Context, q Query) ([]Row, error)
}

// StructuralError indicates the queried table or column does not exist in
// this deployment, as opposed to simply returning no rows.
type StructuralError struct {
	Table  string
	Detail string
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error on %s: %s", e.Table, e.Detail)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// IsStructural reports whether err marks a missing table or column.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
