// Package storetest provides an in-memory Store for tests. Tables are plain
// row slices; querying a table that was never added returns a structural
// error, matching how a missing relation behaves in a real deployment.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/statlinehq/statline/internal/store"
)

// Fake is an in-memory store.Store.
type Fake struct {
	tables map[string][]store.Row

	// FailTables forces a non-structural error for the named tables,
	// simulating logical/filter failures.
	FailTables map[string]error

	// Calls records every query in order, for assertions.
	Calls []store.Query
}

// New creates an empty fake store.
func New() *Fake {
	return &Fake{
		tables:     make(map[string][]store.Row),
		FailTables: make(map[string]error),
	}
}

// Add appends rows to a table, creating it if needed.
func (f *Fake) Add(table string, rows ...store.Row) {
	f.tables[table] = append(f.tables[table], rows...)
}

// AddEmpty creates a table with no rows, so queries against it return empty
// results instead of structural errors.
func (f *Fake) AddEmpty(table string) {
	if _, ok := f.tables[table]; !ok {
		f.tables[table] = nil
	}
}

// Select implements store.Store.
func (f *Fake) Select(_ context.Context, q store.Query) ([]store.Row, error) {
	f.Calls = append(f.Calls, q)

	if err, ok := f.FailTables[q.Table]; ok {
		return nil, err
	}
	rows, ok := f.tables[q.Table]
	if !ok {
		return nil, &store.StructuralError{Table: q.Table, Detail: fmt.Sprintf("relation %q does not exist", q.Table)}
	}

	var out []store.Row
	for _, row := range rows {
		if matches(row, q.Filters) {
			out = append(out, row)
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				a, b := toFloat(out[i][o.Column]), toFloat(out[j][o.Column])
				if a == b {
					continue
				}
				if o.Desc {
					return a > b
				}
				return a < b
			}
			return false
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(row store.Row, filters []store.Filter) bool {
	for _, flt := range filters {
		val, ok := row[flt.Column]
		if !ok {
			return false
		}
		switch flt.Op {
		case store.OpEq:
			if fmt.Sprint(val) != fmt.Sprint(flt.Value) {
				return false
			}
		case store.OpILike:
			pattern := strings.ToLower(strings.Trim(fmt.Sprint(flt.Value), "%"))
			if !strings.Contains(strings.ToLower(fmt.Sprint(val)), pattern) {
				return false
			}
		case store.OpIn:
			found := false
			switch vs := flt.Value.(type) {
			case []int:
				for _, v := range vs {
					if fmt.Sprint(val) == fmt.Sprint(v) {
						found = true
					}
				}
			case []string:
				for _, v := range vs {
					if fmt.Sprint(val) == v {
						found = true
					}
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
