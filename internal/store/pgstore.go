package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes that mark schema mismatches rather than empty results.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// PGStore implements Store on a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Store backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Select builds and runs one SELECT. Table and column names come from static
// plans in this codebase, never from user input; they are still sanitized as
// identifiers before interpolation.
func (s *PGStore) Select(ctx context.Context, q Query) ([]Row, error) {
	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(q.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row from %s: %w", q.Table, err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(q.Table, err)
	}
	return out, nil
}

func buildSelect(q Query) (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("query has no table")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		cols := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			cols[i] = pgx.Identifier{c}.Sanitize()
		}
		b.WriteString(strings.Join(cols, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(pgx.Identifier{q.Table}.Sanitize())

	var args []any
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		col := pgx.Identifier{f.Column}.Sanitize()
		switch f.Op {
		case OpEq:
			args = append(args, f.Value)
			fmt.Fprintf(&b, "%s = $%d", col, len(args))
		case OpILike:
			args = append(args, f.Value)
			fmt.Fprintf(&b, "%s ILIKE $%d", col, len(args))
		case OpIn:
			args = append(args, f.Value)
			fmt.Fprintf(&b, "%s = ANY($%d)", col, len(args))
		default:
			return "", nil, fmt.Errorf("unknown filter op %q", f.Op)
		}
	}

	for i, o := range q.Order {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{o.Column}.Sanitize())
		if o.Desc {
			b.WriteString(" DESC")
		}
	}

	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", q.Offset)
	}

	return b.String(), args, nil
}

// classify wraps Postgres schema errors as StructuralError and leaves
// everything else (bad filter values, connection failures) untouched.
func classify(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUndefinedTable || pgErr.Code == pgUndefinedColumn {
			return &StructuralError{Table: table, Detail: pgErr.Message, Err: err}
		}
	}
	return err
}
