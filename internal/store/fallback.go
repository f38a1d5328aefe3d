package store

import (
	"context"
	"fmt"
	"log/slog"
)

// disposition is the decision after one attempt. Making this a named type
// keeps the skip/continue/stop logic explicit instead of inferring it from
// error message contents.
type disposition int

const (
	dispositionStop      disposition = iota // usable rows, stop iterating
	dispositionContinue                     // empty or logical error, next attempt
	dispositionSkipTable                    // table missing here, next table
)

// Attempt is one query shape against one table, most trusted first.
type Attempt struct {
	Label string // e.g. "id+season+week", recorded in provenance
	Query Query
}

// TablePlan groups the attempts for one table. A structural error on any
// attempt abandons the whole table: if the relation or column is absent in
// this deployment, the remaining shapes cannot succeed either.
type TablePlan struct {
	Table    string
	Attempts []Attempt
}

// Outcome is the result of running a fallback chain. When Found is false the
// chain was exhausted without a non-empty result; Tried still records every
// attempt so callers can report provenance.
type Outcome struct {
	Rows    []Row
	Table   string
	Attempt string
	Tried   []string
	Found   bool
}

// Runner evaluates ordered table plans against a store.
type Runner struct {
	store  Store
	logger *slog.Logger
}

// NewRunner creates a fallback runner. logger may be nil.
func NewRunner(s Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: s, logger: logger}
}

// Run tries every plan in order and returns the first attempt that executes
// cleanly and yields at least one row. Structural errors and logical
// failures are absorbed here; the caller only ever sees an Outcome.
func (r *Runner) Run(ctx context.Context, plans []TablePlan) Outcome {
	out := Outcome{}

	for _, plan := range plans {
	attempts:
		for _, attempt := range plan.Attempts {
			out.Tried = append(out.Tried, fmt.Sprintf("%s/%s", plan.Table, attempt.Label))

			rows, err := r.store.Select(ctx, attempt.Query)
			switch r.decide(plan.Table, attempt.Label, rows, err) {
			case dispositionStop:
				out.Rows = rows
				out.Table = plan.Table
				out.Attempt = attempt.Label
				out.Found = true
				return out
			case dispositionSkipTable:
				break attempts
			case dispositionContinue:
				continue
			}
		}
	}

	return out
}

func (r *Runner) decide(table, label string, rows []Row, err error) disposition {
	if err != nil {
		if IsStructural(err) {
			r.logger.Debug("table unavailable, skipping", "table", table, "error", err)
			return dispositionSkipTable
		}
		r.logger.Warn("query attempt failed", "table", table, "attempt", label, "error", err)
		return dispositionContinue
	}
	if len(rows) == 0 {
		return dispositionContinue
	}
	return dispositionStop
}
