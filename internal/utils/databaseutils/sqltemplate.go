package databaseutils

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// ExecuteQuery runs query and maps every row with extractor. Rows are fully
// drained and closed before returning, so the executor can be reused for the
// next statement even when it is a transaction.
func ExecuteQuery[T any](ctx context.Context, q SQLExecutor, query string, extractor func(rows *sql.Rows) (T, error), args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		t, err := extractor(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExecuteSingleQuery is ExecuteQuery for statements that yield at most one row.
// It returns sql.ErrNoRows when the result is empty.
func ExecuteSingleQuery[T any](ctx context.Context, q SQLExecutor, query string, extractor func(rows *sql.Rows) (T, error), args ...any) (T, error) {
	var zero T
	results, err := ExecuteQuery(ctx, q, query, extractor, args...)
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, sql.ErrNoRows
	}
	return results[0], nil
}

// Params collects positional arguments while a statement is being composed.
// Placeholders are numbered in the order they are added, so callers must add
// them in the order they appear in the final SQL text.
type Params struct {
	args []any
}

// Add appends v and returns its placeholder, e.g. "$3".
func (p *Params) Add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Args returns the collected arguments.
func (p *Params) Args() []any {
	return p.args
}

// AddAll appends every element of list and returns the placeholders joined
// for an IN clause, e.g. "$2, $3, $4".
func AddAll[T any](p *Params, list []T) string {
	placeholders := make([]string, len(list))
	for i, v := range list {
		placeholders[i] = p.Add(v)
	}
	return strings.Join(placeholders, ", ")
}
