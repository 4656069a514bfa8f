// Package dbexec is the execution boundary for generated and templated SQL.
// Statements arriving here are treated as untrusted: only read-only
// SELECT/WITH shapes pass, and unbounded result sets are capped.
package dbexec

import (
	"context"
	"time"
)

type Result struct {
	Columns  []string
	Rows     [][]any
	Duration time.Duration
}

// Records zips columns and rows into flat key/value records.
func (r Result) Records() []map[string]any {
	records := make([]map[string]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		record := make(map[string]any, len(r.Columns))
		for i, column := range r.Columns {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

type Executor interface {
	Execute(ctx context.Context, sqlText string) (Result, error)
}
