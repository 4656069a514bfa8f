package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// introspectQuery works on both Postgres and DuckDB: each exposes
// information_schema.columns with compatible shapes.
const introspectQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
  AND table_name NOT LIKE '%schema_migrations'
ORDER BY table_name, ordinal_position`

type SQLIntrospector struct {
	db *sql.DB
}

func NewSQLIntrospector(db *sql.DB) *SQLIntrospector {
	return &SQLIntrospector{db: db}
}

func (i *SQLIntrospector) Describe(ctx context.Context) (Snapshot, error) {
	rows, err := i.db.QueryContext(ctx, introspectQuery)
	if err != nil {
		return Snapshot{}, fmt.Errorf("describe schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := map[string][]Column{}
	for rows.Next() {
		var tableName, columnName, dataType string
		if err := rows.Scan(&tableName, &columnName, &dataType); err != nil {
			return Snapshot{}, fmt.Errorf("scan schema row: %w", err)
		}
		tables[tableName] = append(tables[tableName], Column{Name: columnName, DataType: dataType})
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate schema rows: %w", err)
	}
	return Snapshot{Tables: tables}, nil
}
