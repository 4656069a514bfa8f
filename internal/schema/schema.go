// Package schema discovers table and column metadata from the target
// database so ad-hoc query synthesis can be constrained to what exists.
package schema

import (
	"context"
	"sort"
	"strings"
)

type Column struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

// Snapshot is the introspected set of available tables and columns. A
// snapshot is built whole and never partially updated.
type Snapshot struct {
	Tables map[string][]Column `json:"tables"`
}

func (s Snapshot) Empty() bool {
	return len(s.Tables) == 0
}

// TableNames returns the snapshot's table names sorted for stable output.
func (s Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description renders the snapshot as one line per table for prompt
// embedding, sorted by table name for determinism.
func (s Snapshot) Description() string {
	names := s.TableNames()

	var b strings.Builder
	for _, name := range names {
		cols := s.Tables[name]
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, col.Name+" "+col.DataType)
		}
		b.WriteString(name)
		b.WriteString("(")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FallbackDescription stands in when introspection fails or returns nothing.
// It mirrors the retail demo schema shipped in the migrations.
const FallbackDescription = `products(id integer, name text, category text, price numeric, stock_quantity integer)
customers(id integer, name text, email text, created_at timestamp)
orders(id integer, customer_id integer, status text, total numeric, created_at timestamp)
order_items(id integer, order_id integer, product_id integer, quantity integer, unit_price numeric)`

type Introspector interface {
	Describe(ctx context.Context) (Snapshot, error)
}
