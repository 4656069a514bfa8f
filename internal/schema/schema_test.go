package schema

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestSnapshotDescriptionIsSorted(t *testing.T) {
	snapshot := Snapshot{Tables: map[string][]Column{
		"orders":   {{Name: "id", DataType: "integer"}, {Name: "total", DataType: "numeric"}},
		"products": {{Name: "id", DataType: "integer"}, {Name: "name", DataType: "text"}},
	}}
	got := snapshot.Description()
	want := "orders(id integer, total numeric)\nproducts(id integer, name text)"
	if got != want {
		t.Fatalf("Description() = %q, want %q", got, want)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if !(Snapshot{}).Empty() {
		t.Fatal("zero snapshot should be empty")
	}
	if (Snapshot{Tables: map[string][]Column{"t": nil}}).Empty() {
		t.Fatal("snapshot with a table should not be empty")
	}
}

func TestSQLIntrospectorDescribe(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(introspectQuery)).WillReturnRows(
		sqlmock.NewRows([]string{"table_name", "column_name", "data_type"}).
			AddRow("products", "id", "integer").
			AddRow("products", "name", "text").
			AddRow("orders", "id", "integer"),
	)

	snapshot, err := NewSQLIntrospector(db).Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if len(snapshot.Tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(snapshot.Tables))
	}
	if len(snapshot.Tables["products"]) != 2 {
		t.Fatalf("products columns = %d, want 2", len(snapshot.Tables["products"]))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLIntrospectorPropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(introspectQuery)).WillReturnError(errors.New("permission denied"))

	if _, err := NewSQLIntrospector(db).Describe(context.Background()); err == nil {
		t.Fatal("expected error from failed introspection")
	}
}

func TestFallbackDescriptionListsRetailTables(t *testing.T) {
	for _, table := range []string{"products(", "customers(", "orders(", "order_items("} {
		if !strings.Contains(FallbackDescription, table) {
			t.Fatalf("fallback missing %q", table)
		}
	}
}

type countingIntrospector struct {
	calls    int
	snapshot Snapshot
	err      error
}

func (c *countingIntrospector) Describe(context.Context) (Snapshot, error) {
	c.calls++
	if c.err != nil {
		return Snapshot{}, c.err
	}
	return c.snapshot, nil
}

func TestCachedIntrospectorServesWithinTTL(t *testing.T) {
	inner := &countingIntrospector{snapshot: Snapshot{Tables: map[string][]Column{"products": nil}}}
	cached := NewCachedIntrospector(inner, time.Minute)

	current := time.Unix(1000, 0)
	cached.now = func() time.Time { return current }

	for range 3 {
		if _, err := cached.Describe(context.Background()); err != nil {
			t.Fatalf("Describe() error = %v", err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}

	current = current.Add(2 * time.Minute)
	if _, err := cached.Describe(context.Background()); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls after expiry = %d, want 2", inner.calls)
	}
}

func TestCachedIntrospectorInvalidate(t *testing.T) {
	inner := &countingIntrospector{}
	cached := NewCachedIntrospector(inner, time.Hour)

	if _, err := cached.Describe(context.Background()); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	cached.Invalidate()
	if _, err := cached.Describe(context.Background()); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}

func TestCachedIntrospectorDoesNotCacheErrors(t *testing.T) {
	inner := &countingIntrospector{err: errors.New("down")}
	cached := NewCachedIntrospector(inner, time.Hour)

	if _, err := cached.Describe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := cached.Describe(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}
