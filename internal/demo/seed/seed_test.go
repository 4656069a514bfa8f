package seed

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGenerateIsDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	opts := Options{Seed: 42, Products: 5, Customers: 3, Orders: 4, Now: now}

	first := Generate(opts)
	second := Generate(opts)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical datasets for the same seed")
	}
}

func TestGenerateRespectsCounts(t *testing.T) {
	dataset := Generate(Options{Seed: 1, Products: 5, Customers: 3, Orders: 4})

	if len(dataset.Products) != 5 || len(dataset.Customers) != 3 || len(dataset.Orders) != 4 {
		t.Fatalf("unexpected counts: %d products, %d customers, %d orders",
			len(dataset.Products), len(dataset.Customers), len(dataset.Orders))
	}
	if len(dataset.Items) < len(dataset.Orders) {
		t.Fatalf("expected at least one item per order, got %d items", len(dataset.Items))
	}
	for _, item := range dataset.Items {
		if item.OrderID < 1 || item.OrderID > 4 {
			t.Fatalf("item references unknown order: %+v", item)
		}
		if item.ProductID < 1 || item.ProductID > 5 {
			t.Fatalf("item references unknown product: %+v", item)
		}
	}
}

func TestGenerateOrderTotalsMatchItems(t *testing.T) {
	dataset := Generate(Options{Seed: 7, Products: 4, Customers: 2, Orders: 6})

	totals := make(map[int64]float64)
	for _, item := range dataset.Items {
		totals[item.OrderID] += float64(item.Quantity) * item.UnitPrice
	}
	for _, order := range dataset.Orders {
		want := round2(totals[order.ID])
		if order.Total != want {
			t.Fatalf("order %d total = %v, want %v", order.ID, order.Total, want)
		}
	}
}

func TestSeedInsertsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	dataset := Generate(Options{Seed: 3, Products: 2, Customers: 2, Orders: 2})

	mock.ExpectBegin()
	for range dataset.Products {
		mock.ExpectExec(`INSERT INTO products`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range dataset.Customers {
		mock.ExpectExec(`INSERT INTO customers`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range dataset.Orders {
		mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for range dataset.Items {
		mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	service, err := NewService(db, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if err := service.Seed(context.Background(), dataset); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeedRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock setup failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	dataset := Generate(Options{Seed: 3, Products: 1, Customers: 1, Orders: 1})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO products`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	service, err := NewService(db, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if err := service.Seed(context.Background(), dataset); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
