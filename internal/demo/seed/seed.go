package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

type Service struct {
	db  *sql.DB
	log *slog.Logger
}

func NewService(db *sql.DB, logger *slog.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{db: db, log: logger}, nil
}

// Seed inserts the dataset in one transaction so a failed run leaves the
// schema empty instead of half filled.
func (s *Service) Seed(ctx context.Context, dataset Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, product := range dataset.Products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, category, price, stock_quantity) VALUES ($1, $2, $3, $4, $5)`,
			product.ID, product.Name, product.Category, product.Price, product.StockQuantity,
		); err != nil {
			return fmt.Errorf("insert product %d: %w", product.ID, err)
		}
	}

	for _, customer := range dataset.Customers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
			customer.ID, customer.Name, customer.Email, customer.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert customer %d: %w", customer.ID, err)
		}
	}

	for _, order := range dataset.Orders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, customer_id, status, total, created_at) VALUES ($1, $2, $3, $4, $5)`,
			order.ID, order.CustomerID, order.Status, order.Total, order.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order %d: %w", order.ID, err)
		}
	}

	for _, item := range dataset.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert order item %d: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.log.Info(
		"seeded retail demo data",
		slog.Int("products", len(dataset.Products)),
		slog.Int("customers", len(dataset.Customers)),
		slog.Int("orders", len(dataset.Orders)),
		slog.Int("order_items", len(dataset.Items)),
	)
	return nil
}
