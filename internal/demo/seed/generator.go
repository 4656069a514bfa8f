// Package seed fills the retail demo schema with deterministic sample data
// so a fresh environment has something to ask questions about.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type Product struct {
	ID            int64
	Name          string
	Category      string
	Price         float64
	StockQuantity int
}

type Customer struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

type Order struct {
	ID         int64
	CustomerID int64
	Status     string
	Total      float64
	CreatedAt  time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice float64
}

type Dataset struct {
	Products  []Product
	Customers []Customer
	Orders    []Order
	Items     []OrderItem
}

type Options struct {
	Seed      int64
	Products  int
	Customers int
	Orders    int
	Now       time.Time
}

var (
	productAdjectives = []string{"Classic", "Deluxe", "Compact", "Eco", "Pro", "Mini"}
	productNouns      = []string{"Widget", "Gadget", "Lamp", "Mug", "Backpack", "Speaker", "Notebook", "Kettle"}
	categories        = []string{"electronics", "home", "office", "outdoors"}
	firstNames        = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Ken"}
	lastNames         = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Thompson"}
	orderStatuses     = []string{"pending", "shipped", "delivered", "cancelled"}
)

// Generate builds the full dataset up front so callers can inspect or insert
// it in one pass. The same options always produce the same rows.
func Generate(opts Options) Dataset {
	if opts.Products <= 0 {
		opts.Products = 24
	}
	if opts.Customers <= 0 {
		opts.Customers = 16
	}
	if opts.Orders <= 0 {
		opts.Orders = 60
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rnd := rand.New(rand.NewSource(opts.Seed))

	dataset := Dataset{
		Products:  make([]Product, 0, opts.Products),
		Customers: make([]Customer, 0, opts.Customers),
		Orders:    make([]Order, 0, opts.Orders),
	}

	for i := 0; i < opts.Products; i++ {
		dataset.Products = append(dataset.Products, Product{
			ID:            int64(i + 1),
			Name:          fmt.Sprintf("%s %s %d", pickOne(rnd, productAdjectives), pickOne(rnd, productNouns), i+1),
			Category:      pickOne(rnd, categories),
			Price:         round2(4 + rnd.Float64()*196),
			StockQuantity: rnd.Intn(120),
		})
	}

	for i := 0; i < opts.Customers; i++ {
		name := pickOne(rnd, firstNames) + " " + pickOne(rnd, lastNames)
		dataset.Customers = append(dataset.Customers, Customer{
			ID:        int64(i + 1),
			Name:      name,
			Email:     fmt.Sprintf("customer%03d@example.com", i+1),
			CreatedAt: opts.Now.Add(-time.Duration(rnd.Intn(365*24)) * time.Hour),
		})
	}

	itemID := int64(0)
	for i := 0; i < opts.Orders; i++ {
		orderID := int64(i + 1)
		createdAt := opts.Now.Add(-time.Duration(rnd.Intn(90*24)) * time.Hour)
		itemCount := 1 + rnd.Intn(3)
		total := 0.0
		for j := 0; j < itemCount; j++ {
			product := dataset.Products[rnd.Intn(len(dataset.Products))]
			quantity := 1 + rnd.Intn(4)
			itemID++
			dataset.Items = append(dataset.Items, OrderItem{
				ID:        itemID,
				OrderID:   orderID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			})
			total += float64(quantity) * product.Price
		}
		dataset.Orders = append(dataset.Orders, Order{
			ID:         orderID,
			CustomerID: dataset.Customers[rnd.Intn(len(dataset.Customers))].ID,
			Status:     pickOne(rnd, orderStatuses),
			Total:      round2(total),
			CreatedAt:  createdAt,
		})
	}

	return dataset
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
