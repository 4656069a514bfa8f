package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/datachat/datachat/internal/config"
	"github.com/datachat/datachat/internal/dbexec"
	"github.com/datachat/datachat/internal/demo/seed"
	"github.com/datachat/datachat/internal/observability"
)

func main() {
	seedValue := flag.Int64("seed", 1, "random seed for deterministic data")
	products := flag.Int("products", 24, "number of products to insert")
	customers := flag.Int("customers", 16, "number of customers to insert")
	orders := flag.Int("orders", 60, "number of orders to insert")
	flag.Parse()

	cfg, err := config.LoadFromEnv("datachat-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := dbexec.Open(ctx, dbexec.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	service, err := seed.NewService(db, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed setup error: %v\n", err)
		os.Exit(1)
	}

	dataset := seed.Generate(seed.Options{
		Seed:      *seedValue,
		Products:  *products,
		Customers: *customers,
		Orders:    *orders,
	})
	if err := service.Seed(ctx, dataset); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}
