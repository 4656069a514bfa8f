package catalog

import "fmt"

// DefaultRegistry returns the built-in operations over the retail demo
// schema (products, customers, orders, order_items).
func DefaultRegistry() *Registry {
	registry := NewRegistry()

	mustRegister(registry, Operation{
		Name:        "getTopSellingProducts",
		Description: "Ranks products by units sold across all orders.",
		Category:    "sales",
		Parameters: []Parameter{
			{Name: "limit", Type: ParamNumber, Required: false, Description: "How many products to return.", Default: float64(5)},
		},
		Examples: []string{
			"What are the top selling products?",
			"Show me our best sellers",
			"Which products sell the most?",
		},
	}, func(params map[string]any) (string, error) {
		limit := intParam(params, "limit", 5)
		return fmt.Sprintf(`SELECT p.name, p.category, SUM(oi.quantity) AS units_sold, SUM(oi.quantity * oi.unit_price) AS revenue
FROM order_items oi
JOIN products p ON p.id = oi.product_id
GROUP BY p.name, p.category
ORDER BY units_sold DESC
LIMIT %d`, limit), nil
	})

	mustRegister(registry, Operation{
		Name:        "getProductByName",
		Description: "Looks up products whose name matches the given text.",
		Category:    "inventory",
		Parameters: []Parameter{
			{Name: "name", Type: ParamString, Required: true, Description: "Product name or fragment to search for."},
		},
		Examples: []string{
			"Find the product called widget",
			"Do we sell desk lamps?",
		},
	}, func(params map[string]any) (string, error) {
		name, ok := stringParam(params, "name")
		if !ok {
			return "", fmt.Errorf("getProductByName: name is required")
		}
		return fmt.Sprintf(`SELECT id, name, category, price, stock_quantity
FROM products
WHERE LOWER(name) LIKE LOWER(%s)
ORDER BY name
LIMIT 10`, quoteLiteral("%"+name+"%")), nil
	})

	mustRegister(registry, Operation{
		Name:        "getTotalRevenue",
		Description: "Sums order revenue, optionally bounded by an ISO date range.",
		Category:    "sales",
		Parameters: []Parameter{
			{Name: "start_date", Type: ParamString, Required: false, Description: "Inclusive lower bound, YYYY-MM-DD."},
			{Name: "end_date", Type: ParamString, Required: false, Description: "Exclusive upper bound, YYYY-MM-DD."},
		},
		Examples: []string{
			"What is our total revenue?",
			"How much did we make in March?",
		},
	}, func(params map[string]any) (string, error) {
		sql := `SELECT COALESCE(SUM(total), 0) AS total_revenue FROM orders`
		clause := ""
		if start, ok := stringParam(params, "start_date"); ok {
			clause = fmt.Sprintf(" WHERE created_at >= %s", quoteLiteral(start))
		}
		if end, ok := stringParam(params, "end_date"); ok {
			if clause == "" {
				clause = fmt.Sprintf(" WHERE created_at < %s", quoteLiteral(end))
			} else {
				clause += fmt.Sprintf(" AND created_at < %s", quoteLiteral(end))
			}
		}
		return sql + clause, nil
	})

	mustRegister(registry, Operation{
		Name:        "countCustomers",
		Description: "Counts registered customers.",
		Category:    "customers",
		Parameters:  nil,
		Examples: []string{
			"How many customers do we have?",
			"Customer count",
		},
	}, func(map[string]any) (string, error) {
		return `SELECT COUNT(*) AS customer_count FROM customers`, nil
	})

	mustRegister(registry, Operation{
		Name:        "getRecentOrders",
		Description: "Lists the most recent orders with customer names.",
		Category:    "sales",
		Parameters: []Parameter{
			{Name: "limit", Type: ParamNumber, Required: false, Description: "How many orders to return.", Default: float64(10)},
		},
		Examples: []string{
			"Show me the latest orders",
			"What orders came in recently?",
		},
	}, func(params map[string]any) (string, error) {
		limit := intParam(params, "limit", 10)
		return fmt.Sprintf(`SELECT o.id, c.name AS customer, o.status, o.total, o.created_at
FROM orders o
JOIN customers c ON c.id = o.customer_id
ORDER BY o.created_at DESC
LIMIT %d`, limit), nil
	})

	mustRegister(registry, Operation{
		Name:        "getLowStockProducts",
		Description: "Lists products whose stock is at or below a threshold.",
		Category:    "inventory",
		Parameters: []Parameter{
			{Name: "threshold", Type: ParamNumber, Required: false, Description: "Stock level considered low.", Default: float64(10)},
		},
		Examples: []string{
			"Which products are running low?",
			"What do we need to restock?",
		},
	}, func(params map[string]any) (string, error) {
		threshold := intParam(params, "threshold", 10)
		return fmt.Sprintf(`SELECT id, name, category, stock_quantity
FROM products
WHERE stock_quantity <= %d
ORDER BY stock_quantity ASC
LIMIT 50`, threshold), nil
	})

	mustRegister(registry, Operation{
		Name:        "getCustomerOrders",
		Description: "Lists orders placed by a named customer.",
		Category:    "customers",
		Parameters: []Parameter{
			{Name: "customer_name", Type: ParamString, Required: true, Description: "Customer name or fragment."},
			{Name: "limit", Type: ParamNumber, Required: false, Description: "How many orders to return.", Default: float64(20)},
		},
		Examples: []string{
			"Show me orders from Acme Corp",
			"What has Jane Doe bought?",
		},
	}, func(params map[string]any) (string, error) {
		name, ok := stringParam(params, "customer_name")
		if !ok {
			return "", fmt.Errorf("getCustomerOrders: customer_name is required")
		}
		limit := intParam(params, "limit", 20)
		return fmt.Sprintf(`SELECT o.id, o.status, o.total, o.created_at
FROM orders o
JOIN customers c ON c.id = o.customer_id
WHERE LOWER(c.name) LIKE LOWER(%s)
ORDER BY o.created_at DESC
LIMIT %d`, quoteLiteral("%"+name+"%"), limit), nil
	})

	return registry
}

func mustRegister(registry *Registry, op Operation, build SQLBuilder) {
	if err := registry.Register(op, build); err != nil {
		panic(err)
	}
}
