package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatsSummary holds the headline dashboard numbers
type StatsSummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	PaidOrders        int     `json:"paid_orders"`
	TotalProducts     int     `json:"total_products"`
	AvailableProducts int     `json:"available_products"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	RecentOrders      int     `json:"recent_orders"`
	RecentRevenue     float64 `json:"recent_revenue"`
}

// StatusCount is the number of orders per status
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TopProduct is a best-seller row
type TopProduct struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// DailyRevenue is revenue and order count for one day
type DailyRevenue struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

// LowStockProduct flags a product running out
type LowStockProduct struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Stock int       `json:"stock"`
	Price float64   `json:"price"`
}

// DashboardStats is the full dashboard payload
type DashboardStats struct {
	Summary          StatsSummary      `json:"summary"`
	OrdersByStatus   []StatusCount     `json:"orders_by_status"`
	TopProducts      []TopProduct      `json:"top_products"`
	DailyRevenue     []DailyRevenue    `json:"daily_revenue"`
	LowStockProducts []LowStockProduct `json:"low_stock_products"`
}

// StatsRepository runs the read-only aggregation queries behind the admin
// dashboard. Only paid orders count toward revenue figures.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	summaryQuery := `
		SELECT
			COALESCE((SELECT SUM(total_amount) FROM orders WHERE paid = TRUE), 0),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE paid = TRUE),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE available = TRUE),
			COALESCE((SELECT AVG(total_amount) FROM orders WHERE paid = TRUE), 0),
			(SELECT COUNT(*) FROM orders WHERE created_at >= $1),
			COALESCE((SELECT SUM(total_amount) FROM orders WHERE paid = TRUE AND created_at >= $1), 0)
	`

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	err := r.db.QueryRowContext(ctx, summaryQuery, sevenDaysAgo).Scan(
		&stats.Summary.TotalRevenue,
		&stats.Summary.TotalOrders,
		&stats.Summary.PaidOrders,
		&stats.Summary.TotalProducts,
		&stats.Summary.AvailableProducts,
		&stats.Summary.AvgOrderValue,
		&stats.Summary.RecentOrders,
		&stats.Summary.RecentRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary stats: %w", err)
	}

	if stats.OrdersByStatus, err = r.ordersByStatus(ctx); err != nil {
		return nil, err
	}
	if stats.TopProducts, err = r.topProducts(ctx); err != nil {
		return nil, err
	}
	if stats.DailyRevenue, err = r.dailyRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = r.lowStockProducts(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) ordersByStatus(ctx context.Context) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	counts := []StatusCount{}
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (r *statsRepository) topProducts(ctx context.Context) ([]TopProduct, error) {
	query := `
		SELECT p.name, p.price,
		       SUM(oi.quantity) AS total_quantity,
		       SUM(oi.price * oi.quantity) AS total_revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.name, p.price
		ORDER BY total_quantity DESC
		LIMIT 5
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}
	defer rows.Close()

	products := []TopProduct{}
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.Name, &tp.Price, &tp.TotalQuantity, &tp.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		products = append(products, tp)
	}
	return products, rows.Err()
}

func (r *statsRepository) dailyRevenue(ctx context.Context) ([]DailyRevenue, error) {
	query := `
		SELECT DATE(created_at) AS day, SUM(total_amount), COUNT(*)
		FROM orders
		WHERE paid = TRUE AND created_at >= $1
		GROUP BY day
		ORDER BY day
	`

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	rows, err := r.db.QueryContext(ctx, query, thirtyDaysAgo)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily revenue: %w", err)
	}
	defer rows.Close()

	revenue := []DailyRevenue{}
	for rows.Next() {
		var dr DailyRevenue
		if err := rows.Scan(&dr.Date, &dr.Revenue, &dr.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan daily revenue: %w", err)
		}
		revenue = append(revenue, dr)
	}
	return revenue, rows.Err()
}

func (r *statsRepository) lowStockProducts(ctx context.Context) ([]LowStockProduct, error) {
	query := `
		SELECT id, name, stock, price
		FROM products
		WHERE stock <= 10 AND available = TRUE
		ORDER BY stock ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock products: %w", err)
	}
	defer rows.Close()

	products := []LowStockProduct{}
	for rows.Next() {
		var p LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan low stock product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
