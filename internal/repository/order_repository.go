package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository is the order ledger: atomic order creation and the
// paid/stock transition. No business logic beyond atomicity lives here.
type OrderRepository interface {
	// CreateWithItems persists an order and all of its items in a single
	// transaction. Nothing is written if any insert fails.
	CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error

	// FindByID retrieves an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// MarkPaidAndDecrementStock atomically marks the order paid/processing
	// and decrements stock for every item. Stock deltas are read from the
	// order's own items inside the transaction; items are immutable so the
	// deltas cannot drift. If the order is already paid the call is a
	// no-op, which makes concurrent confirmations of one order safe.
	MarkPaidAndDecrementStock(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// ListRecent returns the newest orders with items, for the dashboard
	ListRecent(ctx context.Context, limit int) ([]*domain.Order, error)
}

type orderRepository struct {
	db       *sql.DB
	products ProductRepository
}

// NewOrderRepository creates a new instance of OrderRepository. The product
// repository supplies the in-transaction stock decrement.
func NewOrderRepository(db *sql.DB, products ProductRepository) OrderRepository {
	return &orderRepository{db: db, products: products}
}

const orderColumns = `id, email, first_name, last_name, address, city, postal_code, country, phone,
		total_amount, status, paid, payment_intent_id, user_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	order := &domain.Order{}
	err := row.Scan(
		&order.ID,
		&order.Email,
		&order.FirstName,
		&order.LastName,
		&order.Address,
		&order.City,
		&order.PostalCode,
		&order.Country,
		&order.Phone,
		&order.TotalAmount,
		&order.Status,
		&order.Paid,
		&order.PaymentIntentID,
		&order.UserID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateWithItems persists the order and its items in one transaction
func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.Email,
		order.FirstName,
		order.LastName,
		order.Address,
		order.City,
		order.PostalCode,
		order.Country,
		order.Phone,
		order.TotalAmount,
		order.Status,
		order.Paid,
		order.PaymentIntentID,
		order.UserID,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			order.ID,
			item.ProductID,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order transaction: %w", err)
	}

	order.Items = items
	return nil
}

// FindByID retrieves an order and its items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	items, err := r.loadItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// MarkPaidAndDecrementStock performs the confirmation transaction
func (r *orderRepository) MarkPaidAndDecrementStock(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The paid = FALSE guard makes the transition happen at most once even
	// when two confirmations race; the loser sees zero rows and skips the
	// decrement entirely.
	updateQuery := `
		UPDATE orders
		SET paid = TRUE, status = $2
		WHERE id = $1 AND paid = FALSE
	`

	result, err := tx.ExecContext(ctx, updateQuery, orderID, domain.OrderStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Already paid, or missing entirely
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			return nil, fmt.Errorf("failed to roll back: %w", err)
		}
		return r.FindByID(ctx, orderID)
	}

	items, err := r.loadItems(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := r.products.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation transaction: %w", err)
	}

	return r.FindByID(ctx, orderID)
}

// ListRecent returns the newest orders, items included
func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *orderRepository) loadItems(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.price, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
