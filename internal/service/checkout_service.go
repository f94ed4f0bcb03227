package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")

	// ErrPaymentNotCompleted signals the intent has not succeeded yet.
	// The caller is expected to retry confirmation later; the order is
	// left untouched.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// InsufficientStockError reports which product could not cover the
// requested quantity
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

// CheckoutItem is one requested line of a checkout
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// CustomerInfo is the contact and shipping block captured on the order
type CustomerInfo struct {
	Email      string
	FirstName  string
	LastName   string
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
	UserID     *uuid.UUID
}

// CheckoutResult is handed to the client-side payment flow
type CheckoutResult struct {
	ClientSecret string
	OrderID      uuid.UUID
}

// CheckoutService coordinates the catalog store, the payment gateway and
// the order ledger through the two-phase checkout protocol: intent plus
// order at initiation, paid flag plus stock decrement at confirmation.
type CheckoutService interface {
	InitiateCheckout(ctx context.Context, customer CustomerInfo, items []CheckoutItem) (*CheckoutResult, error)
	ConfirmCheckout(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
}

type checkoutService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	gateway  payment.Gateway
	currency string
	logger   *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService. The gateway
// is injected so one configured provider client serves all checkouts.
func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	gateway payment.Gateway,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		products: products,
		orders:   orders,
		gateway:  gateway,
		currency: currency,
		logger:   logger,
	}
}

// InitiateCheckout validates stock, snapshots prices, creates the payment
// intent with the provider and persists order plus items atomically.
// Stock is only checked here, never reserved; the authoritative decrement
// happens at confirmation time.
func (s *checkoutService) InitiateCheckout(ctx context.Context, customer CustomerInfo, items []CheckoutItem) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	orderItems := make([]domain.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if product.Stock < item.Quantity {
			return nil, &InsufficientStockError{ProductName: product.Name}
		}

		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, domain.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	// The gateway call happens before the order is persisted; an order
	// never exists without an intent reference.
	amount := int64(math.Round(total * 100))
	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency, map[string]string{
		"email":      customer.Email,
		"first_name": customer.FirstName,
		"last_name":  customer.LastName,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		Email:           customer.Email,
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		Address:         customer.Address,
		City:            customer.City,
		PostalCode:      customer.PostalCode,
		Country:         customer.Country,
		Phone:           customer.Phone,
		TotalAmount:     total,
		Status:          domain.OrderStatusPendingPayment,
		Paid:            false,
		PaymentIntentID: intent.ID,
		UserID:          customer.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.CreateWithItems(ctx, order, orderItems); err != nil {
		// The intent already exists at the provider. Compensate with a
		// best-effort cancellation so the saga does not leave an orphaned
		// authorization behind; nothing has been charged yet.
		if cancelErr := s.gateway.CancelIntent(ctx, intent.ID); cancelErr != nil {
			s.logger.Warn("Failed to cancel orphaned payment intent",
				zap.String("intent_id", intent.ID),
				zap.Error(cancelErr),
			)
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("Checkout initiated",
		zap.String("order_id", order.ID.String()),
		zap.Float64("total_amount", total),
		zap.Int("items", len(orderItems)),
	)

	return &CheckoutResult{
		ClientSecret: intent.ClientSecret,
		OrderID:      order.ID,
	}, nil
}

// ConfirmCheckout re-verifies the intent with the gateway and, if it has
// succeeded, atomically marks the order paid and decrements stock.
// Safe to call more than once: a paid order is returned as-is.
func (s *checkoutService) ConfirmCheckout(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Paid {
		return order, nil
	}

	intent, err := s.gateway.RetrieveIntent(ctx, order.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	if intent.Status != payment.IntentStatusSucceeded {
		s.logger.Info("Payment not completed yet",
			zap.String("order_id", orderID.String()),
			zap.String("intent_status", string(intent.Status)),
		)
		return nil, ErrPaymentNotCompleted
	}

	updated, err := s.orders.MarkPaidAndDecrementStock(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment confirmed",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}
