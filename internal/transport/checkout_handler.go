package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutItemRequest is one requested line item
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreatePaymentIntentRequest is the checkout initiation payload
type CreatePaymentIntentRequest struct {
	Email      string                `json:"email" validate:"required,email"`
	FirstName  string                `json:"first_name" validate:"required"`
	LastName   string                `json:"last_name" validate:"required"`
	Address    string                `json:"address" validate:"required"`
	City       string                `json:"city" validate:"required"`
	PostalCode string                `json:"postal_code" validate:"required"`
	Country    string                `json:"country" validate:"required"`
	Phone      string                `json:"phone" validate:"required"`
	Items      []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreatePaymentIntentResponse hands the client what it needs to run the
// provider-side payment flow
type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	OrderID      string `json:"orderId"`
}

// ConfirmPaymentResponse wraps the confirmed order
type ConfirmPaymentResponse struct {
	Message string `json:"message"`
	Order   any    `json:"order"`
}

// CheckoutHandler handles HTTP requests for the checkout flow
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout routes. The rate limiter guards
// both endpoints since each confirmation hits the payment provider.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Post("/create-payment-intent", h.CreatePaymentIntent)
		r.Post("/confirm-payment/{orderID}", h.ConfirmPayment)
	})
}

// CreatePaymentIntent handles checkout initiation
func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentIntentRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
			return
		}
		items = append(items, service.CheckoutItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	customer := service.CustomerInfo{
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
	}

	result, err := h.checkoutService.InitiateCheckout(r.Context(), customer, items)
	if err != nil {
		h.respondCheckoutError(w, err, "failed to initiate checkout")
		return
	}

	h.logger.Info("Payment intent created", zap.String("order_id", result.OrderID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, CreatePaymentIntentResponse{
		ClientSecret: result.ClientSecret,
		OrderID:      result.OrderID.String(),
	})
}

// ConfirmPayment handles checkout confirmation
func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.checkoutService.ConfirmCheckout(r.Context(), orderID)
	if err != nil {
		h.respondCheckoutError(w, err, "failed to confirm payment")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ConfirmPaymentResponse{
		Message: "Payment confirmed",
		Order:   order,
	})
}

func (h *CheckoutHandler) respondCheckoutError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *service.InsufficientStockError

	switch {
	case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &stockErr):
		middleware.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrPaymentNotCompleted):
		middleware.RespondWithError(w, http.StatusBadRequest, "payment not completed")
	case errors.Is(err, repository.ErrInsufficientStock):
		// Confirmation-time oversell: the decrement transaction rolled
		// back and the order is still pending payment
		middleware.RespondWithError(w, http.StatusConflict, "insufficient stock to fulfill order")
	case errors.Is(err, payment.ErrGateway), errors.Is(err, payment.ErrUnknownIntentStatus):
		h.logger.Error("Payment gateway failure", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "payment provider unavailable")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
