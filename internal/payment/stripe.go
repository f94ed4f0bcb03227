package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway over the Stripe PaymentIntents API
type StripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeGateway creates a gateway bound to one Stripe account
func NewStripeGateway(secretKey string, logger *zap.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:    api,
		logger: logger,
	}
}

// CreateIntent registers a payment intent with Stripe
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("Failed to create payment intent",
			zap.Int64("amount", amount),
			zap.String("currency", currency),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: create intent: %v", ErrGateway, err)
	}

	status, err := ParseIntentStatus(string(pi.Status))
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       status,
	}, nil
}

// RetrieveIntent fetches the current intent state from Stripe
func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		g.logger.Error("Failed to retrieve payment intent",
			zap.String("intent_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: retrieve intent %s: %v", ErrGateway, id, err)
	}

	status, err := ParseIntentStatus(string(pi.Status))
	if err != nil {
		return nil, err
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       status,
	}, nil
}

// CancelIntent voids an unsettled intent at Stripe
func (g *StripeGateway) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	}

	if _, err := g.api.PaymentIntents.Cancel(id, params); err != nil {
		g.logger.Error("Failed to cancel payment intent",
			zap.String("intent_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("%w: cancel intent %s: %v", ErrGateway, id, err)
	}

	return nil
}
