package payment

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrGateway wraps transport or provider failures. Callers see it via
	// errors.Is and decide retry vs abandon.
	ErrGateway = errors.New("payment gateway error")

	// ErrUnknownIntentStatus reports a provider status string outside the
	// known set. Surfaced loudly instead of being folded into "not completed".
	ErrUnknownIntentStatus = errors.New("unknown payment intent status")
)

// IntentStatus is the closed set of payment intent states this service
// understands, mapped from the provider's wire strings.
type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentStatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentStatusRequiresAction        IntentStatus = "requires_action"
	IntentStatusProcessing            IntentStatus = "processing"
	IntentStatusRequiresCapture       IntentStatus = "requires_capture"
	IntentStatusCanceled              IntentStatus = "canceled"
	IntentStatusSucceeded             IntentStatus = "succeeded"
)

// ParseIntentStatus maps a provider wire string to an IntentStatus,
// failing with ErrUnknownIntentStatus on unrecognized values.
func ParseIntentStatus(s string) (IntentStatus, error) {
	switch IntentStatus(s) {
	case IntentStatusRequiresPaymentMethod,
		IntentStatusRequiresConfirmation,
		IntentStatusRequiresAction,
		IntentStatusProcessing,
		IntentStatusRequiresCapture,
		IntentStatusCanceled,
		IntentStatusSucceeded:
		return IntentStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntentStatus, s)
	}
}

// Intent is the provider-side record of an authorized-but-unsettled charge
type Intent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
}

// Gateway is the payment provider boundary. Implementations talk to the
// remote provider; the checkout service holds one injected instance.
type Gateway interface {
	// CreateIntent registers a charge of amount minor units (cents) in the
	// given currency. Metadata travels to the provider as-is.
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)

	// RetrieveIntent fetches the current state of an intent by its id
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)

	// CancelIntent voids an unsettled intent. Used as saga compensation
	// when order persistence fails after the intent was created.
	CancelIntent(ctx context.Context, id string) error
}
