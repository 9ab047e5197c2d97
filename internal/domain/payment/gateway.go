package payment

import "context"

type CheckoutRequest struct {
	ExternalRef string
	Title       string
	Amount      float64
}

type Checkout struct {
	ProviderRef string
	URL         string
}

// ProviderPayment is the provider view of a payment attempt.
type ProviderPayment struct {
	ID          string
	ExternalRef string
	Status      string
	Amount      float64
}

// Gateway is the online payment provider.
type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
	GetPayment(ctx context.Context, providerPaymentID string) (*ProviderPayment, error)
	Refund(ctx context.Context, providerPaymentID string) error
}
