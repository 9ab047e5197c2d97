package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/refund"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
)

type MercadoPago struct {
	preferences preference.Client
	payments    mppayment.Client
	refunds     refund.Client

	notificationURL string
	successURL      string
}

func NewMercadoPago(accessToken, notificationURL, successURL string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		preferences:     preference.NewClient(cfg),
		payments:        mppayment.NewClient(cfg),
		refunds:         refund.NewClient(cfg),
		notificationURL: notificationURL,
		successURL:      successURL,
	}, nil
}

func (m *MercadoPago) Name() string {
	return domain.ProviderMercadoPago
}

func (m *MercadoPago) CreateCheckout(
	ctx context.Context,
	req domain.CheckoutRequest,
) (*domain.Checkout, error) {

	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         req.ExternalRef,
				Title:      req.Title,
				Quantity:   1,
				UnitPrice:  req.Amount,
				CurrencyID: "BRL",
			},
		},
		ExternalReference: req.ExternalRef,
		NotificationURL:   m.notificationURL,
	}
	if m.successURL != "" {
		request.BackURLs = &preference.BackURLsRequest{
			Success: m.successURL,
			Pending: m.successURL,
			Failure: m.successURL,
		}
		request.AutoReturn = "approved"
	}

	resp, err := m.preferences.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference: %w", err)
	}

	return &domain.Checkout{
		ProviderRef: resp.ID,
		URL:         resp.InitPoint,
	}, nil
}

func (m *MercadoPago) GetPayment(
	ctx context.Context,
	providerPaymentID string,
) (*domain.ProviderPayment, error) {

	id, err := strconv.Atoi(providerPaymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment id %q: %w", providerPaymentID, err)
	}

	resp, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}

	return &domain.ProviderPayment{
		ID:          strconv.Itoa(resp.ID),
		ExternalRef: resp.ExternalReference,
		Status:      resp.Status,
		Amount:      resp.TransactionAmount,
	}, nil
}

func (m *MercadoPago) Refund(ctx context.Context, providerPaymentID string) error {
	id, err := strconv.Atoi(providerPaymentID)
	if err != nil {
		return fmt.Errorf("mercadopago payment id %q: %w", providerPaymentID, err)
	}

	if _, err := m.refunds.Create(ctx, id); err != nil {
		return fmt.Errorf("mercadopago refund %d: %w", id, err)
	}
	return nil
}

var _ domain.Gateway = (*MercadoPago)(nil)
