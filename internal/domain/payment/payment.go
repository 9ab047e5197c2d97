package payment

import (
	"strings"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted,
		StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Final statuses are never overwritten by a late webhook, except
// completed -> refunded.
func (s Status) Final() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// ===============================
// Methods
// ===============================

const (
	MethodCash      = "cash"
	MethodPixManual = "pix_manual"
	MethodCard      = "card_manual"
	MethodOnline    = "online"
)

const (
	ProviderManual      = "manual"
	ProviderMercadoPago = "mercadopago"
)

// IsManual reports methods settled at the counter.
func IsManual(method string) bool {
	switch method {
	case MethodCash, MethodPixManual, MethodCard:
		return true
	}
	return false
}

func ValidMethod(method string) bool {
	return IsManual(method) || method == MethodOnline
}

// ===============================
// Errors
// ===============================

const (
	CodeInvalidMethod       = "invalid_payment_method"
	CodeNotAwaitingDeposit  = "deposit_not_pending"
	CodePaymentNotFound     = "payment_not_found"
	CodeNotRefundable       = "payment_not_refundable"
	CodeGatewayDisabled     = "payments_disabled"
	CodeAlreadyHasPayment   = "payment_already_pending"
	CodeInvalidNotification = "invalid_notification"
)

// ===============================
// Provider mapping
// ===============================

// FromProvider maps a Mercado Pago payment status. Unknown values stay
// processing so the next notification can settle them.
func FromProvider(status string) Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved":
		return StatusCompleted
	case "pending", "in_process", "authorized", "in_mediation":
		return StatusProcessing
	case "rejected":
		return StatusFailed
	case "cancelled":
		return StatusCancelled
	case "refunded", "charged_back":
		return StatusRefunded
	}
	return StatusProcessing
}

// CanMove decides whether a provider update may replace the stored status.
func CanMove(from, to Status) bool {
	if from == to {
		return false
	}
	if from == StatusCompleted {
		return to == StatusRefunded
	}
	return !from.Final()
}

func CanRefund(s Status) error {
	if s != StatusCompleted {
		return httperr.ErrBusiness(CodeNotRefundable)
	}
	return nil
}
