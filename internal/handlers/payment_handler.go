package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/payment"
)

type PaymentHandler struct {
	payments *payment.Service
}

func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type CreateDepositRequest struct {
	Method string `json:"method" binding:"required"`
}

// mercadoPagoNotification covers both webhook shapes: the JSON body
// {"type":"payment","data":{"id":"123"}} and the legacy ?topic=payment&id=123.
type mercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateDeposit answers POST /me/appointments/:id/deposit.
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.payments.CreateDeposit(c.Request.Context(), payment.CreateDepositInput{
		SalonID:       middleware.SalonID(c),
		AppointmentID: id,
		Method:        req.Method,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List answers GET /me/payments?appointment_id=&status=&from=&to=
func (h *PaymentHandler) List(c *gin.Context) {
	appointmentID, ok := queryUint(c, "appointment_id")
	if !ok {
		return
	}

	f := domain.ListFilter{
		SalonID: middleware.SalonID(c),
		Status:  c.Query("status"),
	}
	if appointmentID != nil {
		f.AppointmentID = *appointmentID
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(timezone.DateLayout, from)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		f.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(timezone.DateLayout, to)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		f.To = t.AddDate(0, 0, 1)
	}

	list, err := h.payments.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.payments.Refund(c.Request.Context(), middleware.SalonID(c), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Webhook receives Mercado Pago notifications. It always answers 200 once
// the notification was understood, so the provider stops retrying; only
// transient failures get a 5xx.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var body mercadoPagoNotification
	_ = c.ShouldBindJSON(&body)

	kind := body.Type
	if kind == "" {
		kind = c.Query("topic")
	}
	if kind == "" {
		kind = c.Query("type")
	}

	paymentID := body.Data.ID
	if paymentID == "" {
		paymentID = c.Query("data.id")
	}
	if paymentID == "" {
		paymentID = c.Query("id")
	}

	if !strings.EqualFold(kind, "payment") {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	p, err := h.payments.HandleNotification(c.Request.Context(), paymentID)
	if code, ok := httperr.BusinessCode(err); ok {
		// unknown payments or bad ids are not worth a retry
		c.JSON(http.StatusOK, gin.H{"status": "ignored", "reason": code})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": p.Status})
}
