package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/dto"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/validators"
)

// ======================================================
// USE CASES
// ======================================================

// AppointmentUseCases is shared by the private and public handlers.
type AppointmentUseCases struct {
	Create       *appointment.CreateAppointment
	Reschedule   *appointment.RescheduleAppointment
	Cancel       *appointment.CancelAppointment
	Confirm      *appointment.ConfirmAppointment
	Complete     *appointment.CompleteAppointment
	NoShow       *appointment.MarkNoShow
	Availability *appointment.GetAvailability
	List         *appointment.ListAppointments
}

func NewAppointmentUseCases(d appointment.Deps) AppointmentUseCases {
	return AppointmentUseCases{
		Create:       appointment.NewCreateAppointment(d),
		Reschedule:   appointment.NewRescheduleAppointment(d),
		Cancel:       appointment.NewCancelAppointment(d),
		Confirm:      appointment.NewConfirmAppointment(d),
		Complete:     appointment.NewCompleteAppointment(d),
		NoShow:       appointment.NewMarkNoShow(d),
		Availability: appointment.NewGetAvailability(d),
		List:         appointment.NewListAppointments(d),
	}
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	uc AppointmentUseCases
}

func NewAppointmentHandler(uc AppointmentUseCases) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID      uint   `json:"service_id" binding:"required"`
	EmployeeID     *uint  `json:"employee_id"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientWhatsApp string `json:"client_whatsapp" binding:"required"`
	ClientEmail    string `json:"client_email" binding:"omitempty,email"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:MM
	Notes          string `json:"notes" binding:"max=255"`
	PromotionCode  string `json:"promotion_code"`
}

type RescheduleRequest struct {
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	EmployeeID *uint  `json:"employee_id"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=100"`
}

type ConfirmRequest struct {
	DepositPaid bool `json:"deposit_paid"`
}

// ======================================================
// HELPERS
// ======================================================

func normalizeWhatsApp(c *gin.Context, raw string) (string, bool) {
	phone, ok := validators.NormalizeWhatsApp(raw)
	if !ok {
		httperr.BadRequest(c, "invalid_whatsapp", "WhatsApp inválido. Use DDD + número.")
	}
	return phone, ok
}

func (r CreateAppointmentRequest) input(salonID uint, actorID *uint, phone string) appointment.CreateInput {
	return appointment.CreateInput{
		SalonID:        salonID,
		ServiceID:      r.ServiceID,
		EmployeeID:     r.EmployeeID,
		ClientName:     r.ClientName,
		ClientWhatsApp: phone,
		ClientEmail:    validators.NormalizeEmail(r.ClientEmail),
		Date:           r.Date,
		Time:           r.Time,
		Notes:          r.Notes,
		PromotionCode:  r.PromotionCode,
		ActorID:        actorID,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	phone, ok := normalizeWhatsApp(c, req.ClientWhatsApp)
	if !ok {
		return
	}

	ap, err := h.uc.Create.Execute(
		c.Request.Context(),
		req.input(middleware.SalonID(c), middleware.UserID(c), phone),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) filter(c *gin.Context) (appointment.ListFilter, bool) {
	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return appointment.ListFilter{}, false
	}
	clientID, ok := queryUint(c, "client_id")
	if !ok {
		return appointment.ListFilter{}, false
	}

	return appointment.ListFilter{
		SalonID:    middleware.SalonID(c),
		EmployeeID: employeeID,
		ClientID:   clientID,
		Status:     c.Query("status"),
	}, true
}

// ListByDate answers GET /me/appointments?date=YYYY-MM-DD.
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data (YYYY-MM-DD).")
		return
	}

	f, ok := h.filter(c)
	if !ok {
		return
	}

	list, err := h.uc.List.ByDate(c.Request.Context(), f, date)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

// ListByMonth answers GET /me/appointments/month?year=2026&month=3.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_month", "Informe ano e mês válidos.")
		return
	}

	f, ok := h.filter(c)
	if !ok {
		return
	}

	list, err := h.uc.List.ByMonth(c.Request.Context(), f, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.List.Get(c.Request.Context(), middleware.SalonID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"appointment": ap,
		"summary":     dto.NewAppointmentListDTO(ap),
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	availability(c, h.uc.Availability, middleware.SalonID(c))
}

// availability is shared with the public handler.
func availability(c *gin.Context, uc *appointment.GetAvailability, salonID uint) {
	date := c.Query("date")
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}
	if date == "" || serviceID == nil {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}
	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return
	}

	slots, err := uc.Execute(c.Request.Context(), appointment.AvailabilityInput{
		SalonID:    salonID,
		ServiceID:  *serviceID,
		EmployeeID: employeeID,
		Date:       date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// STATUS CHANGES
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ConfirmRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	ap, err := h.uc.Confirm.Execute(c.Request.Context(), appointment.ConfirmInput{
		SalonID:       middleware.SalonID(c),
		AppointmentID: id,
		DepositPaid:   req.DepositPaid,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), appointment.CancelInput{
		SalonID:       middleware.SalonID(c),
		AppointmentID: id,
		Reason:        req.Reason,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.Complete.Execute(c.Request.Context(), middleware.SalonID(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.uc.NoShow.Execute(c.Request.Context(), middleware.SalonID(c), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ap, err := h.uc.Reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		SalonID:       middleware.SalonID(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		EmployeeID:    req.EmployeeID,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}
