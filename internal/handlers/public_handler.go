package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/dto"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/payment"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/promotion"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the client booking pages, addressed by salon slug.
type PublicHandler struct {
	db       *gorm.DB
	uc       AppointmentUseCases
	validate *promotion.Validate
	payments *payment.Service
}

func NewPublicHandler(
	db *gorm.DB,
	uc AppointmentUseCases,
	validate *promotion.Validate,
	payments *payment.Service,
) *PublicHandler {
	return &PublicHandler{db: db, uc: uc, validate: validate, payments: payments}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicRescheduleRequest struct {
	ClientWhatsApp string `json:"client_whatsapp" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	EmployeeID     *uint  `json:"employee_id"`
}

type PublicCancelRequest struct {
	ClientWhatsApp string `json:"client_whatsapp" binding:"required"`
	Reason         string `json:"reason" binding:"max=100"`
}

type PublicDepositRequest struct {
	ClientWhatsApp string `json:"client_whatsapp" binding:"required"`
	Method         string `json:"method" binding:"required"`
}

type publicSalonView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Timezone  string `json:"timezone"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Weekdays  []int  `json:"weekdays,omitempty"`
}

type publicEmployeeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Specialties string `json:"specialties"`
	PhotoURL    string `json:"photo_url"`
	ServiceIDs  []uint `json:"service_ids"`
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) salon(c *gin.Context) (*models.Salon, bool) {
	var shop models.Salon
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", strings.ToLower(c.Param("slug"))).
		First(&shop).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "salon_not_found", "Salão não encontrado.")
		return nil, false
	}
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return &shop, true
}

// ownAppointment loads the booking and checks it belongs to the given whatsapp.
func (h *PublicHandler) ownAppointment(c *gin.Context, shop *models.Salon, rawPhone string) (*models.Appointment, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	phone, ok := normalizeWhatsApp(c, rawPhone)
	if !ok {
		return nil, false
	}

	ap, err := h.uc.List.Get(c.Request.Context(), shop.ID, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if ap.Client.WhatsApp != phone {
		respondError(c, httperr.ErrBusiness(domain.CodeClientMismatch))
		return nil, false
	}
	return ap, true
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) GetSalon(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, publicSalonView{
		ID:        shop.ID,
		Name:      shop.Name,
		Slug:      shop.Slug,
		Phone:     shop.Phone,
		Address:   shop.Address,
		Timezone:  shop.Timezone,
		OpenTime:  shop.OpenTime,
		CloseTime: shop.CloseTime,
		Weekdays:  shop.Weekdays,
	})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	services, err := listServices(
		h.db.WithContext(c.Request.Context()),
		shop.ID,
		c.Query("category"),
		c.Query("query"),
		true,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	if services == nil {
		services = []models.Service{}
	}
	c.JSON(http.StatusOK, gin.H{
		"salon":    shop.Name,
		"services": services,
	})
}

func (h *PublicHandler) ListEmployees(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	employees, err := listEmployees(h.db.WithContext(c.Request.Context()), shop.ID, true)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]publicEmployeeView, 0, len(employees))
	for _, e := range employees {
		v := publicEmployeeView{ID: e.ID, Name: e.Name, Specialties: e.Specialties, PhotoURL: e.PhotoURL, ServiceIDs: []uint{}}
		for _, s := range e.Services {
			v.ServiceIDs = append(v.ServiceIDs, s.ID)
		}
		out = append(out, v)
	}

	c.JSON(http.StatusOK, gin.H{"employees": out})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}
	availability(c, h.uc.Availability, shop.ID)
}

////////////////////////////////////////////////////////
// PROMOTIONS
////////////////////////////////////////////////////////

func (h *PublicHandler) ValidatePromotion(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	var req ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.validate.Execute(c.Request.Context(), shop.ID, req.Code, req.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

////////////////////////////////////////////////////////
// APPOINTMENTS (PUBLIC → MESMOS USE CASES DO PAINEL)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	phone, ok := normalizeWhatsApp(c, req.ClientWhatsApp)
	if !ok {
		return
	}

	ap, err := h.uc.Create.Execute(c.Request.Context(), req.input(shop.ID, nil, phone))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAppointmentListDTO(ap))
}

// GetAppointment answers GET /public/:slug/appointments/:id?whatsapp=...
func (h *PublicHandler) GetAppointment(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	ap, ok := h.ownAppointment(c, shop, c.Query("whatsapp"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap))
}

func (h *PublicHandler) RescheduleAppointment(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PublicRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	phone, ok := normalizeWhatsApp(c, req.ClientWhatsApp)
	if !ok {
		return
	}

	ap, err := h.uc.Reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		SalonID:        shop.ID,
		AppointmentID:  id,
		Date:           req.Date,
		Time:           req.Time,
		EmployeeID:     req.EmployeeID,
		ClientWhatsApp: phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap))
}

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	phone, ok := normalizeWhatsApp(c, req.ClientWhatsApp)
	if !ok {
		return
	}

	ap, err := h.uc.Cancel.Execute(c.Request.Context(), appointment.CancelInput{
		SalonID:        shop.ID,
		AppointmentID:  id,
		Reason:         req.Reason,
		Public:         true,
		ClientWhatsApp: phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(ap))
}

// CreateDeposit lets the client pay the deposit of their own booking.
func (h *PublicHandler) CreateDeposit(c *gin.Context) {
	shop, ok := h.salon(c)
	if !ok {
		return
	}

	var req PublicDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ap, ok := h.ownAppointment(c, shop, req.ClientWhatsApp)
	if !ok {
		return
	}

	p, err := h.payments.CreateDeposit(c.Request.Context(), payment.CreateDepositInput{
		SalonID:       shop.ID,
		AppointmentID: ap.ID,
		Method:        req.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
