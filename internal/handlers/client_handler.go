package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/dto"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, limit, offset := httpresp.Pagination(c, 50, 200)

	q := h.db.Model(&models.Client{}).Where("salon_id = ?", salonID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? OR whatsapp LIKE ? OR LOWER(email) LIKE ?)",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&clients).Error; err != nil {
		respondError(c, err)
		return
	}

	httpresp.Page(c, clients, page, limit, total)
}

// ======================================================
// CLIENT + HISTORY
// ======================================================
func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	var apps []models.Appointment
	if err := h.db.
		Preload("Service").
		Preload("Employee").
		Where("salon_id = ? AND client_id = ?", client.SalonID, client.ID).
		Order("scheduled_at DESC").
		Limit(100).
		Find(&apps).Error; err != nil {
		respondError(c, err)
		return
	}

	history := make([]dto.AppointmentListDTO, 0, len(apps))
	for i := range apps {
		apps[i].Client = *client
		history = append(history, dto.NewAppointmentListDTO(&apps[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"client":       client,
		"appointments": history,
	})
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.WhatsApp != nil {
		phone, valid := validators.NormalizeWhatsApp(*req.WhatsApp)
		if !valid {
			httperr.BadRequest(c, "invalid_whatsapp", "WhatsApp inválido. Use DDD + número.")
			return
		}
		client.WhatsApp = phone
	}
	if req.Email != nil {
		client.Email = validators.NormalizeEmail(*req.Email)
	}

	if err := h.db.Save(client).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "client_updated", "client", client.ID, nil)
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) load(c *gin.Context) (*models.Client, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		First(&client).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &client, true
}
