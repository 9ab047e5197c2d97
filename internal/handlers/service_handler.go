package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	DurationMin       int     `json:"duration_min" binding:"required,min=5,max=720"`
	Price             float64 `json:"price" binding:"min=0"`
	Category          string  `json:"category"`
	DepositRequired   bool    `json:"deposit_required"`
	DepositPercentage float64 `json:"deposit_percentage" binding:"min=0,max=100"`
}

type UpdateServiceRequest struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	DurationMin       *int     `json:"duration_min,omitempty" binding:"omitempty,min=5,max=720"`
	Price             *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Category          *string  `json:"category,omitempty"`
	Active            *bool    `json:"active,omitempty"`
	DepositRequired   *bool    `json:"deposit_required,omitempty"`
	DepositPercentage *float64 `json:"deposit_percentage,omitempty" binding:"omitempty,min=0,max=100"`
}

// --------- Queries ---------

// listServices is shared with the public catalog.
func listServices(db *gorm.DB, salonID uint, category, query string, onlyActive bool) ([]models.Service, error) {
	q := db.Where("salon_id = ?", salonID)

	if onlyActive {
		q = q.Where("active = ?", true)
	}
	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var services []models.Service
	err := q.Order("name ASC").Find(&services).Error
	return services, err
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	onlyActive := c.Query("active") == "true"

	services, err := listServices(h.db, middleware.SalonID(c), category, query, onlyActive)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.DepositRequired && req.DepositPercentage <= 0 {
		httperr.BadRequest(c, "invalid_deposit", "Informe o percentual do sinal.")
		return
	}

	service := models.Service{
		SalonID:           middleware.SalonID(c),
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		DurationMin:       req.DurationMin,
		Price:             req.Price,
		Category:          strings.ToLower(req.Category),
		Active:            true,
		DepositRequired:   req.DepositRequired,
		DepositPercentage: req.DepositPercentage,
	}

	if err := h.db.Create(&service).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "service_created", "service", service.ID, nil)
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		First(&service).Error; err != nil {
		respondError(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = strings.ToLower(*req.Category)
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.DepositRequired != nil {
		service.DepositRequired = *req.DepositRequired
	}
	if req.DepositPercentage != nil {
		service.DepositPercentage = *req.DepositPercentage
	}

	if service.DepositRequired && service.DepositPercentage <= 0 {
		httperr.BadRequest(c, "invalid_deposit", "Informe o percentual do sinal.")
		return
	}

	if err := h.db.Save(&service).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", service.ID, req)
	c.JSON(http.StatusOK, service)
}

// Delete deactivates: past appointments keep pointing at the service.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		Update("active", false)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, gorm.ErrRecordNotFound)
		return
	}

	writeAudit(c, h.audit, "service_deactivated", "service", id, nil)
	c.Status(http.StatusNoContent)
}
