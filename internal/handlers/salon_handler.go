package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

type SalonHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSalonHandler(db *gorm.DB, audit *audit.Dispatcher) *SalonHandler {
	return &SalonHandler{db: db, audit: audit}
}

type UpdateSalonRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
	MaxReschedules    *int    `json:"max_reschedules"`
	Weekdays          []int   `json:"weekdays"`
	OpenTime          *string `json:"open_time"`
	CloseTime         *string `json:"close_time"`
}

func (h *SalonHandler) Get(c *gin.Context) {
	var shop models.Salon
	if err := h.db.First(&shop, middleware.SalonID(c)).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *SalonHandler) Update(c *gin.Context) {
	var shop models.Salon
	if err := h.db.First(&shop, middleware.SalonID(c)).Error; err != nil {
		respondError(c, err)
		return
	}

	var req UpdateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}

	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		shop.Timezone = *req.Timezone
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		shop.MinAdvanceMinutes = req.MinAdvanceMinutes
	}

	if req.MaxReschedules != nil {
		if *req.MaxReschedules < 0 {
			httperr.BadRequest(c, "invalid_max_reschedules", "Limite de remarcações deve ser zero ou positivo.")
			return
		}
		shop.MaxReschedules = req.MaxReschedules
	}

	if req.Weekdays != nil {
		days := models.WeekdaySet(req.Weekdays)
		if !days.Valid() {
			httperr.BadRequest(c, "invalid_weekdays", "Dias de funcionamento inválidos (0 = domingo a 6 = sábado).")
			return
		}
		shop.Weekdays = days
	}

	if req.OpenTime != nil {
		shop.OpenTime = *req.OpenTime
	}
	if req.CloseTime != nil {
		shop.CloseTime = *req.CloseTime
	}
	if !validHours(shop.OpenTime, shop.CloseTime) {
		httperr.BadRequest(c, "invalid_business_hours", "Horário de funcionamento inválido (HH:MM, abertura antes do fechamento).")
		return
	}

	if err := h.db.Save(&shop).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "salon_updated", "salon", shop.ID, req)
	c.JSON(http.StatusOK, shop)
}

// validHours accepts both empty (use defaults) or an ordered HH:MM pair.
func validHours(open, close string) bool {
	return (open == "" && close == "") || validShift(open, close)
}
