package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/promotion"
)

type PromotionHandler struct {
	db       *gorm.DB
	audit    *audit.Dispatcher
	validate *promotion.Validate
}

func NewPromotionHandler(db *gorm.DB, audit *audit.Dispatcher, validate *promotion.Validate) *PromotionHandler {
	return &PromotionHandler{db: db, audit: audit, validate: validate}
}

type PromotionRequest struct {
	Code          string     `json:"code" binding:"required"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discount_type" binding:"required,oneof=percent fixed"`
	DiscountValue float64    `json:"discount_value" binding:"required,gt=0"`
	ServiceID     *uint      `json:"service_id"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidTo       *time.Time `json:"valid_to"`
	MaxUses       int        `json:"max_uses" binding:"min=0"`
	Active        *bool      `json:"active"`
}

type ValidatePromotionRequest struct {
	Code      string `json:"code" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
}

func (h *PromotionHandler) List(c *gin.Context) {
	var promos []models.Promotion
	if err := h.db.
		Where("salon_id = ?", middleware.SalonID(c)).
		Order("created_at DESC").
		Find(&promos).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, promos)
}

func (h *PromotionHandler) Create(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	promo := models.Promotion{SalonID: middleware.SalonID(c), Active: true}
	if !h.apply(c, &promo, &req) {
		return
	}

	if err := h.db.Create(&promo).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "promotion_created", "promotion", promo.ID, gin.H{"code": promo.Code})
	c.JSON(http.StatusCreated, promo)
}

func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var promo models.Promotion
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		First(&promo).Error; err != nil {
		respondError(c, err)
		return
	}

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.apply(c, &promo, &req) {
		return
	}

	if err := h.db.Save(&promo).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "promotion_updated", "promotion", promo.ID, gin.H{"code": promo.Code})
	c.JSON(http.StatusOK, promo)
}

func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.Model(&models.Promotion{}).
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

	writeAudit(c, h.audit, "promotion_deactivated", "promotion", id, nil)
	c.Status(http.StatusNoContent)
}

// Validate quotes a code without consuming a use.
func (h *PromotionHandler) Validate(c *gin.Context) {
	var req ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	quote, err := h.validate.Execute(c.Request.Context(), middleware.SalonID(c), req.Code, req.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// apply copies req into promo, answering 400 on inconsistent input.
func (h *PromotionHandler) apply(c *gin.Context, promo *models.Promotion, req *PromotionRequest) bool {
	code := domain.NormalizeCode(req.Code)
	if code == "" {
		httperr.BadRequest(c, "invalid_code", "Código do cupom inválido.")
		return false
	}
	if strings.EqualFold(req.DiscountType, domain.DiscountPercent) && req.DiscountValue > 100 {
		httperr.BadRequest(c, "invalid_discount", "Desconto percentual acima de 100%.")
		return false
	}
	if req.ValidFrom != nil && req.ValidTo != nil && !req.ValidFrom.Before(*req.ValidTo) {
		httperr.BadRequest(c, "invalid_validity", "Início da validade deve ser antes do fim.")
		return false
	}

	if req.ServiceID != nil {
		var count int64
		if err := h.db.Model(&models.Service{}).
			Where("id = ? AND salon_id = ?", *req.ServiceID, promo.SalonID).
			Count(&count).Error; err != nil {
			respondError(c, err)
			return false
		}
		if count == 0 {
			respondError(c, httperr.ErrBusiness(domain.CodeServiceNotFound))
			return false
		}
	}

	promo.Code = code
	promo.Description = req.Description
	promo.DiscountType = strings.ToLower(req.DiscountType)
	promo.DiscountValue = req.DiscountValue
	promo.ServiceID = req.ServiceID
	promo.ValidFrom = req.ValidFrom
	promo.ValidTo = req.ValidTo
	promo.MaxUses = req.MaxUses
	if req.Active != nil {
		promo.Active = *req.Active
	}
	return true
}
