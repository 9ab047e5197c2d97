package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List answers GET /me/audit-logs?action=&entity=&entity_id=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	salonID := middleware.SalonID(c)
	page, limit, offset := httpresp.Pagination(c, 50, 200)

	entityID, ok := queryUint(c, "entity_id")
	if !ok {
		return
	}

	// --------------------------------------------------
	// Query base (sempre protegido pelo salão)
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("salon_id = ?", salonID)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if entityID != nil {
		q = q.Where("entity_id = ?", *entityID)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(timezone.DateLayout, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(timezone.DateLayout, toStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	// --------------------------------------------------
	// Total + listagem
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
