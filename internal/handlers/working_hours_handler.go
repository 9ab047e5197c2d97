package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
)

// WorkingHoursHandler manages the weekly schedule of an employee. Days
// without an entry are days off.
type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	employeeID, ok := h.employeeID(c)
	if !ok {
		return
	}

	var hours []models.EmployeeSchedule
	if err := h.db.
		Where("employee_id = ?", employeeID).
		Order("weekday ASC, start_time ASC").
		Find(&hours).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	employeeID, ok := h.employeeID(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	toCreate := make([]models.EmployeeSchedule, 0, len(req.Days))
	for _, d := range req.Days {
		if !validShift(d.StartTime, d.EndTime) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário inválido (HH:MM, início antes do fim).")
			return
		}
		toCreate = append(toCreate, models.EmployeeSchedule{
			EmployeeID: employeeID,
			Weekday:    d.Weekday,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", employeeID).Delete(&models.EmployeeSchedule{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "working_hours_updated", "employee", employeeID, req)
	c.JSON(http.StatusOK, toCreate)
}

func (h *WorkingHoursHandler) employeeID(c *gin.Context) (uint, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}

	var count int64
	if err := h.db.Model(&models.Employee{}).
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return 0, false
	}
	if count == 0 {
		httperr.NotFound(c, "employee_not_found", "Profissional não encontrada.")
		return 0, false
	}
	return id, true
}

func validShift(start, end string) bool {
	s, err1 := time.Parse(timezone.ClockLayout, start)
	e, err2 := time.Parse(timezone.ClockLayout, end)
	return err1 == nil && err2 == nil && s.Before(e)
}
