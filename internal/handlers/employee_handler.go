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

type EmployeeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewEmployeeHandler(db *gorm.DB, audit *audit.Dispatcher) *EmployeeHandler {
	return &EmployeeHandler{db: db, audit: audit}
}

type CreateEmployeeRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	Specialties string `json:"specialties"`
	ServiceIDs  []uint `json:"service_ids"`
}

type UpdateEmployeeRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Specialties *string `json:"specialties,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type EmployeeServicesRequest struct {
	ServiceIDs []uint `json:"service_ids"`
}

// listEmployees is shared with the public catalog.
func listEmployees(db *gorm.DB, salonID uint, onlyActive bool) ([]models.Employee, error) {
	q := db.Preload("Services").Preload("Schedules").Where("salon_id = ?", salonID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var employees []models.Employee
	err := q.Order("name ASC").Find(&employees).Error
	return employees, err
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := listEmployees(h.db, middleware.SalonID(c), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, employees)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	salonID := middleware.SalonID(c)

	services, ok := h.salonServices(c, salonID, req.ServiceIDs)
	if !ok {
		return
	}

	emp := models.Employee{
		SalonID:     salonID,
		Name:        strings.TrimSpace(req.Name),
		Phone:       req.Phone,
		Specialties: req.Specialties,
		Active:      true,
		Services:    services,
	}

	if err := h.db.Create(&emp).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "employee_created", "employee", emp.ID, nil)
	c.JSON(http.StatusCreated, emp)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	emp, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Specialties != nil {
		emp.Specialties = *req.Specialties
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}

	if err := h.db.Omit("Services", "Schedules").Save(emp).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "employee_updated", "employee", emp.ID, req)
	c.JSON(http.StatusOK, emp)
}

// Delete deactivates the employee; existing appointments stay linked.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	emp, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Model(emp).Update("active", false).Error; err != nil {
		respondError(c, err)
		return
	}

	writeAudit(c, h.audit, "employee_deactivated", "employee", emp.ID, nil)
	c.Status(http.StatusNoContent)
}

// SetServices replaces the services the employee performs.
func (h *EmployeeHandler) SetServices(c *gin.Context) {
	emp, ok := h.load(c)
	if !ok {
		return
	}

	var req EmployeeServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	services, ok := h.salonServices(c, emp.SalonID, req.ServiceIDs)
	if !ok {
		return
	}

	if err := h.db.Model(emp).Association("Services").Replace(services); err != nil {
		respondError(c, err)
		return
	}
	emp.Services = services

	writeAudit(c, h.audit, "employee_services_updated", "employee", emp.ID, req)
	c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) load(c *gin.Context) (*models.Employee, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var emp models.Employee
	if err := h.db.
		Preload("Services").
		Preload("Schedules").
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		First(&emp).Error; err != nil {
		respondError(c, err)
		return nil, false
	}
	return &emp, true
}

// salonServices loads ids, rejecting any that belong to another salon.
func (h *EmployeeHandler) salonServices(c *gin.Context, salonID uint, ids []uint) ([]models.Service, bool) {
	if len(ids) == 0 {
		return []models.Service{}, true
	}

	var services []models.Service
	if err := h.db.Where("salon_id = ? AND id IN ?", salonID, ids).Find(&services).Error; err != nil {
		respondError(c, err)
		return nil, false
	}

	unique := map[uint]bool{}
	for _, id := range ids {
		unique[id] = true
	}
	if len(services) != len(unique) {
		httperr.BadRequest(c, "service_not_found", "Um ou mais serviços não pertencem ao salão.")
		return nil, false
	}
	return services, true
}
