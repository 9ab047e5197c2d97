package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/nail-scheduler/internal/domain/timeslot"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/timeslot"
)

type TimeSlotHandler struct {
	slots *timeslot.Service
}

func NewTimeSlotHandler(slots *timeslot.Service) *TimeSlotHandler {
	return &TimeSlotHandler{slots: slots}
}

type GenerateSlotsRequest struct {
	ServiceID  uint   `json:"service_id" binding:"required"`
	EmployeeID *uint  `json:"employee_id"`
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
}

type ReconcileSlotsRequest struct {
	ServiceID  uint   `json:"service_id" binding:"required"`
	EmployeeID *uint  `json:"employee_id"`
	Date       string `json:"date" binding:"required"`
}

func (h *TimeSlotHandler) Generate(c *gin.Context) {
	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.slots.GenerateRange(c.Request.Context(), timeslot.GenerateInput{
		SalonID:    middleware.SalonID(c),
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		From:       req.From,
		To:         req.To,
		ActorID:    middleware.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *TimeSlotHandler) Reconcile(c *gin.Context) {
	var req ReconcileSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	changed, err := h.slots.Reconcile(c.Request.Context(), timeslot.ReconcileInput{
		SalonID:    middleware.SalonID(c),
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// List answers GET /me/time-slots?date=&service_id=&employee_id=&unassigned=&status=
func (h *TimeSlotHandler) List(c *gin.Context) {
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}
	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return
	}

	f := domain.ListFilter{
		SalonID:    middleware.SalonID(c),
		EmployeeID: employeeID,
		Unassigned: c.Query("unassigned") == "true",
		Date:       c.Query("date"),
		Status:     c.Query("status"),
	}
	if serviceID != nil {
		f.ServiceID = *serviceID
	}

	slots, err := h.slots.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, slots)
}

type slotAction func(ctx context.Context, salonID, slotID uint, actorID *uint) (*models.TimeSlot, error)

func (h *TimeSlotHandler) run(c *gin.Context, action slotAction) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	slot, err := action(c.Request.Context(), middleware.SalonID(c), id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *TimeSlotHandler) Block(c *gin.Context)   { h.run(c, h.slots.Block) }
func (h *TimeSlotHandler) Unblock(c *gin.Context) { h.run(c, h.slots.Unblock) }
func (h *TimeSlotHandler) Cancel(c *gin.Context)  { h.run(c, h.slots.Cancel) }
