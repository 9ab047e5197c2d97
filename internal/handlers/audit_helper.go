package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
)

// writeAudit records a catalog change made directly by a handler.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		SalonID:  middleware.SalonID(c),
		UserID:   middleware.UserID(c),
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	})
}
