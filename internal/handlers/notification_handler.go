package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/notification"
)

type NotificationHandler struct {
	outbox *notification.Worker
}

func NewNotificationHandler(outbox *notification.Worker) *NotificationHandler {
	return &NotificationHandler{outbox: outbox}
}

// List answers GET /me/notifications?status=&limit=
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.outbox.List(c.Request.Context(), middleware.SalonID(c), c.Query("status"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}
