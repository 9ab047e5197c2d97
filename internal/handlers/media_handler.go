package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/imaging"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/media"
)

type MediaHandler struct {
	upload *media.UploadImage
}

func NewMediaHandler(upload *media.UploadImage) *MediaHandler {
	return &MediaHandler{upload: upload}
}

// Upload returns the handler for POST /me/{entity}/:id/image with a
// multipart "image" field.
func (h *MediaHandler) Upload(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imaging.MaxUpload+1<<20)

		file, _, err := c.Request.FormFile("image")
		if err != nil {
			httperr.BadRequest(c, "missing_image", "Envie a imagem no campo \"image\".")
			return
		}
		defer file.Close()

		url, err := h.upload.Execute(
			c.Request.Context(),
			middleware.SalonID(c),
			middleware.UserID(c),
			entity,
			id,
			file,
		)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}
