package publish

import (
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type PublishRequest struct {
	CompanyID uint64 `json:"company_id" binding:"required"`
	Force     bool   `json:"force"`
}

func (h *Handler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	result, err := h.service.Publish(c.Request.Context(), userID, req.CompanyID, req.Force)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Published successfully",
		"published_at": result.PublishedAt,
		"version":      result.Version,
		"stage":        result.Stage.String(),
	})
}
