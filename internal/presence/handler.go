package presence

import (
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  Service
	interval time.Duration
}

// NewHandler takes the polling interval advertised to editors
func NewHandler(service Service, interval time.Duration) *Handler {
	return &Handler{service: service, interval: interval}
}

type HeartbeatRequest struct {
	CompanyID uint64 `json:"company_id" binding:"required"`
}

func (h *Handler) Heartbeat(c *gin.Context) {
	var req HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, email := middleware.CurrentUser(c)

	editors, err := h.service.Heartbeat(c.Request.Context(), userID, email, req.CompanyID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_editors":             editors,
		"heartbeat_interval_seconds": int(h.interval.Seconds()),
	})
}

func (h *Handler) Leave(c *gin.Context) {
	companyID, ok := utils.GetUintQuery(c, "company_id")
	if !ok {
		c.Error(errors.Validation(map[string]string{"company_id": "is required"}))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	if err := h.service.Leave(c.Request.Context(), userID, companyID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left editor"})
}
