package company

import (
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateCompanyRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Slug string `json:"slug" binding:"required,max=255,slug"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateCompanyRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	company, err := h.service.CreateCompany(c.Request.Context(), userID, form.Name, form.Slug)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)

	page, pageSize := utils.GetPaginationParams(c)
	companies, meta, err := h.service.ListMine(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": companies, "meta": meta})
}

// ShowLive returns the live page of one of the caller's companies
func (h *Handler) ShowLive(c *gin.Context) {
	companyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid company id", err))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	page, err := h.service.GetLivePage(c.Request.Context(), userID, companyID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) ShowPublic(c *gin.Context) {
	page, err := h.service.GetPublicPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}
