package draft

import (
	"bytes"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/middleware"
	"careers-page-builder/internal/utils"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CompanyPayload struct {
	ID        uint64  `json:"id" binding:"required"`
	Name      string  `json:"name" binding:"required,max=255"`
	Slug      string  `json:"slug" binding:"max=255"`
	Tagline   *string `json:"tagline" binding:"omitempty,max=512"`
	Website   *string `json:"website" binding:"omitempty,max=1024"`
	LogoURL   *string `json:"logo_url" binding:"omitempty,max=1024"`
	BannerURL *string `json:"banner_url" binding:"omitempty,max=1024"`
}

type SettingsPayload struct {
	PrimaryColor    string  `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor  string  `json:"secondary_color" binding:"omitempty,hexcolor"`
	AccentColor     string  `json:"accent_color" binding:"omitempty,hexcolor"`
	CultureVideoURL *string `json:"culture_video_url" binding:"omitempty,max=1024"`
}

// SectionPayload is one element of the sections array. display_order is
// accepted but ignored: array position decides the order.
type SectionPayload struct {
	Title        string             `json:"title"`
	Type         domain.SectionType `json:"type"`
	Content      string             `json:"content"`
	IsVisible    *bool              `json:"is_visible"`
	DisplayOrder *int               `json:"display_order"`
}

type SaveDraftRequest struct {
	Company     CompanyPayload   `json:"company"`
	Settings    *SettingsPayload `json:"settings"`
	Sections    json.RawMessage  `json:"sections"`
	BaseVersion *uint64          `json:"base_version" binding:"omitempty,min=1"`
	Force       bool             `json:"force"`
}

func (r *SaveDraftRequest) toInput(callerID uint64) (SaveInput, error) {
	sections, err := decodeSections(r.Sections)
	if err != nil {
		return SaveInput{}, err
	}

	in := SaveInput{
		CallerID:  callerID,
		CompanyID: r.Company.ID,
		Company: domain.CompanyFields{
			Name:      r.Company.Name,
			Slug:      r.Company.Slug,
			Tagline:   r.Company.Tagline,
			Website:   r.Company.Website,
			LogoURL:   r.Company.LogoURL,
			BannerURL: r.Company.BannerURL,
		},
		Sections:    sections,
		BaseVersion: r.BaseVersion,
		Force:       r.Force,
	}
	if r.Settings != nil {
		in.Settings = &domain.SettingsFields{
			PrimaryColor:    r.Settings.PrimaryColor,
			SecondaryColor:  r.Settings.SecondaryColor,
			AccentColor:     r.Settings.AccentColor,
			CultureVideoURL: r.Settings.CultureVideoURL,
		}
	}
	return in, nil
}

// decodeSections returns nil when the field was omitted or null
func decodeSections(raw json.RawMessage) ([]domain.SectionFields, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, errors.Validation(map[string]string{"sections": "must be an array"})
	}

	var payload []SectionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Validation(map[string]string{"sections": "must be an array of sections"})
	}

	fields := map[string]string{}
	sections := make([]domain.SectionFields, 0, len(payload))
	for i, p := range payload {
		if p.Type != "" && !p.Type.Valid() {
			fields[fmt.Sprintf("sections.%d.type", i)] = "must be one of: about culture benefits values team custom"
		}
		visible := true
		if p.IsVisible != nil {
			visible = *p.IsVisible
		}
		sections = append(sections, domain.SectionFields{
			Title:     p.Title,
			Type:      p.Type,
			Content:   p.Content,
			IsVisible: visible,
		})
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields)
	}
	return sections, nil
}

func (h *Handler) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	in, err := req.toInput(userID)
	if err != nil {
		c.Error(err)
		return
	}

	outcome, err := h.service.SaveDraft(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	switch o := outcome.(type) {
	case Conflicted:
		c.Error(o.Err())
	case Clean:
		c.JSON(http.StatusOK, gin.H{
			"message":      "Draft saved",
			"saved_at":     o.Draft.UpdatedAt,
			"version":      o.Draft.Version,
			"base_version": o.Draft.BaseVersion,
		})
	default:
		c.Error(errors.Internal(fmt.Errorf("unexpected save outcome %T", outcome)))
	}
}

func (h *Handler) GetDraft(c *gin.Context) {
	companyID, ok := utils.GetUintQuery(c, "company_id")
	if !ok {
		c.Error(errors.Validation(map[string]string{"company_id": "is required"}))
		return
	}

	userID, _ := middleware.CurrentUser(c)

	view, err := h.service.GetDraft(c.Request.Context(), userID, companyID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": view})
}
