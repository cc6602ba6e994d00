package domain

import (
	"strings"
	"time"
)

// Company is the live, publicly rendered careers page owner record.
// Version is bumped by every publish and is never written from a payload.
type Company struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	LogoURL   *string   `gorm:"size:1024" json:"logo_url"`
	BannerURL *string   `gorm:"size:1024" json:"banner_url"`
	Website   *string   `gorm:"size:1024" json:"website"`
	Tagline   *string   `gorm:"size:512" json:"tagline"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Version   uint64    `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentVersion returns the live version, treating an unset counter as 1.
func (c *Company) CurrentVersion() uint64 {
	if c == nil || c.Version == 0 {
		return 1
	}
	return c.Version
}

// Theme defaults applied when a company is created or a draft leaves a color blank.
const (
	DefaultPrimaryColor   = "#1f2937"
	DefaultSecondaryColor = "#4b5563"
	DefaultAccentColor    = "#2563eb"
)

// CompanySettings holds the theme of a company page, one row per company.
type CompanySettings struct {
	ID              uint64    `gorm:"primaryKey" json:"-"`
	CompanyID       uint64    `gorm:"uniqueIndex;not null" json:"company_id"`
	PrimaryColor    string    `gorm:"size:16;not null" json:"primary_color"`
	SecondaryColor  string    `gorm:"size:16;not null" json:"secondary_color"`
	AccentColor     string    `gorm:"size:16;not null" json:"accent_color"`
	CultureVideoURL *string   `gorm:"size:1024" json:"culture_video_url"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultSettings returns the theme a new company starts with.
func DefaultSettings(companyID uint64) CompanySettings {
	return CompanySettings{
		CompanyID:      companyID,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
	}
}

// SectionType enumerates the kinds of content blocks a page can render.
type SectionType string

const (
	SectionAbout    SectionType = "about"
	SectionCulture  SectionType = "culture"
	SectionBenefits SectionType = "benefits"
	SectionValues   SectionType = "values"
	SectionTeam     SectionType = "team"
	SectionCustom   SectionType = "custom"
)

// Valid reports whether t is one of the known section types.
func (t SectionType) Valid() bool {
	switch t {
	case SectionAbout, SectionCulture, SectionBenefits, SectionValues, SectionTeam, SectionCustom:
		return true
	}
	return false
}

// ContentSection is a live content block. Rendering order is DisplayOrder, then ID.
type ContentSection struct {
	ID           uint64      `gorm:"primaryKey" json:"id"`
	CompanyID    uint64      `gorm:"index;not null" json:"company_id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Type         SectionType `gorm:"size:32;not null" json:"type"`
	Content      string      `gorm:"type:text" json:"content"`
	IsVisible    bool        `gorm:"not null" json:"is_visible"`
	DisplayOrder int         `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CompanyFields is the editable subset of Company. Publishing copies exactly
// these fields onto the live row.
type CompanyFields struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Tagline   *string `json:"tagline"`
	Website   *string `json:"website"`
	LogoURL   *string `json:"logo_url"`
	BannerURL *string `json:"banner_url"`
}

// Normalize trims the name and slug in place.
func (f *CompanyFields) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = strings.ToLower(strings.TrimSpace(f.Slug))
}

// FieldsOf extracts the editable fields of a live company.
func FieldsOf(c *Company) CompanyFields {
	return CompanyFields{
		Name:      c.Name,
		Slug:      c.Slug,
		Tagline:   c.Tagline,
		Website:   c.Website,
		LogoURL:   c.LogoURL,
		BannerURL: c.BannerURL,
	}
}

// SettingsFields is the editable subset of CompanySettings.
type SettingsFields struct {
	PrimaryColor    string  `json:"primary_color"`
	SecondaryColor  string  `json:"secondary_color"`
	AccentColor     string  `json:"accent_color"`
	CultureVideoURL *string `json:"culture_video_url"`
}

// WithDefaults fills blank colors with the default theme.
func (f SettingsFields) WithDefaults() SettingsFields {
	if f.PrimaryColor == "" {
		f.PrimaryColor = DefaultPrimaryColor
	}
	if f.SecondaryColor == "" {
		f.SecondaryColor = DefaultSecondaryColor
	}
	if f.AccentColor == "" {
		f.AccentColor = DefaultAccentColor
	}
	return f
}

// SettingsFieldsOf extracts the editable fields of live settings.
func SettingsFieldsOf(s *CompanySettings) SettingsFields {
	return SettingsFields{
		PrimaryColor:    s.PrimaryColor,
		SecondaryColor:  s.SecondaryColor,
		AccentColor:     s.AccentColor,
		CultureVideoURL: s.CultureVideoURL,
	}
}

// SectionFields is a content section as carried by a draft. Any display order
// supplied by a client is discarded: array position is authoritative.
type SectionFields struct {
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Content   string      `json:"content"`
	IsVisible bool        `json:"is_visible"`
}

// SectionFieldsOf extracts the draft shape of live sections, preserving order.
func SectionFieldsOf(sections []ContentSection) []SectionFields {
	out := make([]SectionFields, 0, len(sections))
	for _, s := range sections {
		out = append(out, SectionFields{
			Title:     s.Title,
			Type:      s.Type,
			Content:   s.Content,
			IsVisible: s.IsVisible,
		})
	}
	return out
}
