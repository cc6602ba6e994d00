package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Draft is the single pending-edit snapshot of a company page.
//
// BaseVersion is the live Company.Version the snapshot was computed against;
// Version counts saves of the draft itself.
type Draft struct {
	CompanyID       uint64         `gorm:"primaryKey;autoIncrement:false"`
	CompanyData     datatypes.JSON `gorm:"not null"`
	SettingsData    datatypes.JSON `gorm:"not null"`
	SectionsData    datatypes.JSON `gorm:"not null"`
	BaseVersion     uint64         `gorm:"not null;default:1"`
	Version         uint64         `gorm:"not null;default:0"`
	UpdatedBy       uint64
	LastPublishedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName keeps the table name stable across drivers
func (Draft) TableName() string {
	return "company_drafts"
}

// HasUnpublishedChanges reports whether the draft was saved after its last publish.
func (d *Draft) HasUnpublishedChanges() bool {
	if d.LastPublishedAt == nil {
		return true
	}
	return d.UpdatedAt.After(*d.LastPublishedAt)
}
