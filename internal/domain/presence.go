package domain

import "time"

// ActiveEditor records the last heartbeat of a user editing a company page.
type ActiveEditor struct {
	CompanyID     uint64    `gorm:"primaryKey;autoIncrement:false" json:"company_id"`
	UserID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	UserEmail     string    `gorm:"size:255" json:"user_email"`
	LastHeartbeat time.Time `gorm:"index;not null" json:"last_heartbeat"`
}
