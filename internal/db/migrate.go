package db

import (
	"careers-page-builder/internal/domain"

	"gorm.io/gorm"
)

// Models lists every table the service owns
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Company{},
		&domain.CompanySettings{},
		&domain.ContentSection{},
		&domain.Draft{},
		&domain.ActiveEditor{},
	}
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
