// Package testutil holds fixtures shared by repository tests.
package testutil

import (
	appdb "careers-page-builder/internal/db"
	"careers-page-builder/internal/domain"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory sqlite database
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := appdb.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = appdb.CloseDb(db) })

	if err := appdb.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SeedCompany inserts a user and a company owned by that user
func SeedCompany(t *testing.T, db *gorm.DB, email, slug string) (*domain.User, *domain.Company) {
	t.Helper()

	user := &domain.User{Name: email, Email: email, PasswordHash: "x", TokenVersion: 1, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	company := &domain.Company{Name: slug, Slug: slug, UserID: user.ID, Version: 1}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("Failed to seed company: %v", err)
	}
	settings := domain.DefaultSettings(company.ID)
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
	return user, company
}

// SeedUser inserts a user with no company
func SeedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()

	user := &domain.User{Name: email, Email: email, PasswordHash: "x", TokenVersion: 1, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}
