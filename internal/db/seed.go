package db

import (
	"careers-page-builder/internal/domain"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo data shared by the development seed and the static fallback store
const (
	DemoUserEmail    = "recruiter@acme.test"
	DemoUserPassword = "password123"
	DemoCompanySlug  = "acme"
)

// DemoUser returns the demo recruiter with a hashed password
func DemoUser() (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Name:         "Demo Recruiter",
		Email:        DemoUserEmail,
		PasswordHash: string(hash),
		TokenVersion: 1,
		IsActive:     true,
	}, nil
}

// DemoCompany returns the demo page owned by ownerID
func DemoCompany(ownerID uint64) *domain.Company {
	tagline := "Build the future of logistics with us"
	website := "https://acme.test"
	return &domain.Company{
		Name:    "Acme Corp",
		Slug:    DemoCompanySlug,
		Tagline: &tagline,
		Website: &website,
		UserID:  ownerID,
		Version: 1,
	}
}

// DemoSections returns the starter content of the demo page
func DemoSections(companyID uint64) []domain.ContentSection {
	return []domain.ContentSection{
		{CompanyID: companyID, Title: "About Acme", Type: domain.SectionAbout, Content: "<p>We move things.</p>", IsVisible: true, DisplayOrder: 0},
		{CompanyID: companyID, Title: "Our Culture", Type: domain.SectionCulture, Content: "<p>Curious and kind.</p>", IsVisible: true, DisplayOrder: 1},
		{CompanyID: companyID, Title: "Benefits", Type: domain.SectionBenefits, Content: "<ul><li>Remote first</li></ul>", IsVisible: true, DisplayOrder: 2},
	}
}

// SeedData inserts the demo recruiter and page when they do not exist yet
func SeedData(db *gorm.DB) error {
	var existing domain.User
	err := db.Where("email = ?", DemoUserEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user, err := DemoUser()
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		company := DemoCompany(user.ID)
		if err := tx.Create(company).Error; err != nil {
			return fmt.Errorf("seed company: %w", err)
		}
		settings := domain.DefaultSettings(company.ID)
		if err := tx.Create(&settings).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		sections := DemoSections(company.ID)
		if err := tx.Create(&sections).Error; err != nil {
			return fmt.Errorf("seed sections: %w", err)
		}
		return nil
	})
}
