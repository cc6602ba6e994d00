package company

import (
	"careers-page-builder/internal/domain"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is the live page store: companies, their theme and their sections.
type Repository interface {
	Create(ctx context.Context, company *domain.Company, settings *domain.CompanySettings) error
	FindByID(ctx context.Context, id uint64) (*domain.Company, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Company, error)
	ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Company, int64, error)
	FindSettings(ctx context.Context, companyID uint64) (*domain.CompanySettings, error)
	ListSections(ctx context.Context, companyID uint64, visibleOnly bool) ([]domain.ContentSection, error)
}

type CompanyRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &CompanyRepositoryImpl{db: db}
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	}
	return err
}

// Create inserts the company and its settings row together
func (r *CompanyRepositoryImpl) Create(ctx context.Context, company *domain.Company, settings *domain.CompanySettings) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if company.Version == 0 {
			company.Version = 1
		}
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		settings.CompanyID = company.ID
		return tx.Create(settings).Error
	})
	return translate(err)
}

func (r *CompanyRepositoryImpl) FindByID(ctx context.Context, id uint64) (*domain.Company, error) {
	var company domain.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	var company domain.Company
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error; err != nil {
		return nil, translate(err)
	}
	return &company, nil
}

func (r *CompanyRepositoryImpl) ListByUser(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Company, int64, error) {
	var companies []domain.Company
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Company{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := db.Where("user_id = ?", userID).
		Order("id").
		Offset(offset).
		Limit(pageSize).
		Find(&companies).Error
	return companies, total, err
}

func (r *CompanyRepositoryImpl) FindSettings(ctx context.Context, companyID uint64) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&settings).Error; err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

// ListSections returns sections in render order: display_order, then insertion order
func (r *CompanyRepositoryImpl) ListSections(ctx context.Context, companyID uint64, visibleOnly bool) ([]domain.ContentSection, error) {
	var sections []domain.ContentSection
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	err := query.Order("display_order").Order("id").Find(&sections).Error
	return sections, err
}
