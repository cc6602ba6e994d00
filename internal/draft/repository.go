package draft

import (
	"careers-page-builder/internal/domain"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository keeps at most one draft per company
type Repository interface {
	FindByCompanyID(ctx context.Context, companyID uint64) (*domain.Draft, error)
	Upsert(ctx context.Context, draft *domain.Draft) error
	// MarkPublished stamps last_published_at. The draft base is left as saved.
	MarkPublished(ctx context.Context, companyID uint64, at time.Time) error
}

type DraftRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &DraftRepositoryImpl{db: db}
}

func (r *DraftRepositoryImpl) FindByCompanyID(ctx context.Context, companyID uint64) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Upsert writes the draft keyed by company_id. Last write wins.
func (r *DraftRepositoryImpl) Upsert(ctx context.Context, draft *domain.Draft) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_data",
			"settings_data",
			"sections_data",
			"base_version",
			"version",
			"updated_by",
			"updated_at",
		}),
	}).Create(draft).Error
}

func (r *DraftRepositoryImpl) MarkPublished(ctx context.Context, companyID uint64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Draft{}).
		Where("company_id = ?", companyID).
		UpdateColumn("last_published_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
