package publish

import (
	"careers-page-builder/internal/domain"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Writer applies one publish step to the live tables. Every method runs
// inside the transaction handed out by Repository.WithinTransaction.
type Writer interface {
	// ApplyCompany copies the editable fields, bumps the version and returns it
	ApplyCompany(ctx context.Context, companyID uint64, fields domain.CompanyFields, now time.Time) (uint64, error)
	UpsertSettings(ctx context.Context, companyID uint64, fields domain.SettingsFields, now time.Time) error
	// ReplaceSections deletes every live section and inserts sections in array order
	ReplaceSections(ctx context.Context, companyID uint64, sections []domain.SectionFields, now time.Time) error
}

type Repository interface {
	// WithinTransaction commits when fn returns nil and rolls back otherwise
	WithinTransaction(ctx context.Context, fn func(w Writer) error) error
}

type PublishRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &PublishRepositoryImpl{db: db}
}

func (r *PublishRepositoryImpl) WithinTransaction(ctx context.Context, fn func(w Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txWriter{tx: tx})
	})
}

type txWriter struct {
	tx *gorm.DB
}

func (w *txWriter) ApplyCompany(ctx context.Context, companyID uint64, fields domain.CompanyFields, now time.Time) (uint64, error) {
	res := w.tx.WithContext(ctx).Model(&domain.Company{}).
		Where("id = ?", companyID).
		Updates(map[string]any{
			"name":       fields.Name,
			"slug":       fields.Slug,
			"tagline":    fields.Tagline,
			"website":    fields.Website,
			"logo_url":   fields.LogoURL,
			"banner_url": fields.BannerURL,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return 0, domain.ErrDuplicate
		}
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}

	var company domain.Company
	if err := w.tx.WithContext(ctx).Select("version").First(&company, companyID).Error; err != nil {
		return 0, err
	}
	return company.Version, nil
}

func (w *txWriter) UpsertSettings(ctx context.Context, companyID uint64, fields domain.SettingsFields, now time.Time) error {
	fields = fields.WithDefaults()
	settings := domain.CompanySettings{
		CompanyID:       companyID,
		PrimaryColor:    fields.PrimaryColor,
		SecondaryColor:  fields.SecondaryColor,
		AccentColor:     fields.AccentColor,
		CultureVideoURL: fields.CultureVideoURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return w.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"primary_color",
			"secondary_color",
			"accent_color",
			"culture_video_url",
			"updated_at",
		}),
	}).Create(&settings).Error
}

func (w *txWriter) ReplaceSections(ctx context.Context, companyID uint64, sections []domain.SectionFields, now time.Time) error {
	db := w.tx.WithContext(ctx)
	if err := db.Where("company_id = ?", companyID).Delete(&domain.ContentSection{}).Error; err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}
	rows := SectionRows(companyID, sections, now)
	return db.Create(&rows).Error
}

// SectionRows turns draft sections into live rows; array position becomes display_order
func SectionRows(companyID uint64, sections []domain.SectionFields, now time.Time) []domain.ContentSection {
	rows := make([]domain.ContentSection, 0, len(sections))
	for i, s := range sections {
		rows = append(rows, domain.ContentSection{
			CompanyID:    companyID,
			Title:        s.Title,
			Type:         s.Type,
			Content:      s.Content,
			IsVisible:    s.IsVisible,
			DisplayOrder: i,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return rows
}
