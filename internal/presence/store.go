package presence

import (
	"careers-page-builder/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store records editor heartbeats. Expired rows are never swept: readers
// filter by the since argument.
type Store interface {
	Touch(ctx context.Context, editor domain.ActiveEditor) error
	ListActive(ctx context.Context, companyID, excludeUserID uint64, since time.Time) ([]domain.ActiveEditor, error)
	Remove(ctx context.Context, companyID, userID uint64) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Touch(ctx context.Context, editor domain.ActiveEditor) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_email", "last_heartbeat"}),
	}).Create(&editor).Error
}

func (s *GormStore) ListActive(ctx context.Context, companyID, excludeUserID uint64, since time.Time) ([]domain.ActiveEditor, error) {
	var editors []domain.ActiveEditor
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND user_id <> ? AND last_heartbeat >= ?", companyID, excludeUserID, since).
		Order("last_heartbeat DESC").
		Find(&editors).Error
	return editors, err
}

// Remove is idempotent: deleting an absent row is not an error
func (s *GormStore) Remove(ctx context.Context, companyID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&domain.ActiveEditor{}).Error
}
