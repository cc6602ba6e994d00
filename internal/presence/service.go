package presence

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/logger"
	"careers-page-builder/internal/metrics"
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultWindow is how long a heartbeat keeps an editor listed
const DefaultWindow = 120 * time.Second

type Service interface {
	Heartbeat(ctx context.Context, callerID uint64, callerEmail string, companyID uint64) ([]domain.ActiveEditor, error)
	Leave(ctx context.Context, callerID, companyID uint64) error
}

type DefaultService struct {
	store  Store
	guard  company.Authorizer
	window time.Duration
	now    func() time.Time
}

type Option func(*DefaultService)

func WithClock(now func() time.Time) Option {
	return func(s *DefaultService) {
		s.now = now
	}
}

func WithWindow(window time.Duration) Option {
	return func(s *DefaultService) {
		if window > 0 {
			s.window = window
		}
	}
}

func NewService(store Store, guard company.Authorizer, opts ...Option) Service {
	s := &DefaultService{
		store:  store,
		guard:  guard,
		window: DefaultWindow,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Heartbeat renews the caller's presence and returns the other editors seen
// within the window. A failed renewal is logged and does not fail the call.
func (s *DefaultService) Heartbeat(ctx context.Context, callerID uint64, callerEmail string, companyID uint64) ([]domain.ActiveEditor, error) {
	if _, err := s.guard.Authorize(ctx, callerID, companyID); err != nil {
		return nil, err
	}

	now := s.now()
	err := s.store.Touch(ctx, domain.ActiveEditor{
		CompanyID:     companyID,
		UserID:        callerID,
		UserEmail:     callerEmail,
		LastHeartbeat: now,
	})
	if err != nil {
		logger.FromContext(ctx).Warn("heartbeat not recorded",
			zap.Uint64("company_id", companyID),
			zap.Uint64("user_id", callerID),
			zap.Error(err),
		)
	}
	metrics.Heartbeats.Inc()

	editors, err := s.store.ListActive(ctx, companyID, callerID, now.Add(-s.window))
	if err != nil {
		return nil, errors.Storage("list active editors", err)
	}
	if editors == nil {
		editors = []domain.ActiveEditor{}
	}
	return editors, nil
}

// Leave drops the caller's presence. Leaving twice is fine.
func (s *DefaultService) Leave(ctx context.Context, callerID, companyID uint64) error {
	if _, err := s.guard.Authorize(ctx, callerID, companyID); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, companyID, callerID); err != nil {
		logger.FromContext(ctx).Warn("presence not removed",
			zap.Uint64("company_id", companyID),
			zap.Uint64("user_id", callerID),
			zap.Error(err),
		)
	}
	return nil
}
