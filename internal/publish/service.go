package publish

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/draft"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/logger"
	"careers-page-builder/internal/metrics"
	"careers-page-builder/internal/utils"
	"context"
	defError "errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	Publish(ctx context.Context, callerID, companyID uint64, force bool) (*Result, error)
}

type DefaultService struct {
	drafts    draft.Repository
	companies company.Repository
	guard     company.Authorizer
	applier   *Applier
	notifier  Notifier
	now       func() time.Time
}

type Option func(*DefaultService)

func WithClock(now func() time.Time) Option {
	return func(s *DefaultService) {
		s.now = now
	}
}

// WithNotifier sets who hears about finished publishes
func WithNotifier(notifier Notifier) Option {
	return func(s *DefaultService) {
		s.notifier = notifier
	}
}

func NewService(
	drafts draft.Repository,
	companies company.Repository,
	guard company.Authorizer,
	applier *Applier,
	opts ...Option,
) Service {
	s := &DefaultService{
		drafts:    drafts,
		companies: companies,
		guard:     guard,
		applier:   applier,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DefaultService) Publish(ctx context.Context, callerID, companyID uint64, force bool) (*Result, error) {
	live, err := s.guard.Authorize(ctx, callerID, companyID)
	if err != nil {
		return nil, err
	}

	stored, err := s.drafts.FindByCompanyID(ctx, companyID)
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, errors.NotFound("No draft to publish", err)
		}
		return nil, errors.Storage("find draft", err)
	}

	snap, err := draft.Decode(stored)
	if err != nil {
		return nil, errors.Storage("decode draft", err)
	}

	if err := s.validate(ctx, live, snap); err != nil {
		return nil, err
	}

	base := stored.BaseVersion
	if base == 0 {
		base = 1
	}
	if !force && draft.DetectConflict(live.CurrentVersion(), base) {
		metrics.DraftConflicts.WithLabelValues("publish").Inc()
		return nil, draft.Conflicted{Expected: base, Actual: live.CurrentVersion()}.Err()
	}

	log := logger.FromContext(ctx).With(zap.Uint64("company_id", companyID))

	result, err := s.applier.Apply(ctx, companyID, snap, s.now())
	if err != nil {
		if IsDuplicateSlug(err) {
			metrics.Publishes.WithLabelValues(string(StepCompany)).Inc()
			return nil, errors.Validation(map[string]string{"company.slug": "is already taken"})
		}
		return nil, s.stageFailure(log, err)
	}
	metrics.Publishes.WithLabelValues(result.Stage.String()).Inc()

	if err := s.drafts.MarkPublished(ctx, companyID, result.PublishedAt); err != nil {
		log.Warn("could not stamp draft as published", zap.Error(err))
	}

	log.Info("page published",
		zap.Uint64("version", result.Version),
		zap.String("slug", snap.Company.Slug),
		zap.Bool("force", force),
	)

	if s.notifier != nil {
		s.notifier.PagePublished(ctx, Event{
			CompanyID:    companyID,
			Slug:         snap.Company.Slug,
			PreviousSlug: live.Slug,
			Version:      result.Version,
		})
	}
	return result, nil
}

// validate rejects a draft that cannot go live. A blank slug keeps the live one.
func (s *DefaultService) validate(ctx context.Context, live *domain.Company, snap *draft.Snapshot) error {
	snap.Company.Normalize()
	if snap.Company.Slug == "" {
		snap.Company.Slug = live.Slug
	}

	fields := map[string]string{}
	if snap.Company.Name == "" {
		fields["company.name"] = "is required"
	}
	if !utils.SlugPattern.MatchString(snap.Company.Slug) {
		fields["company.slug"] = "must contain only lowercase letters, digits and hyphens"
	}
	for i := range snap.Sections {
		if snap.Sections[i].Type == "" {
			snap.Sections[i].Type = domain.SectionCustom
		}
		if !snap.Sections[i].Type.Valid() {
			fields[fmt.Sprintf("sections.%d.type", i)] = "must be one of: about culture benefits values team custom"
		}
	}
	if len(fields) > 0 {
		return errors.Validation(fields)
	}

	if snap.Company.Slug != live.Slug {
		other, err := s.companies.FindBySlug(ctx, snap.Company.Slug)
		switch {
		case err == nil && other.ID != live.ID:
			return errors.Validation(map[string]string{"company.slug": "is already taken"})
		case err != nil && !defError.Is(err, domain.ErrNotFound):
			return errors.Storage("find company by slug", err)
		}
	}
	return nil
}

func (s *DefaultService) stageFailure(log *zap.Logger, err error) error {
	var stageErr *StageError
	if !defError.As(err, &stageErr) {
		return errors.Storage("publish", err)
	}

	metrics.Publishes.WithLabelValues(string(stageErr.Step)).Inc()
	log.Error("publish rolled back",
		zap.String("failed_stage", string(stageErr.Step)),
		zap.String("reached", stageErr.Reached.String()),
		zap.Error(stageErr.Err),
	)

	return errors.New(http.StatusInternalServerError, "Publish failed", stageErr).WithDetails(FailureDetails{
		FailedStage:     string(stageErr.Step),
		CompletedStages: stageErr.Completed(),
		RolledBack:      true,
	})
}

// FailureDetails tells the client which publish step failed. Completed
// stages were rolled back with the rest of the transaction.
type FailureDetails struct {
	FailedStage     string   `json:"failed_stage"`
	CompletedStages []string `json:"completed_stages"`
	RolledBack      bool     `json:"rolled_back"`
}
