package draft

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/logger"
	"careers-page-builder/internal/metrics"
	"context"
	defError "errors"
	"time"

	"go.uber.org/zap"
)

// SaveInput is a draft save after request decoding. A nil Settings or
// Sections means the client did not send it.
type SaveInput struct {
	CallerID    uint64
	CompanyID   uint64
	Company     domain.CompanyFields
	Settings    *domain.SettingsFields
	Sections    []domain.SectionFields
	BaseVersion *uint64
	Force       bool
}

// View is a draft as returned to the editor, with the live version it is compared against
type View struct {
	CompanyID             uint64                 `json:"company_id"`
	Company               domain.CompanyFields   `json:"company_data"`
	Settings              domain.SettingsFields  `json:"settings_data"`
	Sections              []domain.SectionFields `json:"sections_data"`
	BaseVersion           uint64                 `json:"base_version"`
	Version               uint64                 `json:"version"`
	LiveVersion           uint64                 `json:"live_version"`
	HasConflict           bool                   `json:"has_conflict"`
	HasUnpublishedChanges bool                   `json:"has_unpublished_changes"`
	LastPublishedAt       *time.Time             `json:"last_published_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

type Service interface {
	SaveDraft(ctx context.Context, in SaveInput) (Outcome, error)
	GetDraft(ctx context.Context, callerID, companyID uint64) (*View, error)
}

type DefaultService struct {
	repository Repository
	companies  company.Repository
	guard      company.Authorizer
	now        func() time.Time
}

type Option func(*DefaultService)

// WithClock replaces the wall clock used to stamp drafts
func WithClock(now func() time.Time) Option {
	return func(s *DefaultService) {
		s.now = now
	}
}

func NewService(repository Repository, companies company.Repository, guard company.Authorizer, opts ...Option) Service {
	s := &DefaultService{
		repository: repository,
		companies:  companies,
		guard:      guard,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DefaultService) SaveDraft(ctx context.Context, in SaveInput) (Outcome, error) {
	in.Company.Normalize()
	if in.Company.Name == "" {
		return nil, errors.Validation(map[string]string{"company.name": "is required"})
	}

	live, err := s.guard.Authorize(ctx, in.CallerID, in.CompanyID)
	if err != nil {
		return nil, err
	}
	liveVersion := live.CurrentVersion()

	existing, err := s.repository.FindByCompanyID(ctx, in.CompanyID)
	if err != nil && !defError.Is(err, domain.ErrNotFound) {
		return nil, errors.Storage("find draft", err)
	}
	if err != nil {
		existing = nil
	}

	base, checked := uint64(0), false
	switch {
	case in.BaseVersion != nil:
		if *in.BaseVersion > liveVersion {
			return nil, errors.Validation(map[string]string{"base_version": "is ahead of the published version"})
		}
		base, checked = *in.BaseVersion, true
	case existing != nil:
		base, checked = existing.BaseVersion, true
		if base == 0 {
			base = 1
		}
	}

	if checked && !in.Force && DetectConflict(liveVersion, base) {
		metrics.DraftConflicts.WithLabelValues("save").Inc()
		logger.FromContext(ctx).Info("draft save refused, page was published meanwhile",
			zap.Uint64("company_id", in.CompanyID),
			zap.Uint64("live_version", liveVersion),
			zap.Uint64("base_version", base),
		)
		return Conflicted{Expected: base, Actual: liveVersion}, nil
	}

	snap, err := s.snapshot(ctx, in, existing)
	if err != nil {
		return nil, err
	}

	draft := &domain.Draft{
		CompanyID:   in.CompanyID,
		BaseVersion: liveVersion,
		Version:     1,
		UpdatedBy:   in.CallerID,
		UpdatedAt:   s.now(),
	}
	if existing != nil {
		draft.Version = existing.Version + 1
		draft.CreatedAt = existing.CreatedAt
		draft.LastPublishedAt = existing.LastPublishedAt
	}
	if err := snap.Encode(draft); err != nil {
		return nil, errors.Internal(err)
	}

	if err := s.repository.Upsert(ctx, draft); err != nil {
		return nil, errors.Storage("save draft", err)
	}

	metrics.DraftSaves.Inc()
	logger.FromContext(ctx).Info("draft saved",
		zap.Uint64("company_id", in.CompanyID),
		zap.Uint64("version", draft.Version),
		zap.Uint64("base_version", draft.BaseVersion),
		zap.Bool("force", in.Force),
	)
	return Clean{Draft: draft}, nil
}

// snapshot assembles the content to store. Parts the client left out come
// from the previous draft, or from the live page when there is none.
func (s *DefaultService) snapshot(ctx context.Context, in SaveInput, existing *domain.Draft) (*Snapshot, error) {
	snap := &Snapshot{Company: in.Company}

	var previous *Snapshot
	if existing != nil && (in.Settings == nil || in.Sections == nil) {
		decoded, err := Decode(existing)
		if err != nil {
			return nil, errors.Storage("decode draft", err)
		}
		previous = decoded
	}

	switch {
	case in.Settings != nil:
		snap.Settings = in.Settings.WithDefaults()
	case previous != nil:
		snap.Settings = previous.Settings
	default:
		settings, err := s.companies.FindSettings(ctx, in.CompanyID)
		switch {
		case err == nil:
			snap.Settings = domain.SettingsFieldsOf(settings)
		case defError.Is(err, domain.ErrNotFound):
			snap.Settings = domain.SettingsFields{}.WithDefaults()
		default:
			return nil, errors.Storage("find settings", err)
		}
	}

	switch {
	case in.Sections != nil:
		snap.Sections = in.Sections
	case previous != nil:
		snap.Sections = previous.Sections
	default:
		sections, err := s.companies.ListSections(ctx, in.CompanyID, false)
		if err != nil {
			return nil, errors.Storage("list sections", err)
		}
		snap.Sections = domain.SectionFieldsOf(sections)
	}

	return snap, nil
}

// GetDraft returns nil without error when the company has no draft
func (s *DefaultService) GetDraft(ctx context.Context, callerID, companyID uint64) (*View, error) {
	live, err := s.guard.Authorize(ctx, callerID, companyID)
	if err != nil {
		return nil, err
	}

	draft, err := s.repository.FindByCompanyID(ctx, companyID)
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Storage("find draft", err)
	}

	snap, err := Decode(draft)
	if err != nil {
		return nil, errors.Storage("decode draft", err)
	}

	base := draft.BaseVersion
	if base == 0 {
		base = 1
	}
	return &View{
		CompanyID:             draft.CompanyID,
		Company:               snap.Company,
		Settings:              snap.Settings,
		Sections:              snap.Sections,
		BaseVersion:           base,
		Version:               draft.Version,
		LiveVersion:           live.CurrentVersion(),
		HasConflict:           DetectConflict(live.CurrentVersion(), base),
		HasUnpublishedChanges: draft.HasUnpublishedChanges(),
		LastPublishedAt:       draft.LastPublishedAt,
		UpdatedAt:             draft.UpdatedAt,
	}, nil
}
