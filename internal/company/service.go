package company

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/logger"
	"careers-page-builder/redis"
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Page is a rendered careers page: the company, its theme and its sections in order.
type Page struct {
	Company  *domain.Company        `json:"company"`
	Settings *domain.CompanySettings `json:"settings"`
	Sections []domain.ContentSection `json:"sections"`
}

type CompaniesMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

type Service interface {
	CreateCompany(ctx context.Context, userID uint64, name, slug string) (*domain.Company, error)
	ListMine(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Company, CompaniesMeta, error)
	GetLivePage(ctx context.Context, callerID, companyID uint64) (*Page, error)
	GetPublicPage(ctx context.Context, slug string) (*Page, error)
	InvalidatePage(ctx context.Context, slugs ...string) error
}

type DefaultService struct {
	repository Repository
	guard      Authorizer
	cache      *redis.Cache
	cacheTTL   time.Duration
}

// NewService builds the company service. cache may be nil, in which case
// public pages are read from the store every time.
func NewService(repository Repository, guard Authorizer, cache *redis.Cache, cacheTTL time.Duration) Service {
	return &DefaultService{
		repository: repository,
		guard:      guard,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (s *DefaultService) CreateCompany(ctx context.Context, userID uint64, name, slug string) (*domain.Company, error) {
	fields := domain.CompanyFields{Name: name, Slug: slug}
	fields.Normalize()
	if fields.Name == "" {
		return nil, errors.Validation(map[string]string{"name": "is required"})
	}

	_, err := s.repository.FindBySlug(ctx, fields.Slug)
	if err == nil {
		return nil, errors.Conflict("Slug already taken", nil)
	}
	if !defError.Is(err, domain.ErrNotFound) {
		return nil, errors.Storage("find company by slug", err)
	}

	company := &domain.Company{
		Name:    fields.Name,
		Slug:    fields.Slug,
		UserID:  userID,
		Version: 1,
	}
	settings := domain.DefaultSettings(0)
	if err := s.repository.Create(ctx, company, &settings); err != nil {
		if defError.Is(err, domain.ErrDuplicate) {
			return nil, errors.Conflict("Slug already taken", err)
		}
		return nil, errors.Storage("create company", err)
	}

	logger.FromContext(ctx).Info("company created",
		zap.Uint64("company_id", company.ID),
		zap.String("slug", company.Slug),
	)
	return company, nil
}

func (s *DefaultService) ListMine(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Company, CompaniesMeta, error) {
	companies, total, err := s.repository.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, CompaniesMeta{}, errors.Storage("list companies", err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, CompaniesMeta{
		Total:       total,
		CurrentPage: page,
		PerPage:     pageSize,
		TotalPage:   int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// GetLivePage returns everything an editor needs to rebase a draft, hidden sections included
func (s *DefaultService) GetLivePage(ctx context.Context, callerID, companyID uint64) (*Page, error) {
	company, err := s.guard.Authorize(ctx, callerID, companyID)
	if err != nil {
		return nil, err
	}
	return s.loadPage(ctx, company, false)
}

func (s *DefaultService) GetPublicPage(ctx context.Context, slug string) (*Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	key := s.pageKey(ctx, slug)

	var cached Page
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.FromContext(ctx).Warn("page cache read failed", zap.String("slug", slug), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	company, err := s.repository.FindBySlug(ctx, slug)
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, errors.NotFound("Company not found", err)
		}
		return nil, errors.Storage("find company by slug", err)
	}

	page, err := s.loadPage(ctx, company, true)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, page, s.cacheTTL); err != nil {
		logger.FromContext(ctx).Warn("page cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return page, nil
}

// InvalidatePage makes every cached copy of the given pages stale
func (s *DefaultService) InvalidatePage(ctx context.Context, slugs ...string) error {
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := s.cache.IncrementVersion(ctx, versionKey(slug)); err != nil {
			return fmt.Errorf("invalidate page %s: %w", slug, err)
		}
	}
	return nil
}

func (s *DefaultService) loadPage(ctx context.Context, company *domain.Company, visibleOnly bool) (*Page, error) {
	settings, err := s.repository.FindSettings(ctx, company.ID)
	if err != nil {
		if !defError.Is(err, domain.ErrNotFound) {
			return nil, errors.Storage("find settings", err)
		}
		defaults := domain.DefaultSettings(company.ID)
		settings = &defaults
	}

	sections, err := s.repository.ListSections(ctx, company.ID, visibleOnly)
	if err != nil {
		return nil, errors.Storage("list sections", err)
	}
	if sections == nil {
		sections = []domain.ContentSection{}
	}

	return &Page{Company: company, Settings: settings, Sections: sections}, nil
}

func versionKey(slug string) string {
	return "page:version:" + slug
}

func (s *DefaultService) pageKey(ctx context.Context, slug string) string {
	return fmt.Sprintf("page:%s:v%d", slug, s.cache.GetVersion(ctx, versionKey(slug)))
}
