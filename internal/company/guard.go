package company

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"context"
	defError "errors"
)

// Authorizer resolves a company the caller is allowed to mutate.
type Authorizer interface {
	Authorize(ctx context.Context, callerID, companyID uint64) (*domain.Company, error)
}

// Guard checks company ownership before any write. It never writes itself.
type Guard struct {
	repository Repository
}

func NewGuard(repository Repository) *Guard {
	return &Guard{repository: repository}
}

// Authorize returns the company when callerID owns it: 404 when it does not
// exist, 403 when someone else owns it.
func (g *Guard) Authorize(ctx context.Context, callerID, companyID uint64) (*domain.Company, error) {
	company, err := g.repository.FindByID(ctx, companyID)
	return g.check(callerID, company, err)
}

// AuthorizeSlug is Authorize addressed by the public slug
func (g *Guard) AuthorizeSlug(ctx context.Context, callerID uint64, slug string) (*domain.Company, error) {
	company, err := g.repository.FindBySlug(ctx, slug)
	return g.check(callerID, company, err)
}

func (g *Guard) check(callerID uint64, company *domain.Company, err error) (*domain.Company, error) {
	if err != nil {
		if defError.Is(err, domain.ErrNotFound) {
			return nil, errors.NotFound("Company not found", err)
		}
		return nil, errors.Storage("find company", err)
	}
	if callerID == 0 || company.UserID != callerID {
		return nil, errors.Forbidden(nil)
	}
	return company, nil
}
