package publish

import (
	"careers-page-builder/internal/logger"
	"careers-page-builder/internal/worker"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Event describes a page that was just published. PreviousSlug differs from
// Slug when the publish renamed the page.
type Event struct {
	CompanyID    uint64
	Slug         string
	PreviousSlug string
	Version      uint64
}

type Notifier interface {
	PagePublished(ctx context.Context, event Event)
}

type PageInvalidator interface {
	InvalidatePage(ctx context.Context, slugs ...string) error
}

type Revalidator interface {
	Revalidate(ctx context.Context, slug string) error
}

// AsyncNotifier runs post-publish work on the worker pool. The publish
// response never waits for it and failures are only logged.
type AsyncNotifier struct {
	pool        *worker.WorkerPool
	pages       PageInvalidator
	revalidator Revalidator
}

func NewAsyncNotifier(pool *worker.WorkerPool, pages PageInvalidator, revalidator Revalidator) *AsyncNotifier {
	return &AsyncNotifier{pool: pool, pages: pages, revalidator: revalidator}
}

func (n *AsyncNotifier) PagePublished(ctx context.Context, event Event) {
	logger.FromContext(ctx).Debug("queueing post-publish notification",
		zap.Uint64("company_id", event.CompanyID),
		zap.String("slug", event.Slug),
	)
	n.pool.Submit(func(ctx context.Context) error {
		if err := n.notify(ctx, event); err != nil {
			return fmt.Errorf("notify publish of company %d: %w", event.CompanyID, err)
		}
		return nil
	})
}

func (n *AsyncNotifier) notify(ctx context.Context, event Event) error {
	slugs := []string{event.Slug}
	if event.PreviousSlug != "" && event.PreviousSlug != event.Slug {
		slugs = append(slugs, event.PreviousSlug)
	}

	var errs []error
	if n.pages != nil {
		if err := n.pages.InvalidatePage(ctx, slugs...); err != nil {
			errs = append(errs, err)
		}
	}
	if n.revalidator != nil {
		for _, slug := range slugs {
			if err := n.revalidator.Revalidate(ctx, slug); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
