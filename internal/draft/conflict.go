package draft

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
)

// DetectConflict reports whether the live page was published after the draft
// was computed. The check is page-wide: any intervening publish is a conflict.
func DetectConflict(liveVersion, draftBaseVersion uint64) bool {
	return liveVersion > draftBaseVersion
}

// Outcome is the result of a draft save: Clean or Conflicted.
type Outcome interface {
	outcome()
}

// Clean is a save that was written.
type Clean struct {
	Draft *domain.Draft
}

// Conflicted is a save refused because the live page moved on. Expected is
// the base version the draft was built on, Actual the live version.
type Conflicted struct {
	Expected uint64
	Actual   uint64
}

func (Clean) outcome()      {}
func (Conflicted) outcome() {}

// Err renders the conflict as the 409 clients resolve by rebasing or forcing
func (c Conflicted) Err() *errors.APIError {
	return errors.Conflict("Draft is out of date: the page was published since this draft was started", nil).
		WithDetails(ConflictDetails{PublishedVersion: c.Actual, DraftBaseVersion: c.Expected})
}

type ConflictDetails struct {
	PublishedVersion uint64 `json:"publishedVersion"`
	DraftBaseVersion uint64 `json:"draftBaseVersion"`
}
