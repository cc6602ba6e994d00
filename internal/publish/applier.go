package publish

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/draft"
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is how far a publish got. Stages only move forward.
type Stage int

const (
	NotStarted Stage = iota
	CompanyApplied
	SettingsApplied
	SectionsApplied
	Published
)

var stageNames = map[Stage]string{
	NotStarted:      "not_started",
	CompanyApplied:  "company_applied",
	SettingsApplied: "settings_applied",
	SectionsApplied: "sections_applied",
	Published:       "published",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Step names the write that moves a publish from one stage to the next
type Step string

const (
	StepCompany  Step = "company"
	StepSettings Step = "settings"
	StepSections Step = "sections"
	StepCommit   Step = "commit"
)

// StageError reports the step that failed and the stage reached before it.
// The transaction is rolled back, so nothing reached is left applied.
type StageError struct {
	Step    Step
	Reached Stage
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("publish step %s failed after %s: %v", e.Step, e.Reached, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Completed lists the stages that had been reached when the step failed
func (e *StageError) Completed() []string {
	completed := []string{}
	for s := CompanyApplied; s <= e.Reached && s < Published; s++ {
		completed = append(completed, s.String())
	}
	return completed
}

// Result is a finished publish
type Result struct {
	Stage       Stage
	Version     uint64
	PublishedAt time.Time
}

// Applier copies a validated draft snapshot onto the live tables:
// company, then settings, then sections, all in one transaction.
type Applier struct {
	repository Repository
}

func NewApplier(repository Repository) *Applier {
	return &Applier{repository: repository}
}

func (a *Applier) Apply(ctx context.Context, companyID uint64, snap *draft.Snapshot, now time.Time) (*Result, error) {
	stage := NotStarted
	var version uint64

	err := a.repository.WithinTransaction(ctx, func(w Writer) error {
		v, err := w.ApplyCompany(ctx, companyID, snap.Company, now)
		if err != nil {
			return &StageError{Step: StepCompany, Reached: stage, Err: err}
		}
		version = v
		stage = CompanyApplied

		if err := w.UpsertSettings(ctx, companyID, snap.Settings, now); err != nil {
			return &StageError{Step: StepSettings, Reached: stage, Err: err}
		}
		stage = SettingsApplied

		if err := w.ReplaceSections(ctx, companyID, snap.Sections, now); err != nil {
			return &StageError{Step: StepSections, Reached: stage, Err: err}
		}
		stage = SectionsApplied
		return nil
	})
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			return nil, stageErr
		}
		return nil, &StageError{Step: StepCommit, Reached: stage, Err: err}
	}

	return &Result{Stage: Published, Version: version, PublishedAt: now}, nil
}

// IsDuplicateSlug reports whether a publish failed because another company took the slug first
func IsDuplicateSlug(err error) bool {
	var stageErr *StageError
	return errors.As(err, &stageErr) && stageErr.Step == StepCompany && errors.Is(stageErr.Err, domain.ErrDuplicate)
}
