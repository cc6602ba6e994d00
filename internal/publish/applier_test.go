package publish

import (
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/draft"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	calls      []string
	failOn     string
	newVersion uint64
}

func (w *recordingWriter) step(name string) error {
	w.calls = append(w.calls, name)
	if w.failOn == name {
		return errors.New(name + " exploded")
	}
	return nil
}

func (w *recordingWriter) ApplyCompany(ctx context.Context, companyID uint64, fields domain.CompanyFields, now time.Time) (uint64, error) {
	return w.newVersion, w.step("company")
}

func (w *recordingWriter) UpsertSettings(ctx context.Context, companyID uint64, fields domain.SettingsFields, now time.Time) error {
	return w.step("settings")
}

func (w *recordingWriter) ReplaceSections(ctx context.Context, companyID uint64, sections []domain.SectionFields, now time.Time) error {
	return w.step("sections")
}

type fakeTxRepository struct {
	writer     *recordingWriter
	rolledBack bool
	commitErr  error
}

func (r *fakeTxRepository) WithinTransaction(ctx context.Context, fn func(w Writer) error) error {
	if err := fn(r.writer); err != nil {
		r.rolledBack = true
		return err
	}
	return r.commitErr
}

func TestApplier_AppliesInOrder(t *testing.T) {
	repo := &fakeTxRepository{writer: &recordingWriter{newVersion: 4}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	result, err := NewApplier(repo).Apply(context.Background(), 1, &draft.Snapshot{}, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"company", "settings", "sections"}, repo.writer.calls)
	assert.Equal(t, Published, result.Stage)
	assert.Equal(t, uint64(4), result.Version)
	assert.Equal(t, now, result.PublishedAt)
	assert.False(t, repo.rolledBack)
}

func TestApplier_StopsAtFailedStep(t *testing.T) {
	tests := []struct {
		failOn    string
		wantStep  Step
		reached   Stage
		completed []string
		calls     []string
	}{
		{"company", StepCompany, NotStarted, []string{}, []string{"company"}},
		{"settings", StepSettings, CompanyApplied, []string{"company_applied"}, []string{"company", "settings"}},
		{"sections", StepSections, SettingsApplied, []string{"company_applied", "settings_applied"}, []string{"company", "settings", "sections"}},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			repo := &fakeTxRepository{writer: &recordingWriter{failOn: tt.failOn}}

			_, err := NewApplier(repo).Apply(context.Background(), 1, &draft.Snapshot{}, time.Now())

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.wantStep, stageErr.Step)
			assert.Equal(t, tt.reached, stageErr.Reached)
			assert.Equal(t, tt.completed, stageErr.Completed())
			assert.Equal(t, tt.calls, repo.writer.calls)
			assert.True(t, repo.rolledBack)
		})
	}
}

func TestApplier_CommitFailure(t *testing.T) {
	repo := &fakeTxRepository{writer: &recordingWriter{}, commitErr: errors.New("connection reset")}

	_, err := NewApplier(repo).Apply(context.Background(), 1, &draft.Snapshot{}, time.Now())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StepCommit, stageErr.Step)
	assert.Equal(t, SectionsApplied, stageErr.Reached)
	assert.Equal(t, []string{"company_applied", "settings_applied", "sections_applied"}, stageErr.Completed())
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "not_started", NotStarted.String())
	assert.Equal(t, "published", Published.String())
	assert.Equal(t, "stage(9)", Stage(9).String())
}

func TestIsDuplicateSlug(t *testing.T) {
	assert.True(t, IsDuplicateSlug(&StageError{Step: StepCompany, Err: domain.ErrDuplicate}))
	assert.False(t, IsDuplicateSlug(&StageError{Step: StepSections, Err: domain.ErrDuplicate}))
	assert.False(t, IsDuplicateSlug(errors.New("boom")))
}
