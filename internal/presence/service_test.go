package presence

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/errors"
	"careers-page-builder/internal/testutil"
	"context"
	defError "errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (Service, Store, *domain.User, *domain.Company) {
	db := testutil.NewTestDB(t)
	owner, c := testutil.SeedCompany(t, db, "owner@acme.test", "acme")
	companies := company.NewRepository(db)
	store := NewGormStore(db)
	svc := NewService(store, company.NewGuard(companies), WithClock(func() time.Time { return now }))
	return svc, store, owner, c
}

func TestHeartbeat_Window(t *testing.T) {
	svc, store, owner, c := setupService(t)
	ctx := context.Background()

	require.NoError(t, store.Touch(ctx, domain.ActiveEditor{CompanyID: c.ID, UserID: 100, UserEmail: "recent@acme.test", LastHeartbeat: now.Add(-60 * time.Second)}))
	require.NoError(t, store.Touch(ctx, domain.ActiveEditor{CompanyID: c.ID, UserID: 101, UserEmail: "stale@acme.test", LastHeartbeat: now.Add(-121 * time.Second)}))
	require.NoError(t, store.Touch(ctx, domain.ActiveEditor{CompanyID: c.ID + 1, UserID: 102, UserEmail: "elsewhere@acme.test", LastHeartbeat: now}))

	editors, err := svc.Heartbeat(ctx, owner.ID, owner.Email, c.ID)
	require.NoError(t, err)
	require.Len(t, editors, 1)
	assert.Equal(t, uint64(100), editors[0].UserID)
	assert.Equal(t, "recent@acme.test", editors[0].UserEmail)
}

func TestHeartbeat_ExcludesCallerAndRenews(t *testing.T) {
	svc, store, owner, c := setupService(t)
	ctx := context.Background()

	editors, err := svc.Heartbeat(ctx, owner.ID, owner.Email, c.ID)
	require.NoError(t, err)
	assert.Empty(t, editors)
	assert.NotNil(t, editors)

	active, err := store.ListActive(ctx, c.ID, 0, now.Add(-time.Second))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, owner.ID, active[0].UserID)
	assert.True(t, active[0].LastHeartbeat.Equal(now))
}

func TestHeartbeat_Forbidden(t *testing.T) {
	svc, store, _, c := setupService(t)
	ctx := context.Background()

	_, err := svc.Heartbeat(ctx, 999, "nobody@globex.test", c.ID)
	assert.True(t, errors.IsStatus(err, http.StatusForbidden))

	active, err := store.ListActive(ctx, c.ID, 0, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestLeave_Idempotent(t *testing.T) {
	svc, store, owner, c := setupService(t)
	ctx := context.Background()

	_, err := svc.Heartbeat(ctx, owner.ID, owner.Email, c.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, owner.ID, c.ID))
	require.NoError(t, svc.Leave(ctx, owner.ID, c.ID))

	active, err := store.ListActive(ctx, c.ID, 0, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestLeave_Forbidden(t *testing.T) {
	svc, _, _, c := setupService(t)

	err := svc.Leave(context.Background(), 999, c.ID)
	assert.True(t, errors.IsStatus(err, http.StatusForbidden))
}

type brokenStore struct {
	touchErr, listErr error
}

func (s brokenStore) Touch(ctx context.Context, editor domain.ActiveEditor) error {
	return s.touchErr
}

func (s brokenStore) ListActive(ctx context.Context, companyID, excludeUserID uint64, since time.Time) ([]domain.ActiveEditor, error) {
	return nil, s.listErr
}

func (s brokenStore) Remove(ctx context.Context, companyID, userID uint64) error {
	return defError.New("remove failed")
}

type allowAll struct{}

func (allowAll) Authorize(ctx context.Context, callerID, companyID uint64) (*domain.Company, error) {
	return &domain.Company{ID: companyID, UserID: callerID}, nil
}

func TestHeartbeat_TouchFailureIsIgnored(t *testing.T) {
	svc := NewService(brokenStore{touchErr: defError.New("touch failed")}, allowAll{})

	editors, err := svc.Heartbeat(context.Background(), 1, "a@acme.test", 1)
	require.NoError(t, err)
	assert.Empty(t, editors)

	require.NoError(t, svc.Leave(context.Background(), 1, 1))
}

func TestHeartbeat_ListFailureIsReported(t *testing.T) {
	svc := NewService(brokenStore{listErr: defError.New("list failed")}, allowAll{})

	_, err := svc.Heartbeat(context.Background(), 1, "a@acme.test", 1)
	assert.True(t, errors.IsStatus(err, http.StatusInternalServerError))
}
