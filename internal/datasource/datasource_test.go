package datasource

import (
	"careers-page-builder/internal/config"
	appdb "careers-page-builder/internal/db"
	"careers-page-builder/internal/domain"
	"careers-page-builder/internal/presence"
	"careers-page-builder/internal/publish"
	"careers-page-builder/internal/testutil"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewStaticFallback_SeedsDemoPage(t *testing.T) {
	ds, err := NewStaticFallback(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	ctx := context.Background()

	assert.Equal(t, ModeStatic, ds.Mode)
	assert.NoError(t, ds.Ping(ctx))

	c, err := ds.Companies.FindBySlug(ctx, appdb.DemoCompanySlug)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Version)

	owner, err := ds.Users.FindByEmail(ctx, appdb.DemoUserEmail)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, c.UserID)

	sections, err := ds.Companies.ListSections(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}

func TestNewStaticFallback_InstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	first, err := NewStaticFallback(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { first.Close() })
	second, err := NewStaticFallback(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	c, err := first.Companies.FindBySlug(ctx, appdb.DemoCompanySlug)
	require.NoError(t, err)
	settings := domain.DefaultSettings(0)
	require.NoError(t, first.Companies.Create(ctx, &domain.Company{Name: "Globex", Slug: "globex", UserID: c.UserID}, &settings))

	_, err = second.Companies.FindBySlug(ctx, "globex")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewStaticFallback_PublishRollsBack(t *testing.T) {
	ctx := context.Background()
	ds, err := NewStaticFallback(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })

	c, err := ds.Companies.FindBySlug(ctx, appdb.DemoCompanySlug)
	require.NoError(t, err)

	boom := errors.New("sections failed")
	err = ds.Pages.WithinTransaction(ctx, func(w publish.Writer) error {
		if _, err := w.ApplyCompany(ctx, c.ID, domain.CompanyFields{Name: "Renamed", Slug: "renamed"}, time.Now()); err != nil {
			return err
		}
		if err := w.ReplaceSections(ctx, c.ID, nil, time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := ds.Companies.FindBySlug(ctx, appdb.DemoCompanySlug)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", reloaded.Name)
	assert.Equal(t, uint64(1), reloaded.Version)

	sections, err := ds.Companies.ListSections(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Len(t, sections, 3)
}

func TestNewLiveStore_PresenceBackend(t *testing.T) {
	db := testutil.NewTestDB(t)

	ds := NewLiveStore(db, nil, PresenceRedis, time.Minute)
	assert.IsType(t, &presence.GormStore{}, ds.Presence, "no redis client falls back to the database")
	assert.NoError(t, ds.Ping(context.Background()))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ds = NewLiveStore(db, client, PresenceRedis, time.Minute)
	assert.IsType(t, &presence.RedisStore{}, ds.Presence)
	assert.Equal(t, ModeLive, ds.Mode)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("static", func(t *testing.T) {
		ds, err := Open(ctx, &config.Config{DataSource: "static"}, nil, log)
		require.NoError(t, err)
		assert.Equal(t, ModeStatic, ds.Mode)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{DataSource: "cloud"}, nil, log)
		assert.Error(t, err)
	})

	t.Run("live without database fails", func(t *testing.T) {
		_, err := Open(ctx, &config.Config{DataSource: "live", DBType: "oracle"}, nil, log)
		assert.Error(t, err)
	})

	t.Run("auto falls back", func(t *testing.T) {
		ds, err := Open(ctx, &config.Config{DataSource: "auto", DBType: "oracle"}, nil, log)
		require.NoError(t, err)
		assert.Equal(t, ModeStatic, ds.Mode)
	})

	t.Run("live sqlite", func(t *testing.T) {
		cfg := &config.Config{
			DataSource:      "live",
			DBType:          "sqlite",
			DBName:          filepath.Join(t.TempDir(), "careers.db"),
			DBMaxConns:      1,
			Environment:     "production",
			SeedData:        true,
			PresenceBackend: PresenceDatabase,
			PresenceWindow:  2 * time.Minute,
		}
		ds, err := Open(ctx, cfg, nil, log)
		require.NoError(t, err)
		t.Cleanup(func() { ds.Close() })

		assert.Equal(t, ModeLive, ds.Mode)
		_, err = ds.Companies.FindBySlug(ctx, appdb.DemoCompanySlug)
		assert.NoError(t, err)
	})
}
