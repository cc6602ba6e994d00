// Package datasource chooses, once at startup, where every repository reads
// and writes: a live database or the in-memory static fallback.
package datasource

import (
	"careers-page-builder/internal/company"
	"careers-page-builder/internal/config"
	appdb "careers-page-builder/internal/db"
	"careers-page-builder/internal/draft"
	"careers-page-builder/internal/presence"
	"careers-page-builder/internal/publish"
	"careers-page-builder/internal/user"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Mode string

const (
	ModeLive   Mode = "live"
	ModeStatic Mode = "static"
	ModeAuto   Mode = "auto"
)

// Presence backends selectable with PRESENCE_BACKEND
const (
	PresenceDatabase = "database"
	PresenceRedis    = "redis"
)

// DataSource bundles the repositories every service is built from
type DataSource struct {
	Mode      Mode
	Users     user.UserRepository
	Companies company.Repository
	Drafts    draft.Repository
	Pages     publish.Repository
	Presence  presence.Store

	ping  func(ctx context.Context) error
	close func() error
}

// Ping reports whether the backing store answers
func (d *DataSource) Ping(ctx context.Context) error {
	if d.ping == nil {
		return nil
	}
	return d.ping(ctx)
}

func (d *DataSource) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// NewLiveStore serves everything from db. Presence goes to redis when the
// redis backend is selected and a client is available.
func NewLiveStore(db *gorm.DB, redisClient *redis.Client, presenceBackend string, presenceTTL time.Duration) *DataSource {
	var presenceStore presence.Store
	if presenceBackend == PresenceRedis && redisClient != nil {
		presenceStore = presence.NewRedisStore(redisClient, presenceTTL)
	} else {
		presenceStore = presence.NewGormStore(db)
	}

	return &DataSource{
		Mode:      ModeLive,
		Users:     user.NewRepository(db),
		Companies: company.NewRepository(db),
		Drafts:    draft.NewRepository(db),
		Pages:     publish.NewRepository(db),
		Presence:  presenceStore,
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() error {
			return appdb.CloseDb(db)
		},
	}
}

// NewStaticFallback serves the demo recruiter and page from a private
// in-memory sqlite database through the same repositories as the live store.
// Nothing survives a restart.
func NewStaticFallback(ctx context.Context) (*DataSource, error) {
	db, err := appdb.OpenInMemory()
	if err != nil {
		return nil, err
	}
	if err := appdb.Migrate(db); err != nil {
		_ = appdb.CloseDb(db)
		return nil, fmt.Errorf("migrate static data: %w", err)
	}
	if err := appdb.SeedData(db.WithContext(ctx)); err != nil {
		_ = appdb.CloseDb(db)
		return nil, fmt.Errorf("seed static data: %w", err)
	}

	ds := NewLiveStore(db, nil, PresenceDatabase, 0)
	ds.Mode = ModeStatic
	return ds, nil
}

// Open builds the data source selected by cfg.DataSource. In auto mode a
// database that cannot be reached falls back to static data.
func Open(ctx context.Context, cfg *config.Config, redisClient *redis.Client, log *zap.Logger) (*DataSource, error) {
	mode := Mode(cfg.DataSource)
	switch mode {
	case ModeStatic:
		log.Warn("Serving static fallback data; changes are kept in memory only")
		return NewStaticFallback(ctx)
	case ModeLive, ModeAuto:
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		if mode == ModeLive {
			return nil, err
		}
		log.Warn("Database unavailable, falling back to static data", zap.Error(err))
		return NewStaticFallback(ctx)
	}

	log.Info("Database connected", zap.String("type", cfg.DBType))
	return NewLiveStore(db, redisClient, cfg.PresenceBackend, 2*cfg.PresenceWindow), nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := appdb.ConnectDb(cfg)
	if err != nil {
		return nil, err
	}
	if err := appdb.Migrate(db); err != nil {
		_ = appdb.CloseDb(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedData {
		if err := appdb.SeedData(db); err != nil {
			_ = appdb.CloseDb(db)
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return db, nil
}
