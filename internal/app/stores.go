package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartmarshall/wordclass/internal/adapter/changefeed"
	"github.com/heartmarshall/wordclass/internal/adapter/memory"
	"github.com/heartmarshall/wordclass/internal/adapter/postgres"
	pgprogress "github.com/heartmarshall/wordclass/internal/adapter/postgres/progress"
	"github.com/heartmarshall/wordclass/internal/adapter/postgres/roster"
	pgstats "github.com/heartmarshall/wordclass/internal/adapter/postgres/stats"
	"github.com/heartmarshall/wordclass/internal/adapter/postgres/word"
	"github.com/heartmarshall/wordclass/internal/adapter/redisstore"
	"github.com/heartmarshall/wordclass/internal/adapter/sqlite"
	"github.com/heartmarshall/wordclass/internal/config"
	"github.com/heartmarshall/wordclass/internal/domain"
	"github.com/heartmarshall/wordclass/internal/transport/rest"
)

type wordStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	List(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error)
	Create(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Update(ctx context.Context, w *domain.Word) (*domain.Word, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type rosterStore interface {
	SupervisorOf(ctx context.Context, studentID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, s domain.Student) error
	ListBySupervisor(ctx context.Context, supervisorID uuid.UUID) ([]domain.Student, error)
}

// stores is the persistence selected by configuration.
type stores struct {
	progress domain.ProgressStore
	stats    domain.StatsStore
	words    wordStore
	roster   rosterStore

	checks    []rest.Check
	listeners []func(ctx context.Context) error
	closers   []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the catalog and the progress/stats backend named by
// cfg.Store. The memory backend keeps everything in process, catalog
// included, and needs no database.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	hub := changefeed.New()
	s := &stores{}

	backend := cfg.Store.BackendName()
	if backend == config.BackendMemory {
		s.progress = memory.NewProgressStore(hub)
		s.stats = memory.NewStatsStore(hub)
		s.words = memory.NewWordRepo()
		s.roster = memory.NewRoster()
		return s, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.closers = append(s.closers, pool.Close)
	s.checks = append(s.checks, rest.Check{Name: "database", Pinger: pool})
	s.words = word.New(pool)
	s.roster = roster.New(pool)

	switch backend {
	case config.BackendPostgres:
		feed := postgres.NewFeed(hub, log)
		s.progress = pgprogress.New(pool, feed)
		s.stats = pgstats.New(pool, feed)
		s.listeners = append(s.listeners, func(ctx context.Context) error {
			return feed.Listen(ctx, pool)
		})

	case config.BackendSQLite:
		if err := sqlite.EnsureDir(cfg.SQLite.Path); err != nil {
			s.Close()
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		db, err := sqlite.Open(ctx, cfg.SQLite.Path, hub)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		s.checks = append(s.checks, rest.Check{Name: "progress_store", Pinger: db})
		s.progress = db.Progress()
		s.stats = db.Stats()

	case config.BackendRedis:
		rcfg := redisstore.Config{
			Addr:             cfg.Redis.Addr,
			Password:         cfg.Redis.Password,
			DB:               cfg.Redis.DB,
			KeyPrefix:        cfg.Redis.KeyPrefix,
			MaxDocumentBytes: cfg.Redis.MaxDocumentBytes,
		}
		rdb := redisstore.NewClient(rcfg)
		store := redisstore.New(rdb, hub, rcfg, log)
		if err := store.Ping(ctx); err != nil {
			_ = rdb.Close()
			s.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.checks = append(s.checks, rest.Check{Name: "progress_store", Pinger: store})
		s.progress = store.Progress()
		s.stats = store.Stats()
		s.listeners = append(s.listeners, store.Listen)

	default:
		s.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return s, nil
}
