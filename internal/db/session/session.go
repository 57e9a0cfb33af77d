// Package session owns the process wide database engine and hands out scoped sessions.
package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/erickhv92/go-api-template/internal/config"
	"github.com/erickhv92/go-api-template/internal/db/dsn"
	gormadapter "github.com/erickhv92/go-api-template/internal/logger/adapter/gorm"
)

// DefaultPoolTimeout is used when no pool timeout is configured.
const DefaultPoolTimeout = 30 * time.Second

// Factory hands out scoped sessions on top of one pooled engine.
// It is safe for concurrent use, sessions are not.
type Factory struct {
	db          *gorm.DB
	poolTimeout time.Duration
}

// New opens the engine described by the settings.
// At most DBPoolSize idle and DBPoolSize+DBMaxOverflow open physical connections are kept.
func New(s *config.Settings) (*Factory, error) {
	d, err := dsn.Parse(s.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid DATABASE_URL")
	}

	db, err := gorm.Open(d.Dialector(), &gorm.Config{
		Logger: gormadapter.New(s.IsDevelopment()),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", d.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get connection pool")
	}

	sqlDB.SetMaxIdleConns(s.DBPoolSize)
	sqlDB.SetMaxOpenConns(s.DBPoolSize + s.DBMaxOverflow)

	log.Info().
		Str("driver", d.Driver).
		Int("pool_size", s.DBPoolSize).
		Int("max_overflow", s.DBMaxOverflow).
		Msg("database engine ready")

	return NewFromDB(db, s.DBPoolTimeout), nil
}

// NewFromDB wraps an already opened engine.
func NewFromDB(db *gorm.DB, poolTimeout time.Duration) *Factory {
	if poolTimeout <= 0 {
		poolTimeout = DefaultPoolTimeout
	}

	return &Factory{db: db, poolTimeout: poolTimeout}
}

// Engine returns the pooled engine, e.g. for the migration runner.
func (f *Factory) Engine() *gorm.DB {
	return f.db
}

// Scoped acquires one pooled connection, runs fn with a session bound to it and releases the
// connection on every exit path. Waiting for a free connection is bounded by the pool timeout.
func (f *Factory) Scoped(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if f == nil || f.db == nil {
		return ErrDBNil
	}

	conn, err := f.acquire(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to release database connection")
		}
	}()

	tx := f.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = conn

	return fn(tx)
}

func (f *Factory) acquire(ctx context.Context) (*sql.Conn, error) {
	sqlDB, err := f.db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get connection pool")
	}

	acquireCtx, cancel := context.WithTimeout(ctx, f.poolTimeout)
	defer cancel()

	conn, err := sqlDB.Conn(acquireCtx)
	if err != nil {
		// only our own deadline is a pool timeout, a cancelled caller context is passed through
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.Wrapf(ErrPoolTimeout, "after %s", f.poolTimeout)
		}

		return nil, errors.Wrap(err, "failed to acquire database connection")
	}

	return conn, nil
}

// Close closes the pool.
func (f *Factory) Close() error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return sqlDB.Close() //nolint:wrapcheck
}
