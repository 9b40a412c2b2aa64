// Package gormstore implements the repositories on top of gorm and its postgres dialector.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maxviazov/shelf-trivia-service/internal/config"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

// Open connects gorm to Postgres using the same pool settings as the pgx backend.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	db, err := gorm.Open(postgres.Open(repository.DSN(cfg.Postgres)), gormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	pg := cfg.Postgres
	if pg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(pg.MaxConns))
	}
	sqlDB.SetMaxIdleConns(int(pg.MinConns))
	sqlDB.SetConnMaxLifetime(time.Duration(pg.MaxConnLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(pg.MaxConnIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("db", pg.DBName).
		Msg("Successfully connected to PostgreSQL via gorm")
	return db, nil
}

func gormConfig(logger zerolog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:                 newGormLogger(logger),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

// NewStore wires the gorm repositories. Store.Close closes the underlying sql.DB.
func NewStore(db *gorm.DB) repository.Store {
	return repository.Store{
		Books:      NewBookRepository(db),
		Categories: NewCategoryRepository(db),
		Questions:  NewQuestionRepository(db),
		Tx:         NewTxManager(db),
		Pinger:     NewPinger(db),
		Close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}
}

// MapGormError translates gorm sentinels, then falls back to the Postgres code mapping.
func MapGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return repository.ErrConflict
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return repository.ErrInvalidValue
	default:
		return repository.MapPgError(err)
	}
}

type txKey struct{}

// conn returns the transaction bound to ctx, or the root handle.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type txManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) repository.TxManager { return &txManager{db: db} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if _, nested := ctx.Value(txKey{}).(*gorm.DB); nested {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type pinger struct{ db *gorm.DB }

func NewPinger(db *gorm.DB) repository.Pinger { return &pinger{db: db} }

func (p *pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
