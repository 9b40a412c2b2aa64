// Package app wires configuration, storage, services and the HTTP engine into one runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/internal/config"
	"github.com/maxviazov/shelf-trivia-service/internal/handler"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/cache"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/gormstore"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/memory"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/postgres"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
	"github.com/maxviazov/shelf-trivia-service/migrations"
)

type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  repository.Store
	redis  *redis.Client
	engine *gin.Engine
}

// New opens the configured store and builds the router. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, store: store}

	categories := store.Categories
	if cfg.Redis.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis, log)
		if err != nil {
			// the cache is optional; serve straight from the store
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, category cache disabled")
		} else {
			a.redis = client
			ttl := time.Duration(cfg.Redis.CategoryTTL) * time.Second
			categories = cache.NewCategoryRepository(categories, cache.NewRedisKV(client), ttl, log)
		}
	}

	books := service.NewBookService(store.Books, store.Tx, cfg.Pagination.BooksPerShelf, log)
	trivia := service.NewTriviaService(store.Questions, categories, store.Tx, cfg.Pagination.QuestionsPerPage, log)

	a.engine = handler.NewEngine(log, handler.CORSOptions{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: cfg.CORS.AllowMethods,
		AllowHeaders: cfg.CORS.AllowHeaders,
	})
	handler.Register(a.engine, store.Pinger, books, trivia)
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Info().Msg("using in-memory store")
		return memory.NewStore(), nil

	case config.DriverGorm:
		db, err := gormstore.Open(ctx, cfg, log)
		if err != nil {
			return repository.Store{}, err
		}
		store := gormstore.NewStore(db)
		if cfg.Storage.AutoMigrate {
			sqlDB, err := db.DB()
			if err == nil {
				err = migrations.Up(sqlDB)
			}
			if err != nil {
				store.Close()
				return repository.Store{}, fmt.Errorf("migrate: %w", err)
			}
		}
		return store, nil

	default:
		repo, err := repository.New(ctx, cfg, &log)
		if err != nil {
			return repository.Store{}, err
		}
		if cfg.Storage.AutoMigrate {
			sqlDB := stdlib.OpenDBFromPool(repo.Pool())
			err := migrations.Up(sqlDB)
			_ = sqlDB.Close()
			if err != nil {
				repo.Close()
				return repository.Store{}, fmt.Errorf("migrate: %w", err)
			}
		}
		store := postgres.NewStore(repo.Pool())
		store.Close = repo.Close
		return store, nil
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.engine }

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// for at most app.shutdown_timeout seconds.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("driver", a.cfg.Storage.Driver).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the store and the cache client.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.store.Close != nil {
		a.store.Close()
	}
}
