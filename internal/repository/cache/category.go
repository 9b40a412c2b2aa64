package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

const (
	categoriesKey     = "shelf-trivia:categories"
	categoryKeyPrefix = "shelf-trivia:category:"
)

// CategoryRepository serves the category reference set from the cache and falls back to
// the wrapped repository on a miss. Cache failures are logged and never reach the caller.
type CategoryRepository struct {
	next   repository.CategoryRepository
	kv     KV
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCategoryRepository(next repository.CategoryRepository, kv KV, ttl time.Duration, logger zerolog.Logger) *CategoryRepository {
	return &CategoryRepository{
		next:   next,
		kv:     kv,
		ttl:    ttl,
		logger: logger.With().Str("module", "cache").Str("component", "category").Logger(),
	}
}

func (c *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if c.load(ctx, categoriesKey, &cached) {
		return cached, nil
	}
	list, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, categoriesKey, list)
	return list, nil
}

// GetByID caches hits only; a missing category is not remembered.
func (c *CategoryRepository) GetByID(ctx context.Context, id int64) (model.Category, error) {
	key := categoryKeyPrefix + strconv.FormatInt(id, 10)
	var cached model.Category
	if c.load(ctx, key, &cached) {
		return cached, nil
	}
	cat, err := c.next.GetByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	c.store(ctx, key, cat)
	return cat, nil
}

func (c *CategoryRepository) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	c.logger.Trace().Str("key", key).Msg("cache hit")
	return true
}

func (c *CategoryRepository) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.kv.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
