package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type categoryRepository struct{ pool *pgxpool.Pool }

func NewCategoryRepository(pool *pgxpool.Pool) repository.CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.Category, 0, 8)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (model.Category, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Category{}, err
	}
	var c model.Category
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, repository.ErrNotFound
		}
		return model.Category{}, repository.MapPgError(err)
	}
	return c, nil
}

var _ repository.CategoryRepository = (*categoryRepository)(nil)
