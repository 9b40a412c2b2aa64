package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type bookRepository struct{ pool *pgxpool.Pool }

func NewBookRepository(pool *pgxpool.Pool) repository.BookRepository {
	return &bookRepository{pool: pool}
}

func (r *bookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Book{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO books (title, author, rating) VALUES ($1, $2, $3)
		 RETURNING id, title, author, rating`,
		b.Title, b.Author, b.Rating,
	)
	var out model.Book
	if err := row.Scan(&out.ID, &out.Title, &out.Author, &out.Rating); err != nil {
		return model.Book{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Book{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT id, title, author, rating FROM books WHERE id = $1`, id,
	)
	var out model.Book
	if err := row.Scan(&out.ID, &out.Title, &out.Author, &out.Rating); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, repository.ErrNotFound
		}
		return model.Book{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *bookRepository) UpdateRating(ctx context.Context, id int64, rating *int) (model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Book{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE books SET rating = $2, updated_at = NOW() WHERE id = $1
		 RETURNING id, title, author, rating`,
		id, rating,
	)
	var out model.Book
	if err := row.Scan(&out.ID, &out.Title, &out.Author, &out.Rating); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, repository.ErrNotFound
		}
		return model.Book{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT id, title, author, rating FROM books ORDER BY author, id`,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.Book, 0, 16)
	for rows.Next() {
		var it model.Book
		if err := rows.Scan(&it.ID, &it.Title, &it.Author, &it.Rating); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.BookRepository = (*bookRepository)(nil)
