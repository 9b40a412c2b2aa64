package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

const questionColumns = `id, question, answer, category, difficulty`

type questionRepository struct{ pool *pgxpool.Pool }

func NewQuestionRepository(pool *pgxpool.Pool) repository.QuestionRepository {
	return &questionRepository{pool: pool}
}

func scanQuestion(row pgx.Row) (model.Question, error) {
	var out model.Question
	err := row.Scan(&out.ID, &out.Question, &out.Answer, &out.Category, &out.Difficulty)
	return out, err
}

func (r *questionRepository) Create(ctx context.Context, qu model.Question) (model.Question, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Question{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO questions (question, answer, category, difficulty) VALUES ($1, $2, $3, $4)
		 RETURNING `+questionColumns,
		qu.Question, qu.Answer, qu.Category, qu.Difficulty,
	)
	out, err := scanQuestion(row)
	if err != nil {
		return model.Question{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id int64) (model.Question, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Question{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	out, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Question{}, repository.ErrNotFound
		}
		return model.Question{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *questionRepository) Update(ctx context.Context, qu model.Question) (model.Question, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Question{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`UPDATE questions
		 SET question = $2, answer = $3, category = $4, difficulty = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+questionColumns,
		qu.ID, qu.Question, qu.Answer, qu.Category, qu.Difficulty,
	)
	out, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Question{}, repository.ErrNotFound
		}
		return model.Question{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *questionRepository) List(ctx context.Context) ([]model.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions ORDER BY id`)
}

func (r *questionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Question, error) {
	return r.query(ctx, `SELECT `+questionColumns+` FROM questions WHERE category = $1 ORDER BY id`, categoryID)
}

// Search uses strpos instead of ILIKE so '%' and '_' in the term match literally.
func (r *questionRepository) Search(ctx context.Context, term string) ([]model.Question, error) {
	return r.query(ctx,
		`SELECT `+questionColumns+` FROM questions
		 WHERE strpos(lower(question), lower($1)) > 0
		 ORDER BY id`, term)
}

func (r *questionRepository) query(ctx context.Context, sql string, args ...any) ([]model.Question, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.Question, 0, 16)
	for rows.Next() {
		it, err := scanQuestion(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.QuestionRepository = (*questionRepository)(nil)
