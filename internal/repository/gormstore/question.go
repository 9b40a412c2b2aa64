package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type questionRepository struct{ db *gorm.DB }

func NewQuestionRepository(db *gorm.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, q model.Question) (model.Question, error) {
	row := fromQuestion(q)
	row.ID = 0
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return model.Question{}, MapGormError(err)
	}
	return row.toModel(), nil
}

func (r *questionRepository) GetByID(ctx context.Context, id int64) (model.Question, error) {
	var row questionRow
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		return model.Question{}, MapGormError(err)
	}
	return row.toModel(), nil
}

func (r *questionRepository) Update(ctx context.Context, q model.Question) (model.Question, error) {
	res := conn(ctx, r.db).Model(&questionRow{}).Where("id = ?", q.ID).Updates(map[string]any{
		"question":   q.Question,
		"answer":     q.Answer,
		"category":   q.Category,
		"difficulty": q.Difficulty,
	})
	if res.Error != nil {
		return model.Question{}, MapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Question{}, repository.ErrNotFound
	}
	return q, nil
}

func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&questionRow{})
	if res.Error != nil {
		return MapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *questionRepository) List(ctx context.Context) ([]model.Question, error) {
	return r.find(conn(ctx, r.db))
}

func (r *questionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Question, error) {
	return r.find(conn(ctx, r.db).Where("category = ?", categoryID))
}

// Search matches literally; strpos has no wildcard characters to escape.
func (r *questionRepository) Search(ctx context.Context, term string) ([]model.Question, error) {
	return r.find(conn(ctx, r.db).Where("strpos(lower(question), lower(?)) > 0", term))
}

func (r *questionRepository) find(q *gorm.DB) ([]model.Question, error) {
	var rows []questionRow
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormError(err)
	}
	out := make([]model.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

var _ repository.QuestionRepository = (*questionRepository)(nil)
