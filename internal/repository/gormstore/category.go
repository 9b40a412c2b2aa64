package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var rows []categoryRow
	if err := conn(ctx, r.db).Order("id").Find(&rows).Error; err != nil {
		return nil, MapGormError(err)
	}
	out := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Category{ID: row.ID, Type: row.Type})
	}
	return out, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (model.Category, error) {
	var row categoryRow
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		return model.Category{}, MapGormError(err)
	}
	return model.Category{ID: row.ID, Type: row.Type}, nil
}

var _ repository.CategoryRepository = (*categoryRepository)(nil)
