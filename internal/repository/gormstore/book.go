package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type bookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) repository.BookRepository { return &bookRepository{db: db} }

func (r *bookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	row := bookRow{Title: b.Title, Author: b.Author, Rating: b.Rating}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return model.Book{}, MapGormError(err)
	}
	return row.toModel(), nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (model.Book, error) {
	var row bookRow
	if err := conn(ctx, r.db).Where("id = ?", id).Take(&row).Error; err != nil {
		return model.Book{}, MapGormError(err)
	}
	return row.toModel(), nil
}

func (r *bookRepository) UpdateRating(ctx context.Context, id int64, rating *int) (model.Book, error) {
	res := conn(ctx, r.db).Model(&bookRow{}).Where("id = ?", id).
		Updates(map[string]any{"rating": rating})
	if res.Error != nil {
		return model.Book{}, MapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Book{}, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&bookRow{})
	if res.Error != nil {
		return MapGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context) ([]model.Book, error) {
	var rows []bookRow
	if err := conn(ctx, r.db).Order("author, id").Find(&rows).Error; err != nil {
		return nil, MapGormError(err)
	}
	out := make([]model.Book, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

var _ repository.BookRepository = (*bookRepository)(nil)
