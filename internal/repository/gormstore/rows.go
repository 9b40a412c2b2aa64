package gormstore

import (
	"time"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
)

// Row types map the migrated tables. gorm fills CreatedAt and UpdatedAt itself.

type bookRow struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Title  string `gorm:"type:varchar(255);not null"`
	Author string `gorm:"type:varchar(255);not null"`
	Rating *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (bookRow) TableName() string { return "books" }

func (r bookRow) toModel() model.Book {
	return model.Book{ID: r.ID, Title: r.Title, Author: r.Author, Rating: r.Rating}
}

type categoryRow struct {
	ID   int64 `gorm:"primaryKey"`
	Type string
}

func (categoryRow) TableName() string { return "categories" }

type questionRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	Question   string
	Answer     string
	Category   int64
	Difficulty int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (questionRow) TableName() string { return "questions" }

func (r questionRow) toModel() model.Question {
	return model.Question{ID: r.ID, Question: r.Question, Answer: r.Answer, Category: r.Category, Difficulty: r.Difficulty}
}

func fromQuestion(q model.Question) questionRow {
	return questionRow{ID: q.ID, Question: q.Question, Answer: q.Answer, Category: q.Category, Difficulty: q.Difficulty}
}
