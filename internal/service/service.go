// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 422).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error; nil when fe is empty.
func NewInvalidInputError(fe ...FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// NewBook is the create payload of a book. Rating is optional.
type NewBook struct {
	Title  string `json:"title" validate:"required,max=255"`
	Author string `json:"author" validate:"required,max=255"`
	Rating *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

// BookResult carries the book touched by a mutation and the shelf page re-listed after it.
// For deletions only Book.ID is set.
type BookResult struct {
	Book  model.Book
	Shelf paging.Page[model.Book]
}

// BookService defines shelf use cases. Every page argument is a 1-based page number.
type BookService interface {
	ListBooks(ctx context.Context, page int) (paging.Page[model.Book], error)
	CreateBook(ctx context.Context, in NewBook, page int) (BookResult, error)
	UpdateRating(ctx context.Context, id int64, rating *int, page int) (BookResult, error)
	DeleteBook(ctx context.Context, id int64, page int) (BookResult, error)
}

// NewQuestion is the create payload of a trivia question.
type NewQuestion struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Category   int64  `json:"category" validate:"required,gt=0"`
	Difficulty int    `json:"difficulty" validate:"required,min=1,max=5"`
}

// QuestionListing is one page of questions plus the category reference set.
// CurrentCategory is nil for listings not scoped to a category.
type QuestionListing struct {
	Page            paging.Page[model.Question]
	Categories      []model.Category
	CurrentCategory *int64
}

// QuestionResult carries the question touched by a mutation and the listing re-read after it.
type QuestionResult struct {
	Question model.Question
	Listing  QuestionListing
}

// TriviaService defines trivia use cases.
type TriviaService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListQuestions(ctx context.Context, page int) (QuestionListing, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64, page int) (QuestionListing, error)
	SearchQuestions(ctx context.Context, term string, page int) (QuestionListing, error)
	CreateQuestion(ctx context.Context, in NewQuestion, page int) (QuestionResult, error)
	UpdateQuestion(ctx context.Context, id int64, patch model.QuestionPatch, page int) (QuestionResult, error)
	DeleteQuestion(ctx context.Context, id int64, page int) (QuestionResult, error)
	// NextQuizQuestion picks a random question of the category (0 means any) that is not in
	// previous. It returns nil when the category is exhausted.
	NextQuizQuestion(ctx context.Context, categoryID int64, previous []int64) (*model.Question, error)
}
