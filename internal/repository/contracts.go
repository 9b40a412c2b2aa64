package repository

import (
	"context"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution. Repositories called with the ctx handed to fn
// take part in the same transaction, so a write and the re-list that follows it see one snapshot.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// BookRepository declares persistence operations for the shelf.
// List returns every book ordered by author, then id; paging happens above the store.
type BookRepository interface {
	Create(ctx context.Context, b model.Book) (model.Book, error)
	GetByID(ctx context.Context, id int64) (model.Book, error)
	UpdateRating(ctx context.Context, id int64, rating *int) (model.Book, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Book, error)
}

// CategoryRepository reads the trivia category reference set, ordered by id.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (model.Category, error)
}

// QuestionRepository declares persistence operations for trivia questions.
// Every listing is ordered by id.
type QuestionRepository interface {
	Create(ctx context.Context, q model.Question) (model.Question, error)
	GetByID(ctx context.Context, id int64) (model.Question, error)
	// Update replaces the mutable columns of the question identified by q.ID.
	Update(ctx context.Context, q model.Question) (model.Question, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Question, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Question, error)
	// Search matches a case-insensitive substring of the question text.
	Search(ctx context.Context, term string) ([]model.Question, error)
}

// Store bundles one backend's repositories so wiring can swap drivers in one place.
type Store struct {
	Books      BookRepository
	Categories CategoryRepository
	Questions  QuestionRepository
	Tx         TxManager
	Pinger     Pinger
	// Close releases the backend; nil when there is nothing to release.
	Close func()
}
