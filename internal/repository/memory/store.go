// Package memory is an in-process backend used for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

// DefaultCategories is the trivia reference set, matching the seed migration.
var DefaultCategories = []model.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

type state struct {
	books          []model.Book
	questions      []model.Question
	nextBookID     int64
	nextQuestionID int64
}

func (s state) clone() state {
	out := s
	out.books = make([]model.Book, len(s.books))
	for i, b := range s.books {
		out.books[i] = copyBook(b)
	}
	out.questions = slices.Clone(s.questions)
	return out
}

// DB holds all collections behind one lock. Transactions are serialized and restore a
// snapshot when fn fails; writes made outside WithinTx during a failing transaction are lost.
type DB struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	st         state
	categories []model.Category
}

func New() *DB {
	return &DB{
		st:         state{nextBookID: 1, nextQuestionID: 1},
		categories: slices.Clone(DefaultCategories),
	}
}

// NewStore returns a repository.Store over a fresh in-memory DB.
func NewStore() repository.Store {
	db := New()
	return repository.Store{
		Books:      &bookRepository{db: db},
		Categories: &categoryRepository{db: db},
		Questions:  &questionRepository{db: db},
		Tx:         &txManager{db: db},
		Pinger:     pinger{},
	}
}

func copyBook(b model.Book) model.Book {
	if b.Rating != nil {
		r := *b.Rating
		b.Rating = &r
	}
	return b
}

type txManager struct{ db *DB }

type txKey struct{}

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	m.db.mu.RLock()
	snapshot := m.db.st.clone()
	m.db.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.db.mu.Lock()
		m.db.st = snapshot
		m.db.mu.Unlock()
		return err
	}
	return nil
}

type pinger struct{}

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

type bookRepository struct{ db *DB }

func (r *bookRepository) Create(_ context.Context, b model.Book) (model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.ID = r.db.st.nextBookID
	r.db.st.nextBookID++
	r.db.st.books = append(r.db.st.books, copyBook(b))
	return copyBook(b), nil
}

func (r *bookRepository) GetByID(_ context.Context, id int64) (model.Book, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	i := r.db.bookIndex(id)
	if i < 0 {
		return model.Book{}, repository.ErrNotFound
	}
	return copyBook(r.db.st.books[i]), nil
}

func (r *bookRepository) UpdateRating(_ context.Context, id int64, rating *int) (model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.db.bookIndex(id)
	if i < 0 {
		return model.Book{}, repository.ErrNotFound
	}
	b := r.db.st.books[i]
	b.Rating = rating
	r.db.st.books[i] = copyBook(b)
	return copyBook(b), nil
}

func (r *bookRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.db.bookIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.db.st.books = slices.Delete(r.db.st.books, i, i+1)
	return nil
}

func (r *bookRepository) List(_ context.Context) ([]model.Book, error) {
	r.db.mu.RLock()
	out := make([]model.Book, 0, len(r.db.st.books))
	for _, b := range r.db.st.books {
		out = append(out, copyBook(b))
	}
	r.db.mu.RUnlock()
	slices.SortFunc(out, func(a, b model.Book) int {
		if c := strings.Compare(a.Author, b.Author); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (db *DB) bookIndex(id int64) int {
	return slices.IndexFunc(db.st.books, func(b model.Book) bool { return b.ID == id })
}

type categoryRepository struct{ db *DB }

func (r *categoryRepository) List(_ context.Context) ([]model.Category, error) {
	return slices.Clone(r.db.categories), nil
}

func (r *categoryRepository) GetByID(_ context.Context, id int64) (model.Category, error) {
	for _, c := range r.db.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, repository.ErrNotFound
}

func (db *DB) hasCategory(id int64) bool {
	return slices.ContainsFunc(db.categories, func(c model.Category) bool { return c.ID == id })
}

type questionRepository struct{ db *DB }

func (r *questionRepository) Create(_ context.Context, q model.Question) (model.Question, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if !r.db.hasCategory(q.Category) {
		return model.Question{}, repository.ErrConflict
	}
	q.ID = r.db.st.nextQuestionID
	r.db.st.nextQuestionID++
	r.db.st.questions = append(r.db.st.questions, q)
	return q, nil
}

func (r *questionRepository) GetByID(_ context.Context, id int64) (model.Question, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	i := r.db.questionIndex(id)
	if i < 0 {
		return model.Question{}, repository.ErrNotFound
	}
	return r.db.st.questions[i], nil
}

func (r *questionRepository) Update(_ context.Context, q model.Question) (model.Question, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.db.questionIndex(q.ID)
	if i < 0 {
		return model.Question{}, repository.ErrNotFound
	}
	if !r.db.hasCategory(q.Category) {
		return model.Question{}, repository.ErrConflict
	}
	r.db.st.questions[i] = q
	return q, nil
}

func (r *questionRepository) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i := r.db.questionIndex(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.db.st.questions = slices.Delete(r.db.st.questions, i, i+1)
	return nil
}

// Questions are appended with increasing ids, so the backing slice is already id-ordered.
func (r *questionRepository) List(_ context.Context) ([]model.Question, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return paging.Filter(r.db.st.questions, func(model.Question) bool { return true }), nil
}

func (r *questionRepository) ListByCategory(_ context.Context, categoryID int64) ([]model.Question, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return paging.Filter(r.db.st.questions, func(q model.Question) bool { return q.Category == categoryID }), nil
}

func (r *questionRepository) Search(_ context.Context, term string) ([]model.Question, error) {
	needle := strings.ToLower(term)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return paging.Filter(r.db.st.questions, func(q model.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (db *DB) questionIndex(id int64) int {
	return slices.IndexFunc(db.st.questions, func(q model.Question) bool { return q.ID == id })
}

var (
	_ repository.BookRepository     = (*bookRepository)(nil)
	_ repository.CategoryRepository = (*categoryRepository)(nil)
	_ repository.QuestionRepository = (*questionRepository)(nil)
	_ repository.TxManager          = (*txManager)(nil)
)
