package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
	"github.com/maxviazov/shelf-trivia-service/internal/repository/memory"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
)

func newBookService(t *testing.T) (service.BookService, repository.Store) {
	t.Helper()
	store := memory.NewStore()
	return service.NewBookService(store.Books, store.Tx, 8, zerolog.New(io.Discard)), store
}

func intPtr(v int) *int { return &v }

func seedBooks(t *testing.T, svc service.BookService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.CreateBook(context.Background(), service.NewBook{
			Title:  fmt.Sprintf("Book %d", i),
			Author: fmt.Sprintf("Author %02d", i),
		}, 1)
		require.NoError(t, err)
	}
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	svc, _ := newBookService(t)

	cases := []struct {
		name      string
		input     service.NewBook
		wantField string
	}{
		{"empty title", service.NewBook{Title: "", Author: "Austen"}, "title"},
		{"spaces author", service.NewBook{Title: "Emma", Author: "   "}, "author"},
		{"long title", service.NewBook{Title: strings.Repeat("x", 256), Author: "A"}, "title"},
		{"rating too high", service.NewBook{Title: "Emma", Author: "Austen", Rating: intPtr(6)}, "rating"},
		{"rating zero", service.NewBook{Title: "Emma", Author: "Austen", Rating: intPtr(0)}, "rating"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBook(context.Background(), tc.input, 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			fes := service.FieldErrors(err)
			require.NotEmpty(t, fes)
			assert.Equal(t, tc.wantField, fes[0].Field)
		})
	}
}

func TestBookService_CreateBook_ReturnsCreatedAndShelf(t *testing.T) {
	svc, _ := newBookService(t)
	ctx := context.Background()

	res, err := svc.CreateBook(ctx, service.NewBook{Title: "  Emma ", Author: "Austen", Rating: intPtr(4)}, 1)
	require.NoError(t, err)
	assert.NotZero(t, res.Book.ID)
	assert.Equal(t, "Emma", res.Book.Title)
	assert.Equal(t, 1, res.Shelf.Total)
	require.Len(t, res.Shelf.Items, 1)
	assert.Equal(t, res.Book.ID, res.Shelf.Items[0].ID)
}

func TestBookService_CreateBook_WithoutRatingStoresNull(t *testing.T) {
	svc, _ := newBookService(t)
	res, err := svc.CreateBook(context.Background(), service.NewBook{Title: "Emma", Author: "Austen"}, 1)
	require.NoError(t, err)
	assert.Nil(t, res.Book.Rating)
}

func TestBookService_ListBooks_Pagination(t *testing.T) {
	svc, _ := newBookService(t)
	seedBooks(t, svc, 9)
	ctx := context.Background()

	first, err := svc.ListBooks(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Items, 8)
	assert.Equal(t, 9, first.Total)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrev())

	second, err := svc.ListBooks(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
	assert.False(t, second.HasNext())
	assert.True(t, second.HasPrev())

	beyond, err := svc.ListBooks(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 9, beyond.Total)
}

func TestBookService_ListBooks_OrderedByAuthor(t *testing.T) {
	svc, _ := newBookService(t)
	ctx := context.Background()
	for _, b := range []service.NewBook{
		{Title: "Ubik", Author: "Dick"},
		{Title: "Emma", Author: "Austen"},
		{Title: "Kindred", Author: "Butler"},
	} {
		_, err := svc.CreateBook(ctx, b, 1)
		require.NoError(t, err)
	}
	page, err := svc.ListBooks(ctx, 1)
	require.NoError(t, err)
	got := make([]string, 0, len(page.Items))
	for _, b := range page.Items {
		got = append(got, b.Author)
	}
	assert.Equal(t, []string{"Austen", "Butler", "Dick"}, got)
}

func TestBookService_UpdateRating(t *testing.T) {
	svc, _ := newBookService(t)
	ctx := context.Background()
	created, err := svc.CreateBook(ctx, service.NewBook{Title: "Emma", Author: "Austen"}, 1)
	require.NoError(t, err)

	res, err := svc.UpdateRating(ctx, created.Book.ID, intPtr(5), 1)
	require.NoError(t, err)
	require.NotNil(t, res.Book.Rating)
	assert.Equal(t, 5, *res.Book.Rating)
	require.Len(t, res.Shelf.Items, 1)
	assert.Equal(t, 5, *res.Shelf.Items[0].Rating)

	_, err = svc.UpdateRating(ctx, created.Book.ID, intPtr(9), 1)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.UpdateRating(ctx, 999, intPtr(3), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookService_UpdateRating_WithoutRatingIsNoop(t *testing.T) {
	svc, _ := newBookService(t)
	ctx := context.Background()
	created, err := svc.CreateBook(ctx, service.NewBook{Title: "Emma", Author: "Austen", Rating: intPtr(2)}, 1)
	require.NoError(t, err)

	res, err := svc.UpdateRating(ctx, created.Book.ID, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, created.Book, res.Book)
	require.Len(t, res.Shelf.Items, 1)
	assert.Equal(t, 2, *res.Shelf.Items[0].Rating)
}

func TestBookService_UpdateRating_MissingBookBeforeValidation(t *testing.T) {
	svc, _ := newBookService(t)

	_, err := svc.UpdateRating(context.Background(), 999, intPtr(9), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.UpdateRating(context.Background(), 999, nil, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBookService_DeleteBook(t *testing.T) {
	svc, _ := newBookService(t)
	seedBooks(t, svc, 3)
	ctx := context.Background()

	page, err := svc.ListBooks(ctx, 1)
	require.NoError(t, err)
	victim := page.Items[0].ID

	res, err := svc.DeleteBook(ctx, victim, 1)
	require.NoError(t, err)
	assert.Equal(t, victim, res.Book.ID)
	assert.Equal(t, 2, res.Shelf.Total)

	_, err = svc.DeleteBook(ctx, victim, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

type failingBookRepo struct {
	repository.BookRepository
	listErr error
}

func (f *failingBookRepo) List(context.Context) ([]model.Book, error) { return nil, f.listErr }

func TestBookService_CreateBook_RollsBackWhenRelistFails(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("list exploded")
	repo := &failingBookRepo{BookRepository: store.Books, listErr: boom}
	svc := service.NewBookService(repo, store.Tx, 8, zerolog.New(io.Discard))

	_, err := svc.CreateBook(context.Background(), service.NewBook{Title: "Emma", Author: "Austen"}, 1)
	require.ErrorIs(t, err, boom)

	all, err := store.Books.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "create must not survive a failed re-list")
}
