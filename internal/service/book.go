package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

// bookService holds shelf use-case logic: validation + orchestration, no transport / SQL details.
type bookService struct {
	repo    repository.BookRepository
	tx      repository.TxManager
	perPage int
	log     zerolog.Logger
}

func NewBookService(repo repository.BookRepository, tx repository.TxManager, perPage int, logger zerolog.Logger) BookService {
	l := logger.With().Str("module", "service").Str("component", "book").Logger()
	return &bookService{repo: repo, tx: tx, perPage: perPage, log: l}
}

func (s *bookService) ListBooks(ctx context.Context, page int) (paging.Page[model.Book], error) {
	shelf, err := s.shelf(ctx, page)
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Msg("list books failed")
		return paging.Page[model.Book]{}, err
	}
	return shelf, nil
}

func (s *bookService) CreateBook(ctx context.Context, in NewBook, page int) (BookResult, error) {
	start := time.Now()
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if err := validateStruct(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("book validation failed")
		return BookResult{}, err
	}

	var res BookResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.repo.Create(ctx, model.Book{Title: in.Title, Author: in.Author, Rating: in.Rating})
		if err != nil {
			return err
		}
		shelf, err := s.shelf(ctx, page)
		if err != nil {
			return err
		}
		res = BookResult{Book: created, Shelf: shelf}
		return nil
	})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("title", in.Title).Msg("create book failed")
		return BookResult{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("book_id", res.Book.ID).Msg("book created")
	return res, nil
}

// UpdateRating replaces the rating, the only mutable field of a book. The book is looked up
// first, so a missing id is ErrNotFound whatever the payload. A nil rating leaves the book as is.
func (s *bookService) UpdateRating(ctx context.Context, id int64, rating *int, page int) (BookResult, error) {
	var res BookResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		book, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rating != nil {
			in := struct {
				Rating *int `json:"rating" validate:"min=1,max=5"`
			}{Rating: rating}
			if err := validateStruct(in); err != nil {
				return err
			}
			if book, err = s.repo.UpdateRating(ctx, id, rating); err != nil {
				return err
			}
		}
		shelf, err := s.shelf(ctx, page)
		if err != nil {
			return err
		}
		res = BookResult{Book: book, Shelf: shelf}
		return nil
	})
	if err != nil {
		s.logFailure(err, id, "update rating failed")
		return BookResult{}, err
	}
	if rating == nil {
		s.log.Debug().Int64("book_id", id).Msg("rating update without rating, book unchanged")
		return res, nil
	}
	s.log.Info().Int64("book_id", id).Int("rating", *rating).Msg("book rating updated")
	return res, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int64, page int) (BookResult, error) {
	var res BookResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		shelf, err := s.shelf(ctx, page)
		if err != nil {
			return err
		}
		res = BookResult{Book: model.Book{ID: id}, Shelf: shelf}
		return nil
	})
	if err != nil {
		s.logFailure(err, id, "delete book failed")
		return BookResult{}, err
	}
	s.log.Info().Int64("book_id", id).Msg("book deleted")
	return res, nil
}

func (s *bookService) shelf(ctx context.Context, page int) (paging.Page[model.Book], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return paging.Page[model.Book]{}, err
	}
	return paging.Slice(all, page, s.perPage), nil
}

// logFailure keeps expected lookup misses out of the error log.
func (s *bookService) logFailure(err error, id int64, msg string) {
	ev := s.log.Error()
	if isNotFound(err) || errors.Is(err, ErrInvalidInput) {
		ev = s.log.Debug()
	}
	ev.Err(err).Int64("book_id", id).Msg(msg)
}
