package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

// triviaService holds question, category and quiz use cases.
type triviaService struct {
	questions  repository.QuestionRepository
	categories repository.CategoryRepository
	tx         repository.TxManager
	perPage    int
	intn       func(n int) int
	log        zerolog.Logger
}

// TriviaOption customizes a trivia service.
type TriviaOption func(*triviaService)

// WithIntn replaces the random source used to pick quiz questions.
func WithIntn(intn func(n int) int) TriviaOption {
	return func(s *triviaService) { s.intn = intn }
}

func NewTriviaService(
	questions repository.QuestionRepository,
	categories repository.CategoryRepository,
	tx repository.TxManager,
	perPage int,
	logger zerolog.Logger,
	opts ...TriviaOption,
) TriviaService {
	s := &triviaService{
		questions:  questions,
		categories: categories,
		tx:         tx,
		perPage:    perPage,
		intn:       rand.IntN,
		log:        logger.With().Str("module", "service").Str("component", "trivia").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *triviaService) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list categories failed")
		return nil, err
	}
	return cats, nil
}

func (s *triviaService) ListQuestions(ctx context.Context, page int) (QuestionListing, error) {
	listing, err := s.listing(ctx, s.questions.List, page, nil)
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Msg("list questions failed")
		return QuestionListing{}, err
	}
	return listing, nil
}

// ListQuestionsByCategory returns ErrNotFound for an unknown category. A known category
// without questions is an empty listing.
func (s *triviaService) ListQuestionsByCategory(ctx context.Context, categoryID int64, page int) (QuestionListing, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if !isNotFound(err) {
			s.log.Error().Err(err).Int64("category_id", categoryID).Msg("get category failed")
		}
		return QuestionListing{}, err
	}
	load := func(ctx context.Context) ([]model.Question, error) {
		return s.questions.ListByCategory(ctx, categoryID)
	}
	listing, err := s.listing(ctx, load, page, &categoryID)
	if err != nil {
		s.log.Error().Err(err).Int64("category_id", categoryID).Msg("list questions by category failed")
		return QuestionListing{}, err
	}
	return listing, nil
}

// SearchQuestions matches term as a case-insensitive substring of the question text.
// An empty term matches every question.
func (s *triviaService) SearchQuestions(ctx context.Context, term string, page int) (QuestionListing, error) {
	load := func(ctx context.Context) ([]model.Question, error) {
		return s.questions.Search(ctx, term)
	}
	listing, err := s.listing(ctx, load, page, nil)
	if err != nil {
		s.log.Error().Err(err).Str("term", term).Msg("search questions failed")
		return QuestionListing{}, err
	}
	return listing, nil
}

func (s *triviaService) CreateQuestion(ctx context.Context, in NewQuestion, page int) (QuestionResult, error) {
	start := time.Now()
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	if err := validateStruct(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("question validation failed")
		return QuestionResult{}, err
	}

	var res QuestionResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireCategory(ctx, in.Category); err != nil {
			return err
		}
		created, err := s.questions.Create(ctx, model.Question{
			Question:   in.Question,
			Answer:     in.Answer,
			Category:   in.Category,
			Difficulty: in.Difficulty,
		})
		if err != nil {
			return err
		}
		listing, err := s.listing(ctx, s.questions.List, page, nil)
		if err != nil {
			return err
		}
		res = QuestionResult{Question: created, Listing: listing}
		return nil
	})
	if err != nil {
		s.logFailure(err, 0, "create question failed")
		return QuestionResult{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("question_id", res.Question.ID).Msg("question created")
	return res, nil
}

// UpdateQuestion replaces the fields set in patch. Identity is never part of a patch, and an
// empty patch leaves the question unchanged. The question is looked up before the patch is
// validated, so a missing id is ErrNotFound whatever the payload.
func (s *triviaService) UpdateQuestion(ctx context.Context, id int64, patch model.QuestionPatch, page int) (QuestionResult, error) {
	var res QuestionResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		question, err := s.questions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !patch.Empty() {
			if err := validatePatch(&patch); err != nil {
				return err
			}
			if patch.Category != nil {
				if err := s.requireCategory(ctx, *patch.Category); err != nil {
					return err
				}
			}
			if question, err = s.questions.Update(ctx, patch.Apply(question)); err != nil {
				return err
			}
		}
		listing, err := s.listing(ctx, s.questions.List, page, nil)
		if err != nil {
			return err
		}
		res = QuestionResult{Question: question, Listing: listing}
		return nil
	})
	if err != nil {
		s.logFailure(err, id, "update question failed")
		return QuestionResult{}, err
	}
	s.log.Info().Int64("question_id", id).Bool("changed", !patch.Empty()).Msg("question updated")
	return res, nil
}

func (s *triviaService) DeleteQuestion(ctx context.Context, id int64, page int) (QuestionResult, error) {
	var res QuestionResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.questions.Delete(ctx, id); err != nil {
			return err
		}
		listing, err := s.listing(ctx, s.questions.List, page, nil)
		if err != nil {
			return err
		}
		res = QuestionResult{Question: model.Question{ID: id}, Listing: listing}
		return nil
	})
	if err != nil {
		s.logFailure(err, id, "delete question failed")
		return QuestionResult{}, err
	}
	s.log.Info().Int64("question_id", id).Msg("question deleted")
	return res, nil
}

func (s *triviaService) NextQuizQuestion(ctx context.Context, categoryID int64, previous []int64) (*model.Question, error) {
	var (
		pool []model.Question
		err  error
	)
	if categoryID == 0 {
		pool, err = s.questions.List(ctx)
	} else {
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
		pool, err = s.questions.ListByCategory(ctx, categoryID)
	}
	if err != nil {
		s.log.Error().Err(err).Int64("category_id", categoryID).Msg("load quiz questions failed")
		return nil, err
	}

	remaining := paging.Filter(pool, func(q model.Question) bool {
		return !slices.Contains(previous, q.ID)
	})
	if len(remaining) == 0 {
		s.log.Debug().Int64("category_id", categoryID).Int("asked", len(previous)).Msg("quiz exhausted")
		return nil, nil
	}
	picked := remaining[s.intn(len(remaining))]
	return &picked, nil
}

func (s *triviaService) listing(
	ctx context.Context,
	load func(context.Context) ([]model.Question, error),
	page int,
	current *int64,
) (QuestionListing, error) {
	all, err := load(ctx)
	if err != nil {
		return QuestionListing{}, err
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return QuestionListing{}, err
	}
	return QuestionListing{
		Page:            paging.Slice(all, page, s.perPage),
		Categories:      cats,
		CurrentCategory: current,
	}, nil
}

// requireCategory turns an unknown category into a field error of the request body.
func (s *triviaService) requireCategory(ctx context.Context, id int64) error {
	_, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewInvalidInputError(FieldError{Field: "category", Message: "unknown category"})
	}
	return err
}

func (s *triviaService) logFailure(err error, id int64, msg string) {
	ev := s.log.Error()
	if isNotFound(err) || errors.Is(err, ErrInvalidInput) {
		ev = s.log.Debug()
	}
	ev.Err(err).Int64("question_id", id).Msg(msg)
}

// validatePatch trims the text fields and checks every field the patch sets.
func validatePatch(p *model.QuestionPatch) error {
	var fe []FieldError
	if p.Question != nil {
		v := strings.TrimSpace(*p.Question)
		p.Question = &v
		if v == "" {
			fe = append(fe, FieldError{Field: "question", Message: "must not be empty"})
		}
	}
	if p.Answer != nil {
		v := strings.TrimSpace(*p.Answer)
		p.Answer = &v
		if v == "" {
			fe = append(fe, FieldError{Field: "answer", Message: "must not be empty"})
		}
	}
	if p.Category != nil && *p.Category <= 0 {
		fe = append(fe, FieldError{Field: "category", Message: "must be > 0"})
	}
	if p.Difficulty != nil && (*p.Difficulty < 1 || *p.Difficulty > 5) {
		fe = append(fe, FieldError{Field: "difficulty", Message: "must be between 1 and 5"})
	}
	return NewInvalidInputError(fe...)
}
