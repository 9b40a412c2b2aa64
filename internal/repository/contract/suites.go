package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

// Factories hand a suite a clean backend. Category-dependent suites expect the six
// reference categories (ids 1..6) to be present.

type BookFactory func(t *testing.T) (repository.BookRepository, func())

type CategoryFactory func(t *testing.T) (repository.CategoryRepository, func())

type QuestionFactory func(t *testing.T) (repository.QuestionRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, books repository.BookRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func intPtr(v int) *int { return &v }

func RunBookRepositoryContract(t *testing.T, makeRepo BookFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Book{Title: "Dune", Author: "Herbert", Rating: intPtr(5)})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == 0 {
			t.Fatalf("expected generated id")
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Title != "Dune" || got.Author != "Herbert" || got.Rating == nil || *got.Rating != 5 {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("create_without_rating", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		created, err := repo.Create(context.Background(), model.Book{Title: "Emma", Author: "Austen"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.Rating != nil {
			t.Fatalf("expected nil rating, got %d", *created.Rating)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_ordered_by_author_then_id", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed := []model.Book{
			{Title: "Persuasion", Author: "Austen"},
			{Title: "Kindred", Author: "Butler"},
			{Title: "Emma", Author: "Austen"},
			{Title: "Ubik", Author: "Dick"},
		}
		for _, b := range seed {
			if _, err := repo.Create(ctx, b); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []string{"Persuasion", "Emma", "Kindred", "Ubik"}
		if len(list) != len(want) {
			t.Fatalf("expected %d books, got %d", len(want), len(list))
		}
		for i, title := range want {
			if list[i].Title != title {
				t.Fatalf("position %d: want %q, got %q", i, title, list[i].Title)
			}
		}
	})

	t.Run("list_empty_ok", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		list, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected empty list, got %d", len(list))
		}
	})

	t.Run("update_rating", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Book{Title: "Beloved", Author: "Morrison", Rating: intPtr(2)})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		updated, err := repo.UpdateRating(ctx, created.ID, intPtr(4))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Rating == nil || *updated.Rating != 4 || updated.Title != "Beloved" {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Rating == nil || *got.Rating != 4 {
			t.Fatalf("rating not persisted: %+v", got)
		}
	})

	t.Run("update_rating_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.UpdateRating(context.Background(), 999999, intPtr(3))
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Book{Title: "Solaris", Author: "Lem"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func RunCategoryRepositoryContract(t *testing.T, makeRepo CategoryFactory) {
	t.Helper()

	t.Run("list_reference_set", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		list, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}
		if len(list) != len(want) {
			t.Fatalf("expected %d categories, got %d", len(want), len(list))
		}
		for i, typ := range want {
			if list[i].ID != int64(i+1) || list[i].Type != typ {
				t.Fatalf("position %d: want %d/%s, got %+v", i, i+1, typ, list[i])
			}
		}
	})

	t.Run("get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		got, err := repo.GetByID(context.Background(), 3)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Type != "Geography" {
			t.Fatalf("unexpected category: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunQuestionRepositoryContract(t *testing.T, makeRepo QuestionFactory) {
	t.Helper()

	seed := func(t *testing.T, repo repository.QuestionRepository) []model.Question {
		t.Helper()
		in := []model.Question{
			{Question: "What is the boiling point of water?", Answer: "100C", Category: 1, Difficulty: 1},
			{Question: "Who painted the Mona Lisa?", Answer: "Da Vinci", Category: 2, Difficulty: 2},
			{Question: "What is the largest ocean?", Answer: "Pacific", Category: 3, Difficulty: 1},
			{Question: "What is the speed of light?", Answer: "c", Category: 1, Difficulty: 4},
		}
		out := make([]model.Question, 0, len(in))
		for _, q := range in {
			created, err := repo.Create(context.Background(), q)
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			out = append(out, created)
		}
		return out
	}

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Question{Question: "Q?", Answer: "A", Category: 6, Difficulty: 3})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != created {
			t.Fatalf("mismatch: %+v vs %+v", got, created)
		}
	})

	t.Run("create_unknown_category_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Question{Question: "Q?", Answer: "A", Category: 999, Difficulty: 1})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_ordered_by_id", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seeded := seed(t, repo)
		list, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != len(seeded) {
			t.Fatalf("expected %d, got %d", len(seeded), len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i-1].ID >= list[i].ID {
				t.Fatalf("list not ordered by id: %+v", list)
			}
		}
	})

	t.Run("list_by_category", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo)
		list, err := repo.ListByCategory(context.Background(), 1)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 science questions, got %d", len(list))
		}
		for _, q := range list {
			if q.Category != 1 {
				t.Fatalf("unexpected category in %+v", q)
			}
		}
		empty, err := repo.ListByCategory(context.Background(), 5)
		if err != nil {
			t.Fatalf("list empty: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("expected no questions, got %d", len(empty))
		}
	})

	t.Run("search_case_insensitive", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		seed(t, repo)
		list, err := repo.Search(context.Background(), "WHAT IS THE")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 matches, got %d", len(list))
		}
		none, err := repo.Search(context.Background(), "100%")
		if err != nil {
			t.Fatalf("search literal: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("expected wildcard characters to match literally, got %d", len(none))
		}
	})

	t.Run("update", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seeded := seed(t, repo)
		q := seeded[1]
		q.Answer = "Leonardo"
		q.Difficulty = 5
		updated, err := repo.Update(ctx, q)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated != q {
			t.Fatalf("mismatch: %+v vs %+v", updated, q)
		}
		missing := q
		missing.ID = 999999
		if _, err := repo.Update(ctx, missing); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seeded := seed(t, repo)
		if err := repo.Delete(ctx, seeded[0].ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, seeded[0].ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != len(seeded)-1 {
			t.Fatalf("expected %d, got %d", len(seeded)-1, len(list))
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, books, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := books.Create(ctx, model.Book{Title: "TxCommit", Author: "Tx"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := books.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, books, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := books.Create(ctx, model.Book{Title: "TxRollback", Author: "Tx"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := books.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("reads_inside_tx_see_own_writes", func(t *testing.T) {
		tx, books, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := books.Create(ctx, model.Book{Title: "Inside", Author: "Tx"}); err != nil {
				return err
			}
			list, err := books.List(ctx)
			if err != nil {
				return err
			}
			if len(list) != 1 {
				t.Errorf("expected 1 book inside tx, got %d", len(list))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
