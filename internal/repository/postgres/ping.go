package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/shelf-trivia-service/internal/repository"
)

type pinger struct{ pool *pgxpool.Pool }

// NewPinger adapts pgxpool to the repository.Pinger interface.
func NewPinger(pool *pgxpool.Pool) repository.Pinger { return &pinger{pool: pool} }

func (p *pinger) Ping(ctx context.Context) error {
	if err := ensurePool(p.pool); err != nil {
		return err
	}
	return p.pool.Ping(ctx)
}

// NewStore wires every pgx-backed repository around one pool. Closing the pool stays with
// the owner of repository.Repository.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Books:      NewBookRepository(pool),
		Categories: NewCategoryRepository(pool),
		Questions:  NewQuestionRepository(pool),
		Tx:         NewTxManager(pool),
		Pinger:     NewPinger(pool),
	}
}
