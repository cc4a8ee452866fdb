package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Store is the unit of work handed to the services. Repositories obtained from
// the Store passed to WithTx's callback share that transaction.
type Store interface {
	Produtos() ProdutoRepository
	Vendas() VendaRepository
	Transacoes() TransacaoRepository
	Fechamentos() FechamentoRepository
	Movimentos() MovimentoEstoqueRepository

	// WithTx runs fn atomically: either every write made through tx commits or
	// none does. Implementations may run fn more than once when the backend
	// reports a serialization conflict, so fn must not have side effects
	// outside tx.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct{ db *gorm.DB }

// NewGormStore returns a Store backed by PostgreSQL through GORM.
func NewGormStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Produtos() ProdutoRepository { return NewProdutoRepository(s.db) }
func (s *gormStore) Vendas() VendaRepository { return NewVendaRepository(s.db) }
func (s *gormStore) Transacoes() TransacaoRepository { return NewTransacaoRepository(s.db) }
func (s *gormStore) Fechamentos() FechamentoRepository { return NewFechamentoRepository(s.db) }
func (s *gormStore) Movimentos() MovimentoEstoqueRepository { return NewMovimentoEstoqueRepository(s.db) }

var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormStore{db: tx})
		}, serializableTx)
	})
}

var retryDelays = []time.Duration{50 * time.Millisecond, 150 * time.Millisecond, 400 * time.Millisecond}

// withRetry re-runs fn from the start when PostgreSQL aborts it with a
// serialization failure or a deadlock. Any other error is returned as is.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isRetryable(err) || attempt >= len(retryDelays) {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacao abortada por conflito, repetindo")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
	}
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}
