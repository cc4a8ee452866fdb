// Package memstore is an in-memory repository.Store. A transaction works on a
// private copy of the data and holds the store's writer lock until it ends, so
// transactions are serial and a failed one leaves nothing behind.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
)

type database struct {
	mu     sync.Mutex
	state  *state
	numero int // outside state: numbers survive rollbacks, like a sequence
	faults map[string]error
}

type state struct {
	produtos    map[uuid.UUID]model.Produto
	vendas      map[uuid.UUID]model.Venda
	itens       map[uuid.UUID]model.ItemVenda
	itemOrdem   map[uuid.UUID]int64
	seq         int64
	transacoes  []model.Transacao
	fechamentos map[string]model.Fechamento
	movimentos  []model.MovimentoEstoque
}

func newState() *state {
	return &state{
		produtos:    make(map[uuid.UUID]model.Produto),
		vendas:      make(map[uuid.UUID]model.Venda),
		itens:       make(map[uuid.UUID]model.ItemVenda),
		itemOrdem:   make(map[uuid.UUID]int64),
		fechamentos: make(map[string]model.Fechamento),
	}
}

func (s *state) clone() *state {
	c := &state{
		produtos:    make(map[uuid.UUID]model.Produto, len(s.produtos)),
		vendas:      make(map[uuid.UUID]model.Venda, len(s.vendas)),
		itens:       make(map[uuid.UUID]model.ItemVenda, len(s.itens)),
		itemOrdem:   make(map[uuid.UUID]int64, len(s.itemOrdem)),
		seq:         s.seq,
		transacoes:  append([]model.Transacao(nil), s.transacoes...),
		fechamentos: make(map[string]model.Fechamento, len(s.fechamentos)),
		movimentos:  append([]model.MovimentoEstoque(nil), s.movimentos...),
	}
	for k, v := range s.produtos {
		c.produtos[k] = v
	}
	for k, v := range s.vendas {
		c.vendas[k] = v
	}
	for k, v := range s.itens {
		c.itens[k] = v
	}
	for k, v := range s.itemOrdem {
		c.itemOrdem[k] = v
	}
	for k, v := range s.fechamentos {
		c.fechamentos[k] = v
	}
	return c
}

// Store implements repository.Store.
type Store struct {
	db *database
	tx *state // set inside WithTx
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{db: &database{state: newState(), faults: make(map[string]error)}}
}

func (s *Store) Produtos() repository.ProdutoRepository { return produtoRepo{s} }
func (s *Store) Vendas() repository.VendaRepository { return vendaRepo{s} }
func (s *Store) Transacoes() repository.TransacaoRepository { return transacaoRepo{s} }
func (s *Store) Fechamentos() repository.FechamentoRepository { return fechamentoRepo{s} }
func (s *Store) Movimentos() repository.MovimentoEstoqueRepository { return movimentoRepo{s} }

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	work := s.db.state.clone()
	if err := fn(&Store{db: s.db, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.state = work
	return nil
}

// FailOn makes every call to op (e.g. "transacoes.create") return err until
// ClearFaults is called.
func (s *Store) FailOn(op string, err error) {
	s.db.mu.Lock()
	s.db.faults[op] = err
	s.db.mu.Unlock()
}

func (s *Store) ClearFaults() {
	s.db.mu.Lock()
	s.db.faults = make(map[string]error)
	s.db.mu.Unlock()
}

// run applies fn to the transaction's copy, or to the committed data under
// the writer lock when called outside a transaction.
func (s *Store) run(ctx context.Context, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		if err := s.db.faults[op]; err != nil {
			return err
		}
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.faults[op]; err != nil {
		return err
	}
	return fn(s.db.state)
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}
