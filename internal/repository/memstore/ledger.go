package memstore

import (
	"context"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
)

type transacaoRepo struct{ s *Store }

func (r transacaoRepo) Create(ctx context.Context, t *model.Transacao) error {
	return r.s.run(ctx, "transacoes.create", func(st *state) error {
		if !t.Valor.IsPositive() {
			return apperror.Wrap(apperror.ErrValidation, "restricao violada: chk_transacoes_valor", nil)
		}
		if utf8.RuneCountInString(t.Descricao) > model.MaxDescricao {
			return apperror.Wrap(apperror.ErrValidation, "valor longo demais para transacoes.descricao", nil)
		}
		if t.VendaID != nil && (t.Categoria == model.CategoriaVenda || t.Categoria == model.CategoriaDevolucao) {
			for _, other := range st.transacoes {
				if other.VendaID != nil && *other.VendaID == *t.VendaID && other.Categoria == t.Categoria {
					return apperror.DuplicateKey("a venda ja possui lancamento desta categoria")
				}
			}
		}
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		stamp(&t.CreatedAt)
		st.transacoes = append(st.transacoes, *t)
		return nil
	})
}

// List walks rows from the most recently inserted one; the stable sort on the
// timestamp then keeps that order for ties.
func (r transacaoRepo) List(ctx context.Context, inicio, fim time.Time) ([]model.Transacao, error) {
	var out []model.Transacao
	err := r.s.run(ctx, "transacoes.list", func(st *state) error {
		for i := len(st.transacoes) - 1; i >= 0; i-- {
			t := st.transacoes[i]
			if t.DataTransacao.Before(inicio) || t.DataTransacao.After(fim) {
				continue
			}
			out = append(out, t)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].DataTransacao.After(out[j].DataTransacao) })
	return out, err
}

func (r transacaoRepo) FindByVenda(ctx context.Context, vendaID uuid.UUID) ([]model.Transacao, error) {
	var out []model.Transacao
	err := r.s.run(ctx, "transacoes.find", func(st *state) error {
		for _, t := range st.transacoes {
			if t.VendaID != nil && *t.VendaID == vendaID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}

type fechamentoRepo struct{ s *Store }

func (r fechamentoRepo) Create(ctx context.Context, f *model.Fechamento) error {
	return r.s.run(ctx, "fechamentos.create", func(st *state) error {
		key := f.Data.Format(model.DataLayout)
		if _, ok := st.fechamentos[key]; ok {
			return apperror.DuplicateKey("ja existe fechamento para esta data")
		}
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		stamp(&f.CreatedAt)
		st.fechamentos[key] = *f
		return nil
	})
}

func (r fechamentoRepo) FindByData(ctx context.Context, data time.Time) (*model.Fechamento, error) {
	var out model.Fechamento
	err := r.s.run(ctx, "fechamentos.find", func(st *state) error {
		f, ok := st.fechamentos[data.Format(model.DataLayout)]
		if !ok {
			return apperror.NotFound("fechamento")
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r fechamentoRepo) List(ctx context.Context, filter repository.FechamentoFilter) ([]model.Fechamento, error) {
	var out []model.Fechamento
	err := r.s.run(ctx, "fechamentos.list", func(st *state) error {
		for key, f := range st.fechamentos {
			if filter.Inicio != nil && key < filter.Inicio.Format(model.DataLayout) {
				continue
			}
			if filter.Fim != nil && key > filter.Fim.Format(model.DataLayout) {
				continue
			}
			out = append(out, f)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Data.Format(model.DataLayout) > out[j].Data.Format(model.DataLayout)
	})
	return out, err
}

func (r fechamentoRepo) Exists(ctx context.Context, data time.Time) (bool, error) {
	var ok bool
	err := r.s.run(ctx, "fechamentos.exists", func(st *state) error {
		_, ok = st.fechamentos[data.Format(model.DataLayout)]
		return nil
	})
	return ok, err
}

type movimentoRepo struct{ s *Store }

func (r movimentoRepo) Create(ctx context.Context, m *model.MovimentoEstoque) error {
	return r.s.run(ctx, "movimentos.create", func(st *state) error {
		if _, ok := st.produtos[m.ProdutoID]; !ok {
			return apperror.NotFound("produto")
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		stamp(&m.CreatedAt)
		st.movimentos = append(st.movimentos, *m)
		return nil
	})
}

func (r movimentoRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var out []model.MovimentoEstoque
	err := r.s.run(ctx, "movimentos.list", func(st *state) error {
		for i := len(st.movimentos) - 1; i >= 0 && len(out) < limit; i-- {
			if st.movimentos[i].ProdutoID == produtoID {
				out = append(out, st.movimentos[i])
			}
		}
		return nil
	})
	return out, err
}
