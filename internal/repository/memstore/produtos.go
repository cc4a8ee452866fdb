package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type produtoRepo struct{ s *Store }

func checkProdutoUnico(st *state, p *model.Produto) error {
	for id, other := range st.produtos {
		if id == p.ID {
			continue
		}
		if other.Codigo == p.Codigo {
			return apperror.DuplicateKey("ja existe um produto com este codigo")
		}
		if other.Nome == p.Nome {
			return apperror.DuplicateKey("ja existe um produto com este nome")
		}
	}
	return nil
}

func (r produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.s.run(ctx, "produtos.create", func(st *state) error {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if _, ok := st.produtos[p.ID]; ok {
			return apperror.DuplicateKey("produto duplicado")
		}
		if err := checkProdutoUnico(st, p); err != nil {
			return err
		}
		if p.Estoque < 0 {
			return apperror.Wrap(apperror.ErrInvalidStock, "estoque nao pode ficar negativo", nil)
		}
		stamp(&p.CreatedAt)
		stamp(&p.UpdatedAt)
		st.produtos[p.ID] = *p
		return nil
	})
}

func (r produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.s.run(ctx, "produtos.update", func(st *state) error {
		cur, ok := st.produtos[p.ID]
		if !ok {
			return apperror.NotFound("produto")
		}
		if err := checkProdutoUnico(st, p); err != nil {
			return err
		}
		cur.Codigo = p.Codigo
		cur.Nome = p.Nome
		cur.Descricao = p.Descricao
		cur.PrecoCusto = p.PrecoCusto
		cur.PrecoVenda = p.PrecoVenda
		cur.Ativo = p.Ativo
		cur.UpdatedAt = p.UpdatedAt
		st.produtos[p.ID] = cur
		return nil
	})
}

func (r produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var out model.Produto
	err := r.s.run(ctx, "produtos.find", func(st *state) error {
		p, ok := st.produtos[id]
		if !ok {
			return apperror.NotFound("produto")
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByIDForUpdate needs no extra locking: transactions already run one at a time.
func (r produtoRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	return r.FindByID(ctx, id)
}

func (r produtoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var out *model.Produto
	err := r.s.run(ctx, "produtos.find", func(st *state) error {
		for _, p := range st.produtos {
			if p.Codigo == codigo {
				out = &p
				return nil
			}
		}
		return apperror.NotFound("produto")
	})
	return out, err
}

func (r produtoRepo) Search(ctx context.Context, filter repository.ProdutoFilter) ([]model.Produto, error) {
	termo := strings.ToLower(strings.TrimSpace(filter.Termo))
	var out []model.Produto
	err := r.s.run(ctx, "produtos.search", func(st *state) error {
		for _, p := range st.produtos {
			if !p.Ativo && !filter.IncluirInativos {
				continue
			}
			if termo != "" &&
				!strings.Contains(strings.ToLower(p.Nome), termo) &&
				!strings.Contains(strings.ToLower(p.Codigo), termo) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Nome != out[j].Nome {
			return out[i].Nome < out[j].Nome
		}
		return out[i].Codigo < out[j].Codigo
	})
	return out, err
}

func (r produtoRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.s.run(ctx, "produtos.adjust_stock", func(st *state) error {
		p, ok := st.produtos[id]
		if !ok || p.Estoque+delta < 0 {
			return apperror.Wrap(apperror.ErrInvalidStock, "ajuste de estoque rejeitado", nil)
		}
		p.Estoque += delta
		st.produtos[id] = p
		return nil
	})
}

func (r produtoRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	return r.s.run(ctx, "produtos.set_ativo", func(st *state) error {
		p, ok := st.produtos[id]
		if !ok {
			return apperror.NotFound("produto")
		}
		p.Ativo = ativo
		st.produtos[id] = p
		return nil
	})
}

func (r produtoRepo) ValorEstoque(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.s.run(ctx, "produtos.valor_estoque", func(st *state) error {
		for _, p := range st.produtos {
			if p.Ativo {
				total = total.Add(p.PrecoCusto.Mul(decimal.NewFromInt(int64(p.Estoque))))
			}
		}
		return nil
	})
	return total, err
}
