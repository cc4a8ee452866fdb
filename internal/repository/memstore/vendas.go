package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
)

type vendaRepo struct{ s *Store }

func (r vendaRepo) NextNumero(ctx context.Context) (int, error) {
	var n int
	err := r.s.run(ctx, "vendas.next_numero", func(*state) error {
		r.s.db.numero++
		n = r.s.db.numero
		return nil
	})
	return n, err
}

func (r vendaRepo) Create(ctx context.Context, v *model.Venda) error {
	return r.s.run(ctx, "vendas.create", func(st *state) error {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		for _, other := range st.vendas {
			if other.ID == v.ID || other.Numero == v.Numero {
				return apperror.DuplicateKey("venda duplicada")
			}
		}
		row := *v
		row.Itens = nil
		st.vendas[v.ID] = row
		return nil
	})
}

func (st *state) itensDe(vendaID uuid.UUID) []model.ItemVenda {
	var out []model.ItemVenda
	for _, it := range st.itens {
		if it.VendaID == vendaID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return st.itemOrdem[out[i].ID] < st.itemOrdem[out[j].ID] })
	return out
}

func (r vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var out model.Venda
	err := r.s.run(ctx, "vendas.find", func(st *state) error {
		v, ok := st.vendas[id]
		if !ok {
			return apperror.NotFound("venda")
		}
		v.Itens = st.itensDe(id)
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r vendaRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	return r.FindByID(ctx, id)
}

func (r vendaRepo) Update(ctx context.Context, v *model.Venda) error {
	return r.s.run(ctx, "vendas.update", func(st *state) error {
		cur, ok := st.vendas[v.ID]
		if !ok {
			return apperror.NotFound("venda")
		}
		if v.Desconto.IsNegative() || v.Desconto.GreaterThan(v.Total) {
			return apperror.Wrap(apperror.ErrValidation, "restricao violada: chk_vendas_desconto", nil)
		}
		cur.Total = v.Total
		cur.Desconto = v.Desconto
		cur.ValorPago = v.ValorPago
		cur.Troco = v.Troco
		cur.Processada = v.Processada
		cur.FinalizadaEm = v.FinalizadaEm
		cur.DevolvidaEm = v.DevolvidaEm
		cur.Observacoes = v.Observacoes
		st.vendas[v.ID] = cur
		return nil
	})
}

func (r vendaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.run(ctx, "vendas.delete", func(st *state) error {
		if _, ok := st.vendas[id]; !ok {
			return apperror.NotFound("venda")
		}
		for itemID, it := range st.itens {
			if it.VendaID == id {
				delete(st.itens, itemID)
				delete(st.itemOrdem, itemID)
			}
		}
		delete(st.vendas, id)
		return nil
	})
}

func (r vendaRepo) CreateItem(ctx context.Context, item *model.ItemVenda) error {
	return r.s.run(ctx, "vendas.create_item", func(st *state) error {
		if _, ok := st.vendas[item.VendaID]; !ok {
			return apperror.NotFound("venda")
		}
		if item.Quantidade <= 0 {
			return apperror.Wrap(apperror.ErrValidation, "restricao violada: chk_itens_venda_quantidade", nil)
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		stamp(&item.CreatedAt)
		st.seq++
		st.itens[item.ID] = *item
		st.itemOrdem[item.ID] = st.seq
		return nil
	})
}

func (r vendaRepo) UpdateItem(ctx context.Context, item *model.ItemVenda) error {
	return r.s.run(ctx, "vendas.update_item", func(st *state) error {
		cur, ok := st.itens[item.ID]
		if !ok {
			return apperror.NotFound("item")
		}
		if item.Quantidade <= 0 {
			return apperror.Wrap(apperror.ErrValidation, "restricao violada: chk_itens_venda_quantidade", nil)
		}
		cur.Quantidade = item.Quantidade
		cur.Subtotal = item.Subtotal
		st.itens[item.ID] = cur
		return nil
	})
}

func (r vendaRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.s.run(ctx, "vendas.delete_item", func(st *state) error {
		if _, ok := st.itens[id]; !ok {
			return apperror.NotFound("item")
		}
		delete(st.itens, id)
		delete(st.itemOrdem, id)
		return nil
	})
}

func (r vendaRepo) ListFinalizadas(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	var out []model.Venda
	err := r.s.run(ctx, "vendas.list", func(st *state) error {
		for id, v := range st.vendas {
			if !v.Processada || v.FinalizadaEm == nil {
				continue
			}
			if v.FinalizadaEm.Before(inicio) || v.FinalizadaEm.After(fim) {
				continue
			}
			v.Itens = st.itensDe(id)
			out = append(out, v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].FinalizadaEm, out[j].FinalizadaEm
		if !a.Equal(*b) {
			return a.After(*b)
		}
		return out[i].Numero > out[j].Numero
	})
	return out, err
}
