package service

import (
	"context"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// VendaService manages the open cart of a sale until checkout.
// Every mutation recomputes the running total from the lines.
type VendaService interface {
	Abrir(ctx context.Context, req dto.AbrirVendaRequest) (*dto.CarrinhoResponse, error)
	AdicionarItem(ctx context.Context, vendaID uuid.UUID, req dto.AdicionarItemRequest) (*dto.CarrinhoResponse, error)
	RemoverItem(ctx context.Context, vendaID, itemID uuid.UUID) (*dto.CarrinhoResponse, error)
	// DefinirQuantidade replaces a line's quantity; zero removes the line.
	DefinirQuantidade(ctx context.Context, vendaID, itemID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error)
	AplicarDesconto(ctx context.Context, vendaID uuid.UUID, valor decimal.Decimal) (*dto.CarrinhoResponse, error)
	// Cancelar discards an unfinalized sale and its lines.
	Cancelar(ctx context.Context, vendaID uuid.UUID) error
	ObterCarrinho(ctx context.Context, vendaID uuid.UUID) (*dto.CarrinhoResponse, error)
}

type vendaService struct {
	store repository.Store
	clock clock.Clock
}

func NewVendaService(store repository.Store, clk clock.Clock) VendaService {
	return &vendaService{store: store, clock: clk}
}

// calcularTotal sums the line subtotals, refreshing each one first.
func calcularTotal(itens []model.ItemVenda) decimal.Decimal {
	total := decimal.Zero
	for i := range itens {
		itens[i].Recalcular()
		total = total.Add(itens[i].Subtotal)
	}
	return total
}

func (s *vendaService) Abrir(ctx context.Context, req dto.AbrirVendaRequest) (*dto.CarrinhoResponse, error) {
	if !model.FormaPagamentoValida(req.FormaPagamento) {
		return nil, apperror.ValidationFields(map[string]string{"forma_pagamento": "forma de pagamento invalida"})
	}
	var v *model.Venda
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		numero, err := tx.Vendas().NextNumero(ctx)
		if err != nil {
			return err
		}
		v = &model.Venda{
			ID:             uuid.New(),
			Numero:         numero,
			FormaPagamento: req.FormaPagamento,
			Observacoes:    req.Observacoes,
			Total:          decimal.Zero,
			Desconto:       decimal.Zero,
			ValorPago:      decimal.Zero,
			Troco:          decimal.Zero,
			DataHora:       s.clock.Now(),
		}
		return tx.Vendas().Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("venda_id", v.ID.String()).Int("numero", v.Numero).Msg("venda iniciada")
	return carrinhoToResponse(v), nil
}

// mutar locks the open sale, runs fn, then reloads the lines and saves the
// recomputed totals. Header changes fn makes on v are kept.
func (s *vendaService) mutar(ctx context.Context, vendaID uuid.UUID, fn func(tx repository.Store, v *model.Venda) error) (*dto.CarrinhoResponse, error) {
	var resp *dto.CarrinhoResponse
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vendas().FindByIDForUpdate(ctx, vendaID)
		if err != nil {
			return err
		}
		if v.Processada {
			return apperror.InvalidState("venda ja finalizada")
		}
		if err := fn(tx, v); err != nil {
			return err
		}
		atual, err := tx.Vendas().FindByID(ctx, vendaID)
		if err != nil {
			return err
		}
		v.Itens = atual.Itens
		v.Total = calcularTotal(v.Itens)
		if v.Desconto.GreaterThan(v.Total) {
			v.Desconto = v.Total
		}
		if err := tx.Vendas().Update(ctx, v); err != nil {
			return err
		}
		resp = carrinhoToResponse(v)
		return nil
	})
	return resp, err
}

func (s *vendaService) AdicionarItem(ctx context.Context, vendaID uuid.UUID, req dto.AdicionarItemRequest) (*dto.CarrinhoResponse, error) {
	if req.Quantidade <= 0 {
		return nil, apperror.ValidationFields(map[string]string{"quantidade": "deve ser maior que zero"})
	}
	if (req.ProdutoID == nil) == (req.Codigo == nil) {
		return nil, apperror.Validation("informe produto_id ou codigo")
	}
	var produtoID uuid.UUID
	if req.ProdutoID != nil {
		id, err := uuid.Parse(*req.ProdutoID)
		if err != nil {
			return nil, apperror.ValidationFields(map[string]string{"produto_id": "uuid invalido"})
		}
		produtoID = id
	}

	return s.mutar(ctx, vendaID, func(tx repository.Store, v *model.Venda) error {
		var (
			p   *model.Produto
			err error
		)
		if req.Codigo != nil {
			p, err = tx.Produtos().FindByCodigo(ctx, *req.Codigo)
		} else {
			p, err = tx.Produtos().FindByID(ctx, produtoID)
		}
		if err != nil {
			return err
		}
		if !p.Ativo {
			return apperror.InvalidState("produto " + p.Nome + " esta inativo")
		}

		for i := range v.Itens {
			it := &v.Itens[i]
			if it.ProdutoID != p.ID {
				continue
			}
			nova := it.Quantidade + req.Quantidade
			if nova > p.Estoque {
				return apperror.InsufficientStock(p.Nome, p.Estoque, nova)
			}
			it.Quantidade = nova
			it.Recalcular()
			return tx.Vendas().UpdateItem(ctx, it)
		}

		if req.Quantidade > p.Estoque {
			return apperror.InsufficientStock(p.Nome, p.Estoque, req.Quantidade)
		}
		it := &model.ItemVenda{
			ID:            uuid.New(),
			VendaID:       v.ID,
			ProdutoID:     p.ID,
			CodigoProduto: p.Codigo,
			NomeProduto:   p.Nome,
			PrecoUnitario: p.PrecoVenda,
			Quantidade:    req.Quantidade,
			CreatedAt:     s.clock.Now(),
		}
		it.Recalcular()
		return tx.Vendas().CreateItem(ctx, it)
	})
}

func findItem(v *model.Venda, itemID uuid.UUID) (*model.ItemVenda, error) {
	for i := range v.Itens {
		if v.Itens[i].ID == itemID {
			return &v.Itens[i], nil
		}
	}
	return nil, apperror.NotFound("item")
}

func (s *vendaService) RemoverItem(ctx context.Context, vendaID, itemID uuid.UUID) (*dto.CarrinhoResponse, error) {
	return s.mutar(ctx, vendaID, func(tx repository.Store, v *model.Venda) error {
		if _, err := findItem(v, itemID); err != nil {
			return err
		}
		return tx.Vendas().DeleteItem(ctx, itemID)
	})
}

func (s *vendaService) DefinirQuantidade(ctx context.Context, vendaID, itemID uuid.UUID, quantidade int) (*dto.CarrinhoResponse, error) {
	if quantidade < 0 {
		return nil, apperror.ValidationFields(map[string]string{"quantidade": "nao pode ser negativa"})
	}
	return s.mutar(ctx, vendaID, func(tx repository.Store, v *model.Venda) error {
		it, err := findItem(v, itemID)
		if err != nil {
			return err
		}
		if quantidade == 0 {
			return tx.Vendas().DeleteItem(ctx, itemID)
		}
		p, err := tx.Produtos().FindByID(ctx, it.ProdutoID)
		if err != nil {
			return err
		}
		if quantidade > p.Estoque {
			return apperror.InsufficientStock(p.Nome, p.Estoque, quantidade)
		}
		it.Quantidade = quantidade
		it.Recalcular()
		return tx.Vendas().UpdateItem(ctx, it)
	})
}

func (s *vendaService) AplicarDesconto(ctx context.Context, vendaID uuid.UUID, valor decimal.Decimal) (*dto.CarrinhoResponse, error) {
	if !centavos(valor) {
		return nil, apperror.ValidationFields(map[string]string{"valor": "no maximo 2 casas decimais"})
	}
	return s.mutar(ctx, vendaID, func(_ repository.Store, v *model.Venda) error {
		total := calcularTotal(v.Itens)
		if valor.IsNegative() || valor.GreaterThan(total) {
			return apperror.InvalidDiscount(valor, total)
		}
		v.Desconto = valor
		return nil
	})
}

func (s *vendaService) Cancelar(ctx context.Context, vendaID uuid.UUID) error {
	var numero, itens int
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vendas().FindByIDForUpdate(ctx, vendaID)
		if err != nil {
			return err
		}
		if v.Processada {
			return apperror.InvalidState("venda finalizada nao pode ser cancelada")
		}
		numero, itens = v.Numero, len(v.Itens)
		return tx.Vendas().Delete(ctx, vendaID)
	})
	if err != nil {
		return err
	}
	log.Info().Str("venda_id", vendaID.String()).Int("numero", numero).Int("itens", itens).Msg("venda cancelada")
	return nil
}

func (s *vendaService) ObterCarrinho(ctx context.Context, vendaID uuid.UUID) (*dto.CarrinhoResponse, error) {
	v, err := s.store.Vendas().FindByID(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	if v.Processada {
		return nil, apperror.InvalidState("venda ja finalizada")
	}
	v.Total = calcularTotal(v.Itens)
	return carrinhoToResponse(v), nil
}
