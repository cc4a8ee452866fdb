package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReciboDispatcher receives finalized sales for receipt rendering. It runs
// after commit and its failures never reach the caller.
type ReciboDispatcher interface {
	EnqueueRecibo(ctx context.Context, venda dto.VendaResponse, clienteEmail *string) error
}

type CheckoutService interface {
	// Finalizar settles the sale: payment, ledger entry and stock debits
	// commit together or not at all.
	Finalizar(ctx context.Context, vendaID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error)
	// Devolver refunds a finalized sale once, restocking every line.
	Devolver(ctx context.Context, vendaID uuid.UUID, motivo string) (*dto.VendaResponse, error)
	ObterVenda(ctx context.Context, vendaID uuid.UUID) (*dto.VendaResponse, error)
	ListarVendasDia(ctx context.Context, dia time.Time) (*dto.VendasDiaResponse, error)
	TotalVendasDia(ctx context.Context, dia time.Time) (decimal.Decimal, error)
}

type checkoutService struct {
	store      repository.Store
	catalogo   CatalogoService
	clock      clock.Clock
	dispatcher ReciboDispatcher
	cache      PrecoCache
}

func NewCheckoutService(
	store repository.Store,
	catalogo CatalogoService,
	clk clock.Clock,
	dispatcher ReciboDispatcher,
	cache PrecoCache,
) CheckoutService {
	return &checkoutService{
		store:      store,
		catalogo:   catalogo,
		clock:      clk,
		dispatcher: dispatcher,
		cache:      cache,
	}
}

// itensPorProduto returns the lines sorted by product id so that concurrent
// units lock product rows in the same order.
func itensPorProduto(itens []model.ItemVenda) []model.ItemVenda {
	out := append([]model.ItemVenda(nil), itens...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProdutoID.String() < out[j].ProdutoID.String()
	})
	return out
}

// ── Finalizar ─────────────────────────────────────────────────────────────────

func (s *checkoutService) Finalizar(ctx context.Context, vendaID uuid.UUID, req dto.FinalizarVendaRequest) (*dto.VendaResponse, error) {
	if req.ValorPago.IsNegative() {
		return nil, apperror.ValidationFields(map[string]string{"valor_pago": "nao pode ser negativo"})
	}
	if !centavos(req.ValorPago) {
		return nil, apperror.ValidationFields(map[string]string{"valor_pago": "no maximo 2 casas decimais"})
	}

	var venda *model.Venda
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vendas().FindByIDForUpdate(ctx, vendaID)
		if err != nil {
			return err
		}
		if v.Processada {
			return apperror.InvalidState("venda ja finalizada")
		}
		if len(v.Itens) == 0 {
			return apperror.Validation("venda sem itens")
		}

		// 1. Authoritative totals
		v.Total = calcularTotal(v.Itens)
		if v.Desconto.GreaterThan(v.Total) {
			v.Desconto = v.Total
		}
		final := v.TotalFinal()

		// 2-3. Payment and change
		if req.ValorPago.LessThan(final) {
			return apperror.InsufficientPayment(req.ValorPago, final)
		}
		agora := s.clock.Now()
		v.ValorPago = req.ValorPago
		v.Troco = req.ValorPago.Sub(final)
		v.Processada = true
		v.FinalizadaEm = &agora

		// 4. Sale state
		if err := tx.Vendas().Update(ctx, v); err != nil {
			return err
		}

		// 5. Ledger entry
		if final.IsPositive() {
			id := v.ID
			t := &model.Transacao{
				ID:            uuid.New(),
				Tipo:          model.TipoEntrada,
				Categoria:     model.CategoriaVenda,
				Descricao:     fmt.Sprintf("Venda #%d", v.Numero),
				Valor:         final,
				DataTransacao: agora,
				VendaID:       &id,
				CreatedAt:     agora,
			}
			if err := tx.Transacoes().Create(ctx, t); err != nil {
				return err
			}
		}

		// 6. Stock debits against the latest committed stock
		for _, it := range itensPorProduto(v.Itens) {
			ref := v.ID
			p, err := s.catalogo.AjustarEstoqueTx(ctx, tx, it.ProdutoID, AjusteEstoque{
				Delta:        -it.Quantidade,
				Tipo:         model.MovimentoVenda,
				Motivo:       fmt.Sprintf("Venda #%d", v.Numero),
				ReferenciaID: &ref,
				ExigeAtivo:   true,
			})
			if errors.Is(err, apperror.ErrInvalidStock) && p != nil {
				return apperror.InsufficientStock(p.Nome, p.Estoque, it.Quantidade)
			}
			if err != nil {
				return err
			}
		}

		venda = v
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("venda_id", vendaID.String()).Msg("finalizacao abortada")
		return nil, err
	}

	resp := vendaToResponse(venda)
	log.Info().
		Str("venda_id", venda.ID.String()).
		Int("numero", venda.Numero).
		Str("total", resp.Total.StringFixed(2)).
		Str("troco", resp.Troco.StringFixed(2)).
		Msg("venda finalizada")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRecibo(ctx, *resp, req.ClienteEmail); err != nil {
			log.Warn().Err(err).Str("venda_id", venda.ID.String()).Msg("recibo nao enfileirado")
		}
	}
	if s.cache != nil {
		codigos := make([]string, 0, len(venda.Itens))
		for _, it := range venda.Itens {
			codigos = append(codigos, it.CodigoProduto)
		}
		s.cache.Invalidar(ctx, codigos...)
	}
	return resp, nil
}

// ── Devolver ──────────────────────────────────────────────────────────────────

func (s *checkoutService) Devolver(ctx context.Context, vendaID uuid.UUID, motivo string) (*dto.VendaResponse, error) {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return nil, apperror.ValidationFields(map[string]string{"motivo": "obrigatorio"})
	}
	if utf8.RuneCountInString(motivo) > model.MaxDescricao {
		return nil, apperror.ValidationFields(map[string]string{"motivo": fmt.Sprintf("no maximo %d caracteres", model.MaxDescricao)})
	}

	var venda *model.Venda
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := tx.Vendas().FindByIDForUpdate(ctx, vendaID)
		if err != nil {
			return err
		}
		if !v.Processada {
			return apperror.InvalidState("venda nao finalizada")
		}
		if v.DevolvidaEm != nil {
			return apperror.InvalidState("venda ja devolvida")
		}
		agora := s.clock.Now()
		v.DevolvidaEm = &agora
		if err := tx.Vendas().Update(ctx, v); err != nil {
			return err
		}

		descricao := limitar(fmt.Sprintf("Devolucao venda #%d - %s", v.Numero, motivo), model.MaxDescricao)
		if final := v.TotalFinal(); final.IsPositive() {
			id := v.ID
			t := &model.Transacao{
				ID:            uuid.New(),
				Tipo:          model.TipoSaida,
				Categoria:     model.CategoriaDevolucao,
				Descricao:     descricao,
				Valor:         final,
				DataTransacao: agora,
				VendaID:       &id,
				CreatedAt:     agora,
			}
			if err := tx.Transacoes().Create(ctx, t); err != nil {
				return err
			}
		}

		for _, it := range itensPorProduto(v.Itens) {
			ref := v.ID
			if _, err := s.catalogo.AjustarEstoqueTx(ctx, tx, it.ProdutoID, AjusteEstoque{
				Delta:        it.Quantidade,
				Tipo:         model.MovimentoDevolucao,
				Motivo:       descricao,
				ReferenciaID: &ref,
			}); err != nil {
				return err
			}
		}
		venda = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("venda_id", venda.ID.String()).Int("numero", venda.Numero).Str("motivo", motivo).Msg("venda devolvida")
	if s.cache != nil {
		for _, it := range venda.Itens {
			s.cache.Invalidar(ctx, it.CodigoProduto)
		}
	}
	return vendaToResponse(venda), nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *checkoutService) ObterVenda(ctx context.Context, vendaID uuid.UUID) (*dto.VendaResponse, error) {
	v, err := s.store.Vendas().FindByID(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	if !v.Processada {
		return nil, apperror.InvalidState("venda ainda nao finalizada")
	}
	return vendaToResponse(v), nil
}

func (s *checkoutService) ListarVendasDia(ctx context.Context, dia time.Time) (*dto.VendasDiaResponse, error) {
	inicio, fim := clock.Dia(dia, s.clock.Location())
	vs, err := s.store.Vendas().ListFinalizadas(ctx, inicio, fim)
	if err != nil {
		return nil, err
	}
	resp := &dto.VendasDiaResponse{
		Data:   inicio.Format(model.DataLayout),
		Vendas: make([]dto.VendaResponse, 0, len(vs)),
		Total:  decimal.Zero,
	}
	for i := range vs {
		resp.Vendas = append(resp.Vendas, *vendaToResponse(&vs[i]))
		resp.Total = resp.Total.Add(vs[i].TotalFinal())
	}
	resp.Quantidade = len(resp.Vendas)
	return resp, nil
}

func (s *checkoutService) TotalVendasDia(ctx context.Context, dia time.Time) (decimal.Decimal, error) {
	r, err := s.ListarVendasDia(ctx, dia)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Total, nil
}
