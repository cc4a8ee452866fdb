package service

import (
	"context"
	"errors"
	"strings"
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

// PrecoCache is the price lookup cache; catalog and stock changes evict entries.
type PrecoCache interface {
	Invalidar(ctx context.Context, codigos ...string)
}

// AjusteEstoque describes one stock change made through AjustarEstoqueTx.
type AjusteEstoque struct {
	Delta        int
	Tipo         string // model.Movimento*
	Motivo       string
	ReferenciaID *uuid.UUID
	// ExigeAtivo rejects the change with ErrInvalidState when the product is inactive.
	ExigeAtivo bool
}

// CatalogoService owns products and is the only writer of product stock.
type CatalogoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	ObterPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error)
	// Buscar matches active products by nome or codigo, case-insensitive.
	Buscar(ctx context.Context, termo string) ([]dto.ProdutoResponse, error)
	Listar(ctx context.Context, incluirInativos bool) ([]dto.ProdutoResponse, error)
	ValorEstoque(ctx context.Context) (decimal.Decimal, error)
	AjustarEstoque(ctx context.Context, id uuid.UUID, delta int, motivo string) (*dto.ProdutoResponse, error)
	ListarMovimentos(ctx context.Context, id uuid.UUID) ([]dto.MovimentoEstoqueResponse, error)

	// AjustarEstoqueTx applies a stock change inside the caller's transaction.
	// The product row is locked first; a change that would leave stock
	// negative fails with ErrInvalidStock and returns the locked product so the
	// caller can report it.
	AjustarEstoqueTx(ctx context.Context, tx repository.Store, id uuid.UUID, ajuste AjusteEstoque) (*model.Produto, error)
}

type catalogoService struct {
	store repository.Store
	clock clock.Clock
	cache PrecoCache
}

func NewCatalogoService(store repository.Store, clk clock.Clock, cache PrecoCache) CatalogoService {
	return &catalogoService{store: store, clock: clk, cache: cache}
}

func (s *catalogoService) invalidar(ctx context.Context, codigos ...string) {
	if s.cache != nil {
		s.cache.Invalidar(ctx, codigos...)
	}
}

func validarProduto(p *model.Produto) error {
	fields := map[string]string{}
	if n := utf8.RuneCountInString(p.Nome); n < 3 || n > 200 {
		fields["nome"] = "deve ter entre 3 e 200 caracteres"
	}
	if n := utf8.RuneCountInString(p.Codigo); n < 1 || n > 50 {
		fields["codigo"] = "deve ter entre 1 e 50 caracteres"
	}
	if !p.PrecoVenda.IsPositive() {
		fields["preco_venda"] = "deve ser maior que zero"
	} else if !centavos(p.PrecoVenda) {
		fields["preco_venda"] = "no maximo 2 casas decimais"
	}
	if p.PrecoCusto.IsNegative() {
		fields["preco_custo"] = "nao pode ser negativo"
	} else if !centavos(p.PrecoCusto) {
		fields["preco_custo"] = "no maximo 2 casas decimais"
	}
	if p.Estoque < 0 {
		fields["estoque"] = "nao pode ser negativo"
	}
	if len(fields) > 0 {
		return apperror.ValidationFields(fields)
	}
	return nil
}

func (s *catalogoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	now := s.clock.Now()
	p := &model.Produto{
		ID:         uuid.New(),
		Codigo:     strings.TrimSpace(req.Codigo),
		Nome:       strings.TrimSpace(req.Nome),
		Descricao:  req.Descricao,
		PrecoCusto: req.PrecoCusto,
		PrecoVenda: req.PrecoVenda,
		Estoque:    req.Estoque,
		Ativo:      true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := validarProduto(p); err != nil {
		return nil, err
	}
	if err := s.store.Produtos().Create(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("produto_id", p.ID.String()).Str("codigo", p.Codigo).Msg("produto criado")
	return produtoToResponse(p), nil
}

func (s *catalogoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.store.Produtos().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	codigoAnterior := p.Codigo

	if req.Codigo != nil {
		p.Codigo = strings.TrimSpace(*req.Codigo)
	}
	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.PrecoCusto != nil {
		p.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		p.PrecoVenda = *req.PrecoVenda
	}
	if req.Ativo != nil {
		p.Ativo = *req.Ativo
	}
	if err := validarProduto(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.clock.Now()
	if err := s.store.Produtos().Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidar(ctx, codigoAnterior, p.Codigo)
	return produtoToResponse(p), nil
}

func (s *catalogoService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.setAtivo(ctx, id, false)
}

func (s *catalogoService) Reativar(ctx context.Context, id uuid.UUID) error {
	return s.setAtivo(ctx, id, true)
}

func (s *catalogoService) setAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	p, err := s.store.Produtos().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Produtos().SetAtivo(ctx, id, ativo); err != nil {
		return err
	}
	s.invalidar(ctx, p.Codigo)
	return nil
}

func (s *catalogoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.store.Produtos().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) ObterPorCodigo(ctx context.Context, codigo string) (*dto.ProdutoResponse, error) {
	p, err := s.store.Produtos().FindByCodigo(ctx, strings.TrimSpace(codigo))
	if err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *catalogoService) Buscar(ctx context.Context, termo string) ([]dto.ProdutoResponse, error) {
	return s.search(ctx, repository.ProdutoFilter{Termo: termo})
}

func (s *catalogoService) Listar(ctx context.Context, incluirInativos bool) ([]dto.ProdutoResponse, error) {
	return s.search(ctx, repository.ProdutoFilter{IncluirInativos: incluirInativos})
}

func (s *catalogoService) search(ctx context.Context, f repository.ProdutoFilter) ([]dto.ProdutoResponse, error) {
	ps, err := s.store.Produtos().Search(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdutoResponse, 0, len(ps))
	for i := range ps {
		out = append(out, *produtoToResponse(&ps[i]))
	}
	return out, nil
}

func (s *catalogoService) ValorEstoque(ctx context.Context) (decimal.Decimal, error) {
	return s.store.Produtos().ValorEstoque(ctx)
}

func (s *catalogoService) AjustarEstoque(ctx context.Context, id uuid.UUID, delta int, motivo string) (*dto.ProdutoResponse, error) {
	if delta == 0 {
		return nil, apperror.ValidationFields(map[string]string{"delta": "deve ser diferente de zero"})
	}
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return nil, apperror.ValidationFields(map[string]string{"motivo": "obrigatorio"})
	}

	var p *model.Produto
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		p, err = s.AjustarEstoqueTx(ctx, tx, id, AjusteEstoque{Delta: delta, Tipo: model.MovimentoAjuste, Motivo: motivo})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(ctx, p.Codigo)
	log.Info().Str("produto_id", id.String()).Int("delta", delta).Int("estoque", p.Estoque).Msg("estoque ajustado")
	return produtoToResponse(p), nil
}

func (s *catalogoService) AjustarEstoqueTx(ctx context.Context, tx repository.Store, id uuid.UUID, ajuste AjusteEstoque) (*model.Produto, error) {
	p, err := tx.Produtos().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if ajuste.ExigeAtivo && !p.Ativo {
		return p, apperror.InvalidState("produto " + p.Nome + " esta inativo")
	}
	novo := p.Estoque + ajuste.Delta
	if novo < 0 {
		return p, apperror.InvalidStock(p.Nome, p.Estoque, ajuste.Delta)
	}
	if err := tx.Produtos().AdjustStock(ctx, id, ajuste.Delta); err != nil {
		if errors.Is(err, apperror.ErrInvalidStock) {
			return p, apperror.InvalidStock(p.Nome, p.Estoque, ajuste.Delta)
		}
		return nil, err
	}
	mov := &model.MovimentoEstoque{
		ID:              uuid.New(),
		ProdutoID:       id,
		Tipo:            ajuste.Tipo,
		Quantidade:      ajuste.Delta,
		EstoqueAnterior: p.Estoque,
		EstoqueNovo:     novo,
		Motivo:          ajuste.Motivo,
		ReferenciaID:    ajuste.ReferenciaID,
		CreatedAt:       s.clock.Now(),
	}
	if err := tx.Movimentos().Create(ctx, mov); err != nil {
		return nil, err
	}
	p.Estoque = novo
	return p, nil
}

func (s *catalogoService) ListarMovimentos(ctx context.Context, id uuid.UUID) ([]dto.MovimentoEstoqueResponse, error) {
	if _, err := s.store.Produtos().FindByID(ctx, id); err != nil {
		return nil, err
	}
	ms, err := s.store.Movimentos().ListByProduto(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentoEstoqueResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, movimentoToResponse(m))
	}
	return out, nil
}
