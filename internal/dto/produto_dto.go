package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Codigo     string          `json:"codigo"      validate:"required,max=50"`
	Nome       string          `json:"nome"        validate:"required,min=3,max=200"`
	Descricao  *string         `json:"descricao"`
	PrecoCusto decimal.Decimal `json:"preco_custo" validate:"min=0"`
	PrecoVenda decimal.Decimal `json:"preco_venda" validate:"gt=0"`
	Estoque    int             `json:"estoque"     validate:"min=0"`
}

// AtualizarProdutoRequest is a partial update: nil fields are left untouched.
// Stock is not editable here; use the stock adjustment endpoint.
type AtualizarProdutoRequest struct {
	Codigo     *string          `json:"codigo"      validate:"omitempty,max=50"`
	Nome       *string          `json:"nome"        validate:"omitempty,min=3,max=200"`
	Descricao  *string          `json:"descricao"`
	PrecoCusto *decimal.Decimal `json:"preco_custo"`
	PrecoVenda *decimal.Decimal `json:"preco_venda"`
	Ativo      *bool            `json:"ativo"`
}

type AjustarEstoqueRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,max=200"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProdutoFilter struct {
	Termo    string `form:"termo"`
	Inativos bool   `form:"inativos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nome        string          `json:"nome"`
	Descricao   *string         `json:"descricao"`
	PrecoCusto  decimal.Decimal `json:"preco_custo"`
	PrecoVenda  decimal.Decimal `json:"preco_venda"`
	MargemLucro decimal.Decimal `json:"margem_lucro"`
	Estoque     int             `json:"estoque"`
	Ativo       bool            `json:"ativo"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ConsultaPrecoResponse is returned by the price check endpoint and cached in Redis.
type ConsultaPrecoResponse struct {
	Codigo            string          `json:"codigo"`
	Nome              string          `json:"nome"`
	PrecoVenda        decimal.Decimal `json:"preco_venda"`
	EstoqueDisponivel int             `json:"estoque_disponivel"`
}

type MovimentoEstoqueResponse struct {
	ID              string    `json:"id"`
	Tipo            string    `json:"tipo"`
	Quantidade      int       `json:"quantidade"`
	EstoqueAnterior int       `json:"estoque_anterior"`
	EstoqueNovo     int       `json:"estoque_novo"`
	Motivo          string    `json:"motivo"`
	ReferenciaID    *string   `json:"referencia_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type ValorEstoqueResponse struct {
	Valor decimal.Decimal `json:"valor"`
}
