package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirVendaRequest struct {
	FormaPagamento string  `json:"forma_pagamento" validate:"required"`
	Observacoes    *string `json:"observacoes"     validate:"omitempty,max=500"`
}

// AdicionarItemRequest identifies the product by id or by codigo, exactly one.
type AdicionarItemRequest struct {
	ProdutoID  *string `json:"produto_id" validate:"omitempty,uuid"`
	Codigo     *string `json:"codigo"     validate:"omitempty,max=50"`
	Quantidade int     `json:"quantidade"`
}

// DefinirQuantidadeRequest: zero removes the line.
type DefinirQuantidadeRequest struct {
	Quantidade int `json:"quantidade"`
}

type AplicarDescontoRequest struct {
	Valor decimal.Decimal `json:"valor"`
}

type FinalizarVendaRequest struct {
	ValorPago decimal.Decimal `json:"valor_pago"`
	// ClienteEmail: optional; when present the receipt worker mails the PDF.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type DevolverVendaRequest struct {
	Motivo string `json:"motivo" validate:"required,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ID            string          `json:"id"`
	ProdutoID     string          `json:"produto_id"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Quantidade    int             `json:"quantidade"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CarrinhoResponse is the view of an open (unfinalized) sale.
type CarrinhoResponse struct {
	VendaID        string              `json:"venda_id"`
	Numero         int                 `json:"numero"`
	FormaPagamento string              `json:"forma_pagamento"`
	Observacoes    *string             `json:"observacoes"`
	Itens          []ItemVendaResponse `json:"itens"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Desconto       decimal.Decimal     `json:"desconto"`
	Total          decimal.Decimal     `json:"total"`
}

// VendaResponse is the immutable record of a finalized sale. It is also the
// payload handed to the receipt renderer.
type VendaResponse struct {
	VendaID        string              `json:"venda_id"`
	Numero         int                 `json:"numero"`
	FormaPagamento string              `json:"forma_pagamento"`
	Observacoes    *string             `json:"observacoes"`
	Itens          []ItemVendaResponse `json:"itens"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Desconto       decimal.Decimal     `json:"desconto"`
	Total          decimal.Decimal     `json:"total"`
	ValorPago      decimal.Decimal     `json:"valor_pago"`
	Troco          decimal.Decimal     `json:"troco"`
	FinalizadaEm   time.Time           `json:"finalizada_em"`
	DevolvidaEm    *time.Time          `json:"devolvida_em,omitempty"`
}

type VendasDiaResponse struct {
	Data       string          `json:"data"`
	Vendas     []VendaResponse `json:"vendas"`
	Quantidade int             `json:"quantidade"`
	Total      decimal.Decimal `json:"total"`
}
