package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarTransacaoRequest struct {
	Tipo      string          `json:"tipo"      validate:"required,oneof=INCOME EXPENSE"`
	Categoria string          `json:"categoria" validate:"required,oneof=SALE EXPENSE REFUND ADJUSTMENT"`
	Descricao string          `json:"descricao" validate:"required,max=200"`
	Valor     decimal.Decimal `json:"valor"     validate:"gt=0"`
	// DataTransacao defaults to now.
	DataTransacao *time.Time `json:"data_transacao"`
	Observacoes   *string    `json:"observacoes"`
}

type RegistrarDespesaRequest struct {
	Descricao   string          `json:"descricao" validate:"required,max=200"`
	Valor       decimal.Decimal `json:"valor"     validate:"gt=0"`
	Observacoes *string         `json:"observacoes"`
}

type CriarFechamentoRequest struct {
	Data        string  `json:"data" validate:"required,datetime=2006-01-02"`
	Observacoes *string `json:"observacoes"`
}

// PeriodoFilter is bound from ?inicio=YYYY-MM-DD&fim=YYYY-MM-DD.
type PeriodoFilter struct {
	Inicio string `form:"inicio"`
	Fim    string `form:"fim"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransacaoResponse struct {
	ID            string          `json:"id"`
	Tipo          string          `json:"tipo"`
	Categoria     string          `json:"categoria"`
	Descricao     string          `json:"descricao"`
	Valor         decimal.Decimal `json:"valor"`
	DataTransacao time.Time       `json:"data_transacao"`
	VendaID       *string         `json:"venda_id"`
	Observacoes   *string         `json:"observacoes"`
}

// ResumoResponse aggregates the ledger over a day or a period.
type ResumoResponse struct {
	Inicio               string          `json:"inicio"`
	Fim                  string          `json:"fim"`
	TotalEntradas        decimal.Decimal `json:"total_entradas"`
	TotalSaidas          decimal.Decimal `json:"total_saidas"`
	Saldo                decimal.Decimal `json:"saldo"`
	TotalVendas          decimal.Decimal `json:"total_vendas"`
	QuantidadeVendas     int             `json:"quantidade_vendas"`
	QuantidadeTransacoes int             `json:"quantidade_transacoes"`
}

type FechamentoResponse struct {
	ID                   string          `json:"id"`
	Data                 string          `json:"data"`
	TotalVendas          decimal.Decimal `json:"total_vendas"`
	TotalDespesas        decimal.Decimal `json:"total_despesas"`
	TotalEntradas        decimal.Decimal `json:"total_entradas"`
	Saldo                decimal.Decimal `json:"saldo"`
	QuantidadeTransacoes int             `json:"quantidade_transacoes"`
	QuantidadeVendas     int             `json:"quantidade_vendas"`
	Observacoes          *string         `json:"observacoes"`
	CreatedAt            time.Time       `json:"created_at"`
}

type ExisteFechamentoResponse struct {
	Data   string `json:"data"`
	Existe bool   `json:"existe"`
}
