package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TipoTransacao string

const (
	TipoEntrada TipoTransacao = "INCOME"
	TipoSaida   TipoTransacao = "EXPENSE"
)

func (t TipoTransacao) Valido() bool { return t == TipoEntrada || t == TipoSaida }

type CategoriaTransacao string

const (
	CategoriaVenda     CategoriaTransacao = "SALE"
	CategoriaDespesa   CategoriaTransacao = "EXPENSE"
	CategoriaDevolucao CategoriaTransacao = "REFUND"
	CategoriaAjuste    CategoriaTransacao = "ADJUSTMENT"
)

func (c CategoriaTransacao) Valida() bool {
	switch c {
	case CategoriaVenda, CategoriaDespesa, CategoriaDevolucao, CategoriaAjuste:
		return true
	}
	return false
}

// MaxDescricao is the width of transacoes.descricao, counted in runes.
const MaxDescricao = 200

// Transacao is an immutable ledger entry. No update or delete path exists.
type Transacao struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Tipo          TipoTransacao      `gorm:"not null"`
	Categoria     CategoriaTransacao `gorm:"not null"`
	Descricao     string             `gorm:"not null"`
	Valor         decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	DataTransacao time.Time          `gorm:"not null;index"`
	VendaID       *uuid.UUID         `gorm:"type:uuid;index"`
	Observacoes   *string
	CreatedAt     time.Time
}

func (Transacao) TableName() string { return "transacoes" }
