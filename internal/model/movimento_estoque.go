package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de movimento de estoque.
const (
	MovimentoVenda     = "venda"
	MovimentoAjuste    = "ajuste_manual"
	MovimentoDevolucao = "devolucao"
)

// MovimentoEstoque records one stock change. It is written in the same
// transaction as the change itself.
type MovimentoEstoque struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProdutoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo            string    `gorm:"not null"`
	Quantidade      int       `gorm:"not null"` // signed delta
	EstoqueAnterior int       `gorm:"not null"`
	EstoqueNovo     int       `gorm:"not null"`
	Motivo          string
	ReferenciaID    *uuid.UUID `gorm:"type:uuid"` // venda_id when the change comes from a sale or refund
	CreatedAt       time.Time
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
