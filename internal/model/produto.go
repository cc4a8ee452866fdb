package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog entry. Products are never physically deleted;
// Ativo=false hides them from search and sale.
type Produto struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo     string    `gorm:"uniqueIndex;not null"`
	Nome       string    `gorm:"uniqueIndex;not null"`
	Descricao  *string
	PrecoCusto decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecoVenda decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Estoque is only changed through the catalog stock adjustment path.
	Estoque   int  `gorm:"not null;default:0"`
	Ativo     bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Produto) TableName() string { return "produtos" }

var cem = decimal.NewFromInt(100)

// MargemLucro returns (venda - custo) / custo * 100, or zero when the cost is zero.
func (p Produto) MargemLucro() decimal.Decimal {
	if p.PrecoCusto.IsZero() {
		return decimal.Zero
	}
	return p.PrecoVenda.Sub(p.PrecoCusto).Div(p.PrecoCusto).Mul(cem).Round(2)
}
