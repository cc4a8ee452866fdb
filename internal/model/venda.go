package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formas de pagamento aceitas.
const (
	PagamentoDinheiro = "dinheiro"
	PagamentoCredito  = "credito"
	PagamentoDebito   = "debito"
	PagamentoPix      = "pix"
	PagamentoBoleto   = "boleto"
	PagamentoCheque   = "cheque"
)

// FormasPagamento lists the accepted payment methods in display order.
var FormasPagamento = []string{
	PagamentoDinheiro, PagamentoCredito, PagamentoDebito,
	PagamentoPix, PagamentoBoleto, PagamentoCheque,
}

// FormaPagamentoValida reports whether f is an accepted payment method.
func FormaPagamentoValida(f string) bool {
	for _, v := range FormasPagamento {
		if v == f {
			return true
		}
	}
	return false
}

// Venda is a sale. While Processada is false it acts as the open cart;
// once finalized it is immutable.
type Venda struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero         int       `gorm:"uniqueIndex;not null"`
	FormaPagamento string    `gorm:"not null"`
	Observacoes    *string
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Desconto       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorPago      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Troco          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Processada     bool            `gorm:"not null;default:false"`
	DataHora       time.Time       `gorm:"not null"`
	FinalizadaEm   *time.Time      `gorm:"index"`
	DevolvidaEm    *time.Time

	// Itens is loaded explicitly by the repository, never lazily.
	Itens []ItemVenda `gorm:"-"`
}

func (Venda) TableName() string { return "vendas" }

// TotalFinal is the amount due: Total minus Desconto.
func (v Venda) TotalFinal() decimal.Decimal { return v.Total.Sub(v.Desconto) }

// ItemVenda is a sale line. Codigo, nome and price are frozen when the line is
// first added so later catalog edits never rewrite a sale.
type ItemVenda struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	CodigoProduto string          `gorm:"not null"`
	NomeProduto   string          `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantidade    int             `gorm:"not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

func (ItemVenda) TableName() string { return "itens_venda" }

// Recalcular refreshes Subtotal from Quantidade and PrecoUnitario.
func (i *ItemVenda) Recalcular() {
	i.Subtotal = i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}
