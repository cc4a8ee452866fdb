package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DataLayout is the calendar-date format used for closings and date queries.
const DataLayout = "2006-01-02"

// Fechamento is the frozen summary of one calendar day. At most one exists per
// date and it is never updated after creation.
type Fechamento struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Data                 time.Time       `gorm:"type:date;uniqueIndex;not null"`
	TotalVendas          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalDespesas        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalEntradas        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo                decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantidadeTransacoes int             `gorm:"not null"`
	QuantidadeVendas     int             `gorm:"not null"`
	Observacoes          *string
	CreatedAt            time.Time
}

func (Fechamento) TableName() string { return "fechamentos" }
