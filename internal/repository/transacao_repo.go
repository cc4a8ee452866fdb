package repository

import (
	"context"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransacaoRepository is append-only: the ledger offers no update or delete.
type TransacaoRepository interface {
	Create(ctx context.Context, t *model.Transacao) error
	// List returns entries with DataTransacao in [inicio, fim], newest first.
	List(ctx context.Context, inicio, fim time.Time) ([]model.Transacao, error)
	FindByVenda(ctx context.Context, vendaID uuid.UUID) ([]model.Transacao, error)
}

type transacaoRepo struct{ db *gorm.DB }

func NewTransacaoRepository(db *gorm.DB) TransacaoRepository { return &transacaoRepo{db: db} }

func (r *transacaoRepo) Create(ctx context.Context, t *model.Transacao) error {
	return translate(r.db.WithContext(ctx).Create(t).Error, "registrar transacao", "transacao")
}

func (r *transacaoRepo) List(ctx context.Context, inicio, fim time.Time) ([]model.Transacao, error) {
	var ts []model.Transacao
	err := r.db.WithContext(ctx).
		Where("data_transacao BETWEEN ? AND ?", inicio, fim).
		Order("data_transacao DESC, created_at DESC").
		Find(&ts).Error
	return ts, translate(err, "listar transacoes", "transacao")
}

func (r *transacaoRepo) FindByVenda(ctx context.Context, vendaID uuid.UUID) ([]model.Transacao, error) {
	var ts []model.Transacao
	err := r.db.WithContext(ctx).Where("venda_id = ?", vendaID).Order("created_at ASC").Find(&ts).Error
	return ts, translate(err, "listar transacoes da venda", "transacao")
}
