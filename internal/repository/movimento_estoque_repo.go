package repository

import (
	"context"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimentoEstoqueRepository interface {
	Create(ctx context.Context, m *model.MovimentoEstoque) error
	// ListByProduto returns the newest movements first, at most limit rows.
	ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) Create(ctx context.Context, m *model.MovimentoEstoque) error {
	return translate(r.db.WithContext(ctx).Create(m).Error, "registrar movimento", "movimento")
}

func (r *movimentoEstoqueRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var ms []model.MovimentoEstoque
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error
	return ms, translate(err, "listar movimentos", "movimento")
}
