package repository

import (
	"context"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"gorm.io/gorm"
)

// FechamentoFilter bounds List by calendar date; nil ends are open.
type FechamentoFilter struct {
	Inicio *time.Time
	Fim    *time.Time
}

type FechamentoRepository interface {
	Create(ctx context.Context, f *model.Fechamento) error
	FindByData(ctx context.Context, data time.Time) (*model.Fechamento, error)
	// List returns closings newest date first.
	List(ctx context.Context, filter FechamentoFilter) ([]model.Fechamento, error)
	Exists(ctx context.Context, data time.Time) (bool, error)
}

type fechamentoRepo struct{ db *gorm.DB }

func NewFechamentoRepository(db *gorm.DB) FechamentoRepository { return &fechamentoRepo{db: db} }

func (r *fechamentoRepo) Create(ctx context.Context, f *model.Fechamento) error {
	return translate(r.db.WithContext(ctx).Create(f).Error, "criar fechamento", "fechamento")
}

func (r *fechamentoRepo) FindByData(ctx context.Context, data time.Time) (*model.Fechamento, error) {
	var f model.Fechamento
	err := r.db.WithContext(ctx).Where("data = ?", data.Format(model.DataLayout)).First(&f).Error
	if err != nil {
		return nil, translate(err, "buscar fechamento", "fechamento")
	}
	return &f, nil
}

func (r *fechamentoRepo) List(ctx context.Context, filter FechamentoFilter) ([]model.Fechamento, error) {
	q := r.db.WithContext(ctx).Model(&model.Fechamento{})
	if filter.Inicio != nil {
		q = q.Where("data >= ?", filter.Inicio.Format(model.DataLayout))
	}
	if filter.Fim != nil {
		q = q.Where("data <= ?", filter.Fim.Format(model.DataLayout))
	}
	var fs []model.Fechamento
	err := q.Order("data DESC").Find(&fs).Error
	return fs, translate(err, "listar fechamentos", "fechamento")
}

func (r *fechamentoRepo) Exists(ctx context.Context, data time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Fechamento{}).
		Where("data = ?", data.Format(model.DataLayout)).
		Count(&n).Error
	return n > 0, translate(err, "verificar fechamento", "fechamento")
}
