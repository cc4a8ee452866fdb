package repository

import (
	"context"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendaRepository interface {
	// NextNumero draws the next sale number. Numbers are never handed out twice,
	// even when the drawing transaction rolls back.
	NextNumero(ctx context.Context) (int, error)
	Create(ctx context.Context, v *model.Venda) error
	// FindByID returns the sale with its items, oldest line first.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// Update persists totals, settlement and status fields (not the items).
	Update(ctx context.Context, v *model.Venda) error
	// Delete removes the sale and its items.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *model.ItemVenda) error
	UpdateItem(ctx context.Context, item *model.ItemVenda) error
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// ListFinalizadas returns finalized sales with FinalizadaEm in [inicio, fim],
	// newest first, items included.
	ListFinalizadas(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error)
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) NextNumero(ctx context.Context) (int, error) {
	// PostgreSQL sequences are not transactional, which is what keeps
	// numbers from being reused after a cancellation or rollback.
	var num int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('vendas_numero_seq')").Scan(&num).Error
	return num, translate(err, "gerar numero da venda", "venda")
}

func (r *vendaRepo) Create(ctx context.Context, v *model.Venda) error {
	return translate(r.db.WithContext(ctx).Create(v).Error, "criar venda", "venda")
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	return r.find(ctx, r.db.WithContext(ctx), id)
}

func (r *vendaRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	return r.find(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *vendaRepo) find(ctx context.Context, q *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	if err := q.First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err, "buscar venda", "venda")
	}
	itens, err := r.itens(r.db.WithContext(ctx), []uuid.UUID{v.ID})
	if err != nil {
		return nil, err
	}
	v.Itens = itens[v.ID]
	return &v, nil
}

func (r *vendaRepo) itens(q *gorm.DB, vendaIDs []uuid.UUID) (map[uuid.UUID][]model.ItemVenda, error) {
	out := make(map[uuid.UUID][]model.ItemVenda, len(vendaIDs))
	if len(vendaIDs) == 0 {
		return out, nil
	}
	var rows []model.ItemVenda
	if err := q.Where("venda_id IN ?", vendaIDs).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "carregar itens da venda", "item")
	}
	for _, it := range rows {
		out[it.VendaID] = append(out[it.VendaID], it)
	}
	return out, nil
}

func (r *vendaRepo) Update(ctx context.Context, v *model.Venda) error {
	res := r.db.WithContext(ctx).Model(v).
		Select("total", "desconto", "valor_pago", "troco", "processada", "finalizada_em", "devolvida_em", "observacoes").
		Updates(v)
	if res.Error != nil {
		return translate(res.Error, "atualizar venda", "venda")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("venda")
	}
	return nil
}

func (r *vendaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("venda_id = ?", id).Delete(&model.ItemVenda{}).Error; err != nil {
		return translate(err, "remover itens da venda", "item")
	}
	res := db.Where("id = ?", id).Delete(&model.Venda{})
	if res.Error != nil {
		return translate(res.Error, "remover venda", "venda")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("venda")
	}
	return nil
}

func (r *vendaRepo) CreateItem(ctx context.Context, item *model.ItemVenda) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, "adicionar item", "item")
}

func (r *vendaRepo) UpdateItem(ctx context.Context, item *model.ItemVenda) error {
	res := r.db.WithContext(ctx).Model(item).Select("quantidade", "subtotal").Updates(item)
	if res.Error != nil {
		return translate(res.Error, "atualizar item", "item")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("item")
	}
	return nil
}

func (r *vendaRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ItemVenda{})
	if res.Error != nil {
		return translate(res.Error, "remover item", "item")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("item")
	}
	return nil
}

func (r *vendaRepo) ListFinalizadas(ctx context.Context, inicio, fim time.Time) ([]model.Venda, error) {
	db := r.db.WithContext(ctx)
	var vendas []model.Venda
	err := db.Where("processada = ? AND finalizada_em BETWEEN ? AND ?", true, inicio, fim).
		Order("finalizada_em DESC, numero DESC").
		Find(&vendas).Error
	if err != nil {
		return nil, translate(err, "listar vendas", "venda")
	}
	ids := make([]uuid.UUID, len(vendas))
	for i := range vendas {
		ids[i] = vendas[i].ID
	}
	itens, err := r.itens(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range vendas {
		vendas[i].Itens = itens[vendas[i].ID]
	}
	return vendas, nil
}
