package repository

import (
	"context"
	"strings"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProdutoFilter narrows Search. An empty Termo matches every product.
type ProdutoFilter struct {
	Termo           string
	IncluirInativos bool
}

// ProdutoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	// Update persists the editable fields. Estoque is deliberately excluded.
	Update(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error)
	// Search matches Termo case-insensitively against nome and codigo,
	// ordered by nome then codigo.
	Search(ctx context.Context, filter ProdutoFilter) ([]model.Produto, error)
	// AdjustStock adds delta to estoque, refusing any change that would leave
	// it negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error
	// ValorEstoque sums estoque * preco_custo over active products.
	ValorEstoque(ctx context.Context) (decimal.Decimal, error)
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "criar produto", "produto")
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("codigo", "nome", "descricao", "preco_custo", "preco_venda", "ativo", "updated_at").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error, "atualizar produto", "produto")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("produto")
	}
	return nil
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "buscar produto", "produto")
	}
	return &p, nil
}

func (r *produtoRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "bloquear produto", "produto")
	}
	return &p, nil
}

func (r *produtoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Produto, error) {
	var p model.Produto
	if err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&p).Error; err != nil {
		return nil, translate(err, "buscar produto por codigo", "produto")
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *produtoRepo) Search(ctx context.Context, filter ProdutoFilter) ([]model.Produto, error) {
	q := r.db.WithContext(ctx).Model(&model.Produto{})
	if !filter.IncluirInativos {
		q = q.Where("ativo = ?", true)
	}
	if termo := strings.TrimSpace(filter.Termo); termo != "" {
		like := "%" + likeEscaper.Replace(termo) + "%"
		q = q.Where("nome ILIKE ? OR codigo ILIKE ?", like, like)
	}
	var produtos []model.Produto
	if err := q.Order("nome ASC, codigo ASC").Find(&produtos).Error; err != nil {
		return nil, translate(err, "pesquisar produtos", "produto")
	}
	return produtos, nil
}

func (r *produtoRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ? AND estoque + ? >= 0", id, delta).
		Update("estoque", gorm.Expr("estoque + ?", delta))
	if res.Error != nil {
		return translate(res.Error, "ajustar estoque", "produto")
	}
	if res.RowsAffected == 0 {
		return apperror.Wrap(apperror.ErrInvalidStock, "ajuste de estoque rejeitado", nil)
	}
	return nil
}

func (r *produtoRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", ativo)
	if res.Error != nil {
		return translate(res.Error, "alterar status do produto", "produto")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("produto")
	}
	return nil
}

func (r *produtoRepo) ValorEstoque(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Produto{}).
		Select("COALESCE(SUM(estoque * preco_custo), 0)").
		Where("ativo = ?", true).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translate(err, "calcular valor do estoque", "produto")
	}
	return total, nil
}
