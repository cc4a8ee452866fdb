package memstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduto(t *testing.T, s *Store, codigo, nome string, estoque int) *model.Produto {
	t.Helper()
	p := &model.Produto{
		Codigo:     codigo,
		Nome:       nome,
		PrecoCusto: decimal.RequireFromString("1.00"),
		PrecoVenda: decimal.RequireFromString("2.50"),
		Estoque:    estoque,
		Ativo:      true,
	}
	require.NoError(t, s.Produtos().Create(context.Background(), p))
	return p
}

func TestWithTxRollsBackEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedProduto(t, s, "789", "Cafe", 10)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Produtos().AdjustStock(ctx, p.ID, -4))
		require.NoError(t, tx.Transacoes().Create(ctx, &model.Transacao{
			Tipo: model.TipoEntrada, Categoria: model.CategoriaAjuste, Descricao: "x",
			Valor: decimal.NewFromInt(1), DataTransacao: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Produtos().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Estoque)

	ts, err := s.Transacoes().List(ctx, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedProduto(t, s, "789", "Cafe", 10)

	require.NoError(t, s.WithTx(ctx, func(tx repository.Store) error {
		return tx.Produtos().AdjustStock(ctx, p.ID, -4)
	}))

	got, _ := s.Produtos().FindByID(ctx, p.ID)
	assert.Equal(t, 6, got.Estoque)
}

func TestNumeroSurvivesRollback(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.WithTx(ctx, func(tx repository.Store) error {
		n, err := tx.Vendas().NextNumero(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return errors.New("rollback")
	})

	n, err := s.Vendas().NextNumero(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAdjustStockNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := seedProduto(t, s, "789", "Cafe", 1)

	err := s.Produtos().AdjustStock(ctx, p.ID, -2)
	assert.ErrorIs(t, err, apperror.ErrInvalidStock)
}

func TestProdutoUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduto(t, s, "789", "Cafe", 1)

	err := s.Produtos().Create(ctx, &model.Produto{Codigo: "789", Nome: "Outro", PrecoVenda: decimal.NewFromInt(1), Ativo: true})
	assert.ErrorIs(t, err, apperror.ErrDuplicateKey)

	err = s.Produtos().Create(ctx, &model.Produto{Codigo: "790", Nome: "Cafe", PrecoVenda: decimal.NewFromInt(1), Ativo: true})
	assert.ErrorIs(t, err, apperror.ErrDuplicateKey)
}

func TestSearchIsCaseInsensitiveAndOrdered(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProduto(t, s, "002", "cafe torrado", 1)
	seedProduto(t, s, "001", "Acucar", 1)
	seedProduto(t, s, "003", "CAFE soluvel", 1)
	inativo := seedProduto(t, s, "004", "Cafe antigo", 1)
	require.NoError(t, s.Produtos().SetAtivo(ctx, inativo.ID, false))

	got, err := s.Produtos().Search(ctx, repository.ProdutoFilter{Termo: "Caf"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CAFE soluvel", got[0].Nome)
	assert.Equal(t, "cafe torrado", got[1].Nome)

	all, err := s.Produtos().Search(ctx, repository.ProdutoFilter{IncluirInativos: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSaleLedgerEntryIsUniquePerVenda(t *testing.T) {
	ctx := context.Background()
	s := New()
	vendaID := uuid.New()
	entry := func() *model.Transacao {
		return &model.Transacao{
			Tipo: model.TipoEntrada, Categoria: model.CategoriaVenda, Descricao: "Venda #1",
			Valor: decimal.NewFromInt(5), DataTransacao: time.Now(), VendaID: &vendaID,
		}
	}
	require.NoError(t, s.Transacoes().Create(ctx, entry()))
	assert.ErrorIs(t, s.Transacoes().Create(ctx, entry()), apperror.ErrDuplicateKey)
}

func TestTransacaoDescricaoWidth(t *testing.T) {
	ctx := context.Background()
	s := New()
	entry := func(descricao string) *model.Transacao {
		return &model.Transacao{
			Tipo: model.TipoSaida, Categoria: model.CategoriaDespesa, Descricao: descricao,
			Valor: decimal.NewFromInt(1), DataTransacao: time.Now(),
		}
	}
	require.NoError(t, s.Transacoes().Create(ctx, entry(strings.Repeat("ç", model.MaxDescricao))))
	assert.ErrorIs(t, s.Transacoes().Create(ctx, entry(strings.Repeat("x", model.MaxDescricao+1))), apperror.ErrValidation)
}

func TestFailOnInjectsFault(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")
	s.FailOn("fechamentos.create", boom)

	err := s.Fechamentos().Create(ctx, &model.Fechamento{Data: time.Now()})
	assert.ErrorIs(t, err, boom)

	s.ClearFaults()
	assert.NoError(t, s.Fechamentos().Create(ctx, &model.Fechamento{Data: time.Now()}))
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedProduto(t, s, "001", "A", 5)
	b := seedProduto(t, s, "002", "B", 5)

	v := &model.Venda{Numero: 1, FormaPagamento: model.PagamentoDinheiro, DataHora: time.Now()}
	require.NoError(t, s.Vendas().Create(ctx, v))
	for _, p := range []*model.Produto{b, a} {
		it := &model.ItemVenda{VendaID: v.ID, ProdutoID: p.ID, NomeProduto: p.Nome, PrecoUnitario: p.PrecoVenda, Quantidade: 1}
		it.Recalcular()
		require.NoError(t, s.Vendas().CreateItem(ctx, it))
	}

	got, err := s.Vendas().FindByID(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got.Itens, 2)
	assert.Equal(t, "B", got.Itens[0].NomeProduto)
	assert.Equal(t, "A", got.Itens[1].NomeProduto)

	require.NoError(t, s.Vendas().Delete(ctx, v.ID))
	_, err = s.Vendas().FindByID(ctx, v.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
