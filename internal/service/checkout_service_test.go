package service

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizarComputesChangeAndLedger(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Vinho Tinto", "47.50", 3)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)

	v, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{
		ValorPago:    dec("50.00"),
		ClienteEmail: strPtr("cliente@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2.50", v.Troco.StringFixed(2))
	assert.True(t, v.Troco.Equal(dec("2.50")))
	assert.True(t, v.Total.Equal(dec("47.50")))
	assert.Equal(t, f.clock.Now(), v.FinalizadaEm)

	assert.Equal(t, 2, f.estoque(t, pid))

	ts := f.transacoesDoDia(t)
	require.Len(t, ts, 1)
	assert.Equal(t, string(model.TipoEntrada), ts[0].Tipo)
	assert.Equal(t, string(model.CategoriaVenda), ts[0].Categoria)
	assert.True(t, ts[0].Valor.Equal(dec("47.50")))
	require.NotNil(t, ts[0].VendaID)
	assert.Equal(t, vid.String(), *ts[0].VendaID)

	require.Len(t, f.recibos.vendas, 1)
	assert.Equal(t, v.Numero, f.recibos.vendas[0].Numero)
	assert.Equal(t, "cliente@example.com", *f.recibos.emails[0])
	assert.Contains(t, f.cache.codigos, "P1")

	movs, err := f.catalogo.ListarMovimentos(f.ctx, pid)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovimentoVenda, movs[0].Tipo)
	assert.Equal(t, -1, movs[0].Quantidade)
}

func TestFinalizarWithDiscount(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Tenis", "120.00", 2)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)
	_, err := f.vendas.AplicarDesconto(f.ctx, vid, dec("20.00"))
	require.NoError(t, err)

	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("99.99")})
	require.ErrorIs(t, err, apperror.ErrInsufficientPayment)

	v, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("100.00")})
	require.NoError(t, err)
	assert.True(t, v.Troco.IsZero())
	assert.True(t, v.Subtotal.Equal(dec("120.00")))
	assert.True(t, v.Total.Equal(dec("100.00")))
}

func TestFinalizarInsufficientPaymentChangesNothing(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Queijo", "30.00", 4)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 2)

	_, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("59.99")})
	require.ErrorIs(t, err, apperror.ErrInsufficientPayment)

	assert.Equal(t, 4, f.estoque(t, pid))
	assert.Empty(t, f.transacoesDoDia(t))
	_, err = f.vendas.ObterCarrinho(f.ctx, vid)
	require.NoError(t, err)
	assert.Empty(t, f.recibos.vendas)
}

// produtoComID stores a product under a chosen id, so tests can control the
// order in which checkout debits the lines.
func (f *fixture) produtoComID(t *testing.T, id, codigo, nome, preco string, estoque int) uuid.UUID {
	t.Helper()
	p := &model.Produto{
		ID:         uuid.MustParse(id),
		Codigo:     codigo,
		Nome:       nome,
		PrecoCusto: dec("1.00"),
		PrecoVenda: dec(preco),
		Estoque:    estoque,
		Ativo:      true,
	}
	require.NoError(t, f.store.Produtos().Create(f.ctx, p))
	return p.ID
}

func TestFinalizarIsAtomicWhenStockRunsOut(t *testing.T) {
	f := newFixture(t)
	// P1 sorts first and is debited before P2 fails
	p1 := f.produtoComID(t, "00000000-0000-0000-0000-000000000001", "P1", "Chocolate", "5.00", 5)
	p2 := f.produtoComID(t, "ffffffff-ffff-ffff-ffff-fffffffffff2", "P2", "Bala", "0.50", 5)
	vid := f.abrir(t)
	f.adicionar(t, vid, p1, 2)
	f.adicionar(t, vid, p2, 3)

	// stock of the second line drops after the cart was built
	_, err := f.catalogo.AjustarEstoque(f.ctx, p2, -4, "perda")
	require.NoError(t, err)

	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("20.00")})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)

	assert.Equal(t, 5, f.estoque(t, p1))
	assert.Equal(t, 1, f.estoque(t, p2))
	assert.Empty(t, f.transacoesDoDia(t))

	c, err := f.vendas.ObterCarrinho(f.ctx, vid)
	require.NoError(t, err)
	assert.Len(t, c.Itens, 2)
}

func TestFinalizarRollsBackOnLedgerFailure(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Cafe", "18.00", 3)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)

	boom := errors.New("conexao perdida")
	f.store.FailOn("transacoes.create", boom)
	_, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("20.00")})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, f.estoque(t, pid))

	f.store.ClearFaults()
	f.store.FailOn("movimentos.create", boom)
	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("20.00")})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, f.estoque(t, pid))
	assert.Empty(t, f.transacoesDoDia(t))

	f.store.ClearFaults()
	v, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("20.00")})
	require.NoError(t, err)
	assert.True(t, v.Troco.Equal(dec("2.00")))
	assert.Equal(t, 2, f.estoque(t, pid))
	assert.Len(t, f.transacoesDoDia(t), 1)
}

func TestFinalizarRejectsDeactivatedProduct(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Iogurte", "3.00", 3)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)
	require.NoError(t, f.catalogo.Desativar(f.ctx, pid))

	_, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("3.00")})
	require.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.Equal(t, 3, f.estoque(t, pid))
	assert.Empty(t, f.transacoesDoDia(t))
}

func TestFinalizarStateChecks(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Goma", "1.00", 3)

	vazia := f.abrir(t)
	_, err := f.checkout.Finalizar(f.ctx, vazia, dto.FinalizarVendaRequest{ValorPago: dec("1.00")})
	require.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.checkout.Finalizar(f.ctx, uuid.New(), dto.FinalizarVendaRequest{ValorPago: dec("1.00")})
	require.ErrorIs(t, err, apperror.ErrNotFound)

	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)
	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("1.00")})
	require.NoError(t, err)

	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("1.00")})
	require.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.Equal(t, 2, f.estoque(t, pid))
	assert.Len(t, f.transacoesDoDia(t), 1)
}

func TestFinalizarZeroTotalWritesNoLedgerEntry(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Brinde", "10.00", 1)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)
	_, err := f.vendas.AplicarDesconto(f.ctx, vid, dec("10.00"))
	require.NoError(t, err)

	v, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("0")})
	require.NoError(t, err)
	assert.True(t, v.Total.IsZero())
	assert.Equal(t, 0, f.estoque(t, pid))
	assert.Empty(t, f.transacoesDoDia(t))
}

func TestConcurrentFinalizeNeverOversells(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Console", "2500.00", 5)

	const n = 4
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = f.abrir(t)
		f.adicionar(t, ids[i], pid, 3)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		semEstq int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.checkout.Finalizar(f.ctx, id, dto.FinalizarVendaRequest{ValorPago: dec("7500.00")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperror.ErrInsufficientStock):
				semEstq++
			default:
				t.Errorf("erro inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, semEstq)
	assert.Equal(t, 2, f.estoque(t, pid))
	assert.Len(t, f.transacoesDoDia(t), 1)
}

func TestChangeIsExactOverRandomTrials(t *testing.T) {
	rng := rand.New(rand.NewSource(20240315))
	for i := 0; i < 10000; i++ {
		f := newFixture(t)
		precoCents := rng.Int63n(99999) + 1
		qtd := rng.Intn(5) + 1
		pid := f.produto(t, "P1", "Produto", decimal.New(precoCents, -2).String(), qtd)
		vid := f.abrir(t)
		f.adicionar(t, vid, pid, qtd)

		totalCents := precoCents * int64(qtd)
		descontoCents := rng.Int63n(totalCents + 1)
		if descontoCents > 0 {
			_, err := f.vendas.AplicarDesconto(f.ctx, vid, decimal.New(descontoCents, -2))
			require.NoError(t, err)
		}
		trocoCents := rng.Int63n(10001)
		pago := decimal.New(totalCents-descontoCents+trocoCents, -2)

		v, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: pago})
		require.NoError(t, err)
		if !v.Troco.Equal(decimal.New(trocoCents, -2)) {
			t.Fatalf("trial %d: troco %s, esperado %s", i, v.Troco, decimal.New(trocoCents, -2))
		}
		require.True(t, v.ValorPago.Sub(v.Total).Equal(v.Troco))
	}
}

func TestDevolver(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Fone", "80.00", 2)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 2)

	_, err := f.checkout.Devolver(f.ctx, vid, "defeito")
	require.ErrorIs(t, err, apperror.ErrInvalidState)

	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("200.00")})
	require.NoError(t, err)
	assert.Equal(t, 0, f.estoque(t, pid))

	f.clock.Advance(time.Hour)
	v, err := f.checkout.Devolver(f.ctx, vid, "defeito")
	require.NoError(t, err)
	require.NotNil(t, v.DevolvidaEm)
	assert.True(t, v.Total.Equal(dec("160.00")))
	assert.Equal(t, 2, f.estoque(t, pid))

	ts := f.transacoesDoDia(t)
	require.Len(t, ts, 2)
	assert.Equal(t, string(model.CategoriaDevolucao), ts[0].Categoria)
	assert.Equal(t, string(model.TipoSaida), ts[0].Tipo)
	assert.True(t, ts[0].Valor.Equal(dec("160.00")))

	_, err = f.checkout.Devolver(f.ctx, vid, "de novo")
	require.ErrorIs(t, err, apperror.ErrInvalidState)
	assert.Equal(t, 2, f.estoque(t, pid))
}

func TestDevolverWithLongMotivo(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Teclado", "120.00", 1)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 1)
	_, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("120.00")})
	require.NoError(t, err)

	_, err = f.checkout.Devolver(f.ctx, vid, strings.Repeat("m", model.MaxDescricao+1))
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, 0, f.estoque(t, pid))

	_, err = f.checkout.Devolver(f.ctx, vid, strings.Repeat("m", model.MaxDescricao))
	require.NoError(t, err)
	assert.Equal(t, 1, f.estoque(t, pid))

	ts := f.transacoesDoDia(t)
	require.Len(t, ts, 2)
	assert.Equal(t, string(model.CategoriaDevolucao), ts[0].Categoria)
	assert.Equal(t, model.MaxDescricao, utf8.RuneCountInString(ts[0].Descricao))
	assert.True(t, strings.HasPrefix(ts[0].Descricao, "Devolucao venda #"))
}

func TestListarVendasDia(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Sorvete", "12.00", 10)

	for i := 0; i < 3; i++ {
		vid := f.abrir(t)
		f.adicionar(t, vid, pid, 1)
		_, err := f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("12.00")})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
	aberta := f.abrir(t)
	f.adicionar(t, aberta, pid, 1)

	r, err := f.checkout.ListarVendasDia(f.ctx, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", r.Data)
	require.Equal(t, 3, r.Quantidade)
	assert.True(t, r.Total.Equal(dec("36.00")))
	assert.Greater(t, r.Vendas[0].Numero, r.Vendas[2].Numero)

	total, err := f.checkout.TotalVendasDia(f.ctx, f.clock.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = f.checkout.ObterVenda(f.ctx, aberta)
	require.ErrorIs(t, err, apperror.ErrInvalidState)
}
