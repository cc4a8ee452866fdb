package service

import (
	"strings"
	"testing"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarTransacaoValidation(t *testing.T) {
	f := newFixture(t)

	cases := []dto.RegistrarTransacaoRequest{
		{Tipo: "TRANSFER", Categoria: "SALE", Descricao: "x", Valor: dec("1.00")},
		{Tipo: "INCOME", Categoria: "GIFT", Descricao: "x", Valor: dec("1.00")},
		{Tipo: "INCOME", Categoria: "ADJUSTMENT", Descricao: "x", Valor: dec("0")},
		{Tipo: "INCOME", Categoria: "ADJUSTMENT", Descricao: "x", Valor: dec("-5.00")},
		{Tipo: "INCOME", Categoria: "ADJUSTMENT", Descricao: "  ", Valor: dec("5.00")},
		{Tipo: "INCOME", Categoria: "ADJUSTMENT", Descricao: strings.Repeat("d", model.MaxDescricao+1), Valor: dec("5.00")},
	}
	for _, c := range cases {
		_, err := f.financeiro.RegistrarTransacao(f.ctx, c)
		require.ErrorIs(t, err, apperror.ErrValidation, "%+v", c)
	}
	assert.Empty(t, f.transacoesDoDia(t))

	tr, err := f.financeiro.RegistrarTransacao(f.ctx, dto.RegistrarTransacaoRequest{
		Tipo: "income", Categoria: "adjustment", Descricao: "sobra de caixa", Valor: dec("3.20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "INCOME", tr.Tipo)
	assert.Equal(t, "ADJUSTMENT", tr.Categoria)
	assert.Equal(t, f.clock.Now(), tr.DataTransacao)
}

func TestRegistrarDespesa(t *testing.T) {
	f := newFixture(t)
	tr, err := f.financeiro.RegistrarDespesa(f.ctx, dto.RegistrarDespesaRequest{Descricao: "Conta de luz", Valor: dec("245.37")})
	require.NoError(t, err)
	assert.Equal(t, "EXPENSE", tr.Tipo)
	assert.Equal(t, "EXPENSE", tr.Categoria)
	assert.Nil(t, tr.VendaID)
}

func (f *fixture) lancar(t *testing.T, tipo, categoria, valor string, em time.Time) {
	t.Helper()
	_, err := f.financeiro.RegistrarTransacao(f.ctx, dto.RegistrarTransacaoRequest{
		Tipo: tipo, Categoria: categoria, Descricao: "lancamento", Valor: dec(valor), DataTransacao: &em,
	})
	require.NoError(t, err)
}

func TestResumoDiaBoundsAndSumOfDetail(t *testing.T) {
	f := newFixture(t)
	dia := time.Date(2024, 3, 15, 0, 0, 0, 0, brt)

	f.lancar(t, "INCOME", "SALE", "10.00", dia)
	f.lancar(t, "INCOME", "ADJUSTMENT", "2.50", dia.Add(12*time.Hour))
	f.lancar(t, "EXPENSE", "EXPENSE", "4.25", dia.Add(24*time.Hour-time.Second))
	f.lancar(t, "INCOME", "SALE", "99.00", dia.Add(24*time.Hour))
	f.lancar(t, "EXPENSE", "EXPENSE", "1.00", dia.Add(-time.Second))

	r, err := f.financeiro.ResumoDia(f.ctx, dia)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", r.Inicio)
	assert.Equal(t, 3, r.QuantidadeTransacoes)
	assert.True(t, r.TotalEntradas.Equal(dec("12.50")))
	assert.True(t, r.TotalSaidas.Equal(dec("4.25")))
	assert.True(t, r.Saldo.Equal(dec("8.25")))
	assert.True(t, r.TotalVendas.Equal(dec("10.00")))

	ts, err := f.financeiro.ListarTransacoes(f.ctx, dia, dia)
	require.NoError(t, err)
	require.Len(t, ts, r.QuantidadeTransacoes)
	entradas, saidas := decimal.Zero, decimal.Zero
	for _, tr := range ts {
		if tr.Tipo == "INCOME" {
			entradas = entradas.Add(tr.Valor)
		} else {
			saidas = saidas.Add(tr.Valor)
		}
	}
	assert.True(t, entradas.Equal(r.TotalEntradas))
	assert.True(t, saidas.Equal(r.TotalSaidas))

	again, err := f.financeiro.ResumoDia(f.ctx, dia)
	require.NoError(t, err)
	assert.Equal(t, r, again)
}

func TestResumoPeriodo(t *testing.T) {
	f := newFixture(t)
	d1 := time.Date(2024, 3, 14, 9, 0, 0, 0, brt)
	d2 := time.Date(2024, 3, 16, 18, 0, 0, 0, brt)
	f.lancar(t, "INCOME", "SALE", "10.00", d1)
	f.lancar(t, "EXPENSE", "EXPENSE", "3.00", d2)

	r, err := f.financeiro.ResumoPeriodo(f.ctx, d1, d2)
	require.NoError(t, err)
	assert.Equal(t, 2, r.QuantidadeTransacoes)
	assert.True(t, r.Saldo.Equal(dec("7.00")))

	_, err = f.financeiro.ResumoPeriodo(f.ctx, d2, d1)
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCriarFechamento(t *testing.T) {
	f := newFixture(t)
	pid := f.produto(t, "P1", "Pizza", "40.00", 10)
	vid := f.abrir(t)
	f.adicionar(t, vid, pid, 2)
	_, err := f.vendas.AplicarDesconto(f.ctx, vid, dec("5.00"))
	require.NoError(t, err)
	_, err = f.checkout.Finalizar(f.ctx, vid, dto.FinalizarVendaRequest{ValorPago: dec("80.00")})
	require.NoError(t, err)
	_, err = f.financeiro.RegistrarDespesa(f.ctx, dto.RegistrarDespesaRequest{Descricao: "Gas", Valor: dec("15.00")})
	require.NoError(t, err)

	fc, err := f.financeiro.CriarFechamento(f.ctx, dto.CriarFechamentoRequest{Data: "2024-03-15"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", fc.Data)
	assert.True(t, fc.TotalVendas.Equal(dec("75.00")))
	assert.True(t, fc.TotalEntradas.Equal(dec("75.00")))
	assert.True(t, fc.TotalDespesas.Equal(dec("15.00")))
	assert.True(t, fc.Saldo.Equal(dec("60.00")))
	assert.Equal(t, 2, fc.QuantidadeTransacoes)
	assert.Equal(t, 1, fc.QuantidadeVendas)

	// closing totals match the listed detail
	ts := f.transacoesDoDia(t)
	require.Len(t, ts, fc.QuantidadeTransacoes)
	soma := decimal.Zero
	for _, tr := range ts {
		if tr.Tipo == "INCOME" {
			soma = soma.Add(tr.Valor)
		} else {
			soma = soma.Sub(tr.Valor)
		}
	}
	assert.True(t, soma.Equal(fc.Saldo))

	_, err = f.financeiro.CriarFechamento(f.ctx, dto.CriarFechamentoRequest{Data: "2024-03-15"})
	require.ErrorIs(t, err, apperror.ErrDuplicateClosing)
	require.ErrorIs(t, err, apperror.ErrInvalidState)

	// later entries do not touch the frozen snapshot
	_, err = f.financeiro.RegistrarDespesa(f.ctx, dto.RegistrarDespesaRequest{Descricao: "Agua", Valor: dec("9.00")})
	require.NoError(t, err)
	got, err := f.financeiro.ObterFechamento(f.ctx, f.clock.Now())
	require.NoError(t, err)
	assert.True(t, got.Saldo.Equal(dec("60.00")))
	assert.Equal(t, fc.ID, got.ID)
}

func TestCriarFechamentoInvalidDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.financeiro.CriarFechamento(f.ctx, dto.CriarFechamentoRequest{Data: "15/03/2024"})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListarFechamentos(t *testing.T) {
	f := newFixture(t)
	for _, d := range []string{"2024-03-10", "2024-03-12", "2024-03-11"} {
		_, err := f.financeiro.CriarFechamento(f.ctx, dto.CriarFechamentoRequest{Data: d})
		require.NoError(t, err)
	}

	fs, err := f.financeiro.ListarFechamentos(f.ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, fs, 3)
	assert.Equal(t, "2024-03-12", fs[0].Data)
	assert.Equal(t, "2024-03-10", fs[2].Data)

	inicio := time.Date(2024, 3, 11, 0, 0, 0, 0, brt)
	fs, err = f.financeiro.ListarFechamentos(f.ctx, &inicio, nil)
	require.NoError(t, err)
	assert.Len(t, fs, 2)

	existe, err := f.financeiro.ExisteFechamento(f.ctx, inicio)
	require.NoError(t, err)
	assert.True(t, existe)

	existe, err = f.financeiro.ExisteFechamento(f.ctx, inicio.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.False(t, existe)

	_, err = f.financeiro.ObterFechamento(f.ctx, inicio.AddDate(0, 0, 5))
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
