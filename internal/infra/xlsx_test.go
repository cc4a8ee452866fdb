package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportarTransacoesXLSX(t *testing.T) {
	vendaID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	ts := []dto.TransacaoResponse{
		{Tipo: "INCOME", Categoria: "SALE", Descricao: "Venda #1", Valor: decimal.RequireFromString("47.5"),
			DataTransacao: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), VendaID: &vendaID},
		{Tipo: "EXPENSE", Categoria: "EXPENSE", Descricao: "Conta de luz", Valor: decimal.RequireFromString("120"),
			DataTransacao: time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)},
	}
	fs := []dto.FechamentoResponse{
		{Data: "2024-03-15", TotalVendas: decimal.RequireFromString("47.50"), TotalEntradas: decimal.RequireFromString("47.50"),
			TotalDespesas: decimal.RequireFromString("120.00"), Saldo: decimal.RequireFromString("-72.50"),
			QuantidadeTransacoes: 2, QuantidadeVendas: 1},
	}

	b, err := ExportarTransacoesXLSX(ts, fs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTransacoes, SheetFechamentos}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransacoes)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Descricao", rows[0][3])
	assert.Equal(t, "47.50", rows[1][4])
	assert.Equal(t, vendaID, rows[1][5])
	assert.Equal(t, "120.00", rows[2][4])

	rows, err = f.GetRows(SheetFechamentos)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-15", rows[1][0])
	assert.Equal(t, "-72.50", rows[1][4])
}

func TestExportarTransacoesXLSXEmpty(t *testing.T) {
	b, err := ExportarTransacoesXLSX(nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetTransacoes)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
