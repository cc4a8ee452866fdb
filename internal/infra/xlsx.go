package infra

import (
	"fmt"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"

	"github.com/xuri/excelize/v2"
)

const (
	SheetTransacoes  = "Transacoes"
	SheetFechamentos = "Fechamentos"
)

// ExportarTransacoesXLSX writes the ledger entries and closings of a period to
// a two-sheet workbook. Amounts are written as fixed two-decimal text.
func ExportarTransacoesXLSX(transacoes []dto.TransacaoResponse, fechamentos []dto.FechamentoResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTransacoes); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if _, err := f.NewSheet(SheetFechamentos); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}

	rows := [][]interface{}{{"Data", "Tipo", "Categoria", "Descricao", "Valor", "Venda", "Observacoes"}}
	for _, t := range transacoes {
		rows = append(rows, []interface{}{
			t.DataTransacao.Format("2006-01-02 15:04:05"),
			t.Tipo,
			t.Categoria,
			t.Descricao,
			t.Valor.StringFixed(2),
			deref(t.VendaID),
			deref(t.Observacoes),
		})
	}
	if err := escreverPlanilha(f, SheetTransacoes, rows, bold); err != nil {
		return nil, err
	}

	rows = [][]interface{}{{"Data", "Total vendas", "Entradas", "Despesas", "Saldo", "Transacoes", "Vendas"}}
	for _, fc := range fechamentos {
		rows = append(rows, []interface{}{
			fc.Data,
			fc.TotalVendas.StringFixed(2),
			fc.TotalEntradas.StringFixed(2),
			fc.TotalDespesas.StringFixed(2),
			fc.Saldo.StringFixed(2),
			fc.QuantidadeTransacoes,
			fc.QuantidadeVendas,
		})
	}
	if err := escreverPlanilha(f, SheetFechamentos, rows, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

func escreverPlanilha(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return f.SetColWidth(sheet, "A", "G", 18)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
