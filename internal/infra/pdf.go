package infra

// pdf.go — receipt and daily report rendering using go-pdf/fpdf.
// Receipts are laid out for thermal paper (58 or 80 mm wide):
//   - Store name header
//   - Sale number and timestamp
//   - Item table (name, quantity x unit price, subtotal)
//   - Subtotal, discount, bold total
//   - Payment method, amount paid and change

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"

	"github.com/go-pdf/fpdf"
)

const reciboMargem = 3.0

// RenderRecibo renders the receipt of a finalized sale. largura is the paper
// width in mm; anything other than 58 is treated as 80.
func RenderRecibo(v dto.VendaResponse, loja string, largura int) ([]byte, error) {
	w := 80.0
	if largura == 58 {
		w = 58
	}
	// one roll segment long enough for every line
	h := 90.0 + float64(len(v.Itens))*9

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(reciboMargem, reciboMargem, reciboMargem)
	pdf.SetAutoPageBreak(false, reciboMargem)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	contentW := w - 2*reciboMargem
	corpo := 7.0
	if w == 58 {
		corpo = 6
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", corpo+4)
	pdf.CellFormat(contentW, 6, tr(loja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", corpo)
	pdf.CellFormat(contentW, 4, tr("Cupom não fiscal"), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", corpo)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Venda N. %06d", v.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", corpo)
	pdf.CellFormat(contentW, 4, v.FinalizadaEm.Format("02/01/2006 15:04:05"), "", 1, "L", false, 0, "")
	separador(pdf, w)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.60
	col2 := contentW * 0.40
	for _, it := range v.Itens {
		pdf.SetFont("Helvetica", "", corpo)
		pdf.CellFormat(contentW, 4, tr(truncar(it.Nome, int(contentW/1.6))), "", 1, "L", false, 0, "")
		pdf.CellFormat(col1, 4, fmt.Sprintf("%d x R$ %s", it.Quantidade, it.PrecoUnitario.StringFixed(2)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, "R$ "+it.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	separador(pdf, w)

	// ── Totals ────────────────────────────────────────────────────────────────
	linha := func(label, valor string) {
		pdf.CellFormat(col1, 4, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, valor, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", corpo)
	linha("Subtotal", "R$ "+v.Subtotal.StringFixed(2))
	if !v.Desconto.IsZero() {
		linha("Desconto", "-R$ "+v.Desconto.StringFixed(2))
	}
	pdf.SetFont("Helvetica", "B", corpo+2)
	linha("TOTAL", "R$ "+v.Total.StringFixed(2))

	// ── Payment ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", corpo)
	linha("Pagamento ("+v.FormaPagamento+")", "R$ "+v.ValorPago.StringFixed(2))
	linha("Troco", "R$ "+v.Troco.StringFixed(2))

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", corpo)
	pdf.CellFormat(contentW, 4, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render recibo: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderRelatorioDia renders the A4 sales report of one day.
func RenderRelatorioDia(vendas dto.VendasDiaResponse, resumo dto.ResumoResponse, loja string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(loja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Relatório de vendas - "+vendas.Data), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Sales table ───────────────────────────────────────────────────────────
	cols := []float64{22, 38, 40, 25, 25, 30}
	head := []string{"Venda", "Hora", "Pagamento", "Itens", "Desconto", "Total"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range head {
		pdf.CellFormat(cols[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, v := range vendas.Vendas {
		itens := 0
		for _, it := range v.Itens {
			itens += it.Quantidade
		}
		pdf.CellFormat(cols[0], 6, fmt.Sprintf("%06d", v.Numero), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[1], 6, v.FinalizadaEm.Format("15:04:05"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2], 6, v.FormaPagamento, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 6, fmt.Sprintf("%d", itens), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 6, v.Desconto.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 6, v.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	if len(vendas.Vendas) == 0 {
		pdf.CellFormat(0, 6, tr("Nenhuma venda finalizada no dia."), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	// ── Summary ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Resumo", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	resumoLinhas := [][2]string{
		{"Vendas finalizadas", fmt.Sprintf("%d", vendas.Quantidade)},
		{"Total de vendas", "R$ " + vendas.Total.StringFixed(2)},
		{"Entradas", "R$ " + resumo.TotalEntradas.StringFixed(2)},
		{"Saídas", "R$ " + resumo.TotalSaidas.StringFixed(2)},
		{"Saldo", "R$ " + resumo.Saldo.StringFixed(2)},
		{"Lançamentos", fmt.Sprintf("%d", resumo.QuantidadeTransacoes)},
	}
	for _, l := range resumoLinhas {
		pdf.CellFormat(60, 6, tr(l[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, l[1], "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render relatorio: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveRecibo writes a rendered receipt to storagePath/recibo_{numero}.pdf and
// returns the file path. The directory is created if needed.
func SaveRecibo(storagePath string, numero int, data []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("recibo_%06d.pdf", numero))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func separador(pdf *fpdf.Fpdf, w float64) {
	pdf.Ln(1)
	pdf.Line(reciboMargem, pdf.GetY(), w-reciboMargem, pdf.GetY())
	pdf.Ln(1)
}

func truncar(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
