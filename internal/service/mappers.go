package service

import (
	"unicode/utf8"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// centavos reports whether v has at most two decimal places.
func centavos(v decimal.Decimal) bool { return v.Equal(v.Round(2)) }

// limitar cuts s to at most max runes.
func limitar(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nome:        p.Nome,
		Descricao:   p.Descricao,
		PrecoCusto:  p.PrecoCusto,
		PrecoVenda:  p.PrecoVenda,
		MargemLucro: p.MargemLucro(),
		Estoque:     p.Estoque,
		Ativo:       p.Ativo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func movimentoToResponse(m model.MovimentoEstoque) dto.MovimentoEstoqueResponse {
	return dto.MovimentoEstoqueResponse{
		ID:              m.ID.String(),
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Motivo:          m.Motivo,
		ReferenciaID:    uuidPtrString(m.ReferenciaID),
		CreatedAt:       m.CreatedAt,
	}
}

func itensToResponse(itens []model.ItemVenda) []dto.ItemVendaResponse {
	out := make([]dto.ItemVendaResponse, 0, len(itens))
	for _, it := range itens {
		out = append(out, dto.ItemVendaResponse{
			ID:            it.ID.String(),
			ProdutoID:     it.ProdutoID.String(),
			Codigo:        it.CodigoProduto,
			Nome:          it.NomeProduto,
			PrecoUnitario: it.PrecoUnitario,
			Quantidade:    it.Quantidade,
			Subtotal:      it.Subtotal,
		})
	}
	return out
}

func carrinhoToResponse(v *model.Venda) *dto.CarrinhoResponse {
	return &dto.CarrinhoResponse{
		VendaID:        v.ID.String(),
		Numero:         v.Numero,
		FormaPagamento: v.FormaPagamento,
		Observacoes:    v.Observacoes,
		Itens:          itensToResponse(v.Itens),
		Subtotal:       v.Total,
		Desconto:       v.Desconto,
		Total:          v.TotalFinal(),
	}
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	resp := &dto.VendaResponse{
		VendaID:        v.ID.String(),
		Numero:         v.Numero,
		FormaPagamento: v.FormaPagamento,
		Observacoes:    v.Observacoes,
		Itens:          itensToResponse(v.Itens),
		Subtotal:       v.Total,
		Desconto:       v.Desconto,
		Total:          v.TotalFinal(),
		ValorPago:      v.ValorPago,
		Troco:          v.Troco,
		DevolvidaEm:    v.DevolvidaEm,
	}
	if v.FinalizadaEm != nil {
		resp.FinalizadaEm = *v.FinalizadaEm
	}
	return resp
}

func transacaoToResponse(t model.Transacao) dto.TransacaoResponse {
	return dto.TransacaoResponse{
		ID:            t.ID.String(),
		Tipo:          string(t.Tipo),
		Categoria:     string(t.Categoria),
		Descricao:     t.Descricao,
		Valor:         t.Valor,
		DataTransacao: t.DataTransacao,
		VendaID:       uuidPtrString(t.VendaID),
		Observacoes:   t.Observacoes,
	}
}

func fechamentoToResponse(f *model.Fechamento) *dto.FechamentoResponse {
	return &dto.FechamentoResponse{
		ID:                   f.ID.String(),
		Data:                 f.Data.Format(model.DataLayout),
		TotalVendas:          f.TotalVendas,
		TotalDespesas:        f.TotalDespesas,
		TotalEntradas:        f.TotalEntradas,
		Saldo:                f.Saldo,
		QuantidadeTransacoes: f.QuantidadeTransacoes,
		QuantidadeVendas:     f.QuantidadeVendas,
		Observacoes:          f.Observacoes,
		CreatedAt:            f.CreatedAt,
	}
}
