package handler

import (
	"fmt"
	"net/http"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RelatoriosHandler renders downloadable reports.
type RelatoriosHandler struct {
	checkout   service.CheckoutService
	financeiro service.FinanceiroService
	clock      clock.Clock
	loja       string
}

func NewRelatoriosHandler(checkout service.CheckoutService, financeiro service.FinanceiroService, clk clock.Clock, loja string) *RelatoriosHandler {
	return &RelatoriosHandler{checkout: checkout, financeiro: financeiro, clock: clk, loja: loja}
}

// RelatorioDia godoc
// @Summary      Relatorio de vendas do dia em PDF
// @Tags         relatorios
// @Produce      application/pdf
// @Param        data path string true "AAAA-MM-DD"
// @Success      200 {file} binary
// @Router       /v1/relatorios/dia/{data} [get]
func (h *RelatoriosHandler) RelatorioDia(c *gin.Context) {
	dia, ok := diaParam(c, h.clock, c.Param("data"))
	if !ok {
		return
	}
	ctx := c.Request.Context()
	vendas, err := h.checkout.ListarVendasDia(ctx, dia)
	if err != nil {
		respondError(c, err)
		return
	}
	resumo, err := h.financeiro.ResumoDia(ctx, dia)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := infra.RenderRelatorioDia(*vendas, *resumo, h.loja)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="vendas_%s.pdf"`, vendas.Data))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportarTransacoes godoc
// @Summary      Livro caixa e fechamentos do periodo em XLSX
// @Tags         relatorios
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        inicio query string false "AAAA-MM-DD, padrao hoje"
// @Param        fim    query string false "AAAA-MM-DD, padrao inicio"
// @Success      200 {file} binary
// @Router       /v1/relatorios/transacoes.xlsx [get]
func (h *RelatoriosHandler) ExportarTransacoes(c *gin.Context) {
	inicio, fim, ok := periodoParams(c, h.clock)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	transacoes, err := h.financeiro.ListarTransacoes(ctx, inicio, fim)
	if err != nil {
		respondError(c, err)
		return
	}
	fechamentos, err := h.financeiro.ListarFechamentos(ctx, &inicio, &fim)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := infra.ExportarTransacoesXLSX(transacoes, fechamentos)
	if err != nil {
		respondError(c, err)
		return
	}
	nome := fmt.Sprintf("transacoes_%s_%s.xlsx", inicio.Format("2006-01-02"), fim.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+nome+`"`)
	c.Data(http.StatusOK, mimeXLSX, b)
}
