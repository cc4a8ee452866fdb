package handler

import (
	"net/http"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/gin-gonic/gin"
)

type FinanceiroHandler struct {
	svc   service.FinanceiroService
	clock clock.Clock
}

func NewFinanceiroHandler(svc service.FinanceiroService, clk clock.Clock) *FinanceiroHandler {
	return &FinanceiroHandler{svc: svc, clock: clk}
}

// ── Ledger ───────────────────────────────────────────────────────────────────

// RegistrarTransacao godoc
// @Summary      Lancamento manual no livro caixa
// @Tags         financeiro
// @Accept       json
// @Produce      json
// @Param        body body     dto.RegistrarTransacaoRequest true "Lancamento"
// @Success      201  {object} dto.TransacaoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/financeiro/transacoes [post]
func (h *FinanceiroHandler) RegistrarTransacao(c *gin.Context) {
	var req dto.RegistrarTransacaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarTransacao(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceiroHandler) RegistrarDespesa(c *gin.Context) {
	var req dto.RegistrarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarDespesa(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceiroHandler) ListarTransacoes(c *gin.Context) {
	inicio, fim, ok := periodoParams(c, h.clock)
	if !ok {
		return
	}
	resp, err := h.svc.ListarTransacoes(c.Request.Context(), inicio, fim)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumoDia godoc
// @Summary      Resumo financeiro do dia
// @Description  Entradas, saidas, saldo e total de vendas (INCOME/SALE) de 00:00:00 a 23:59:59.
// @Tags         financeiro
// @Produce      json
// @Param        data query string false "AAAA-MM-DD, padrao hoje"
// @Success      200 {object} dto.ResumoResponse
// @Router       /v1/financeiro/resumo [get]
func (h *FinanceiroHandler) ResumoDia(c *gin.Context) {
	dia, ok := diaParam(c, h.clock, c.Query("data"))
	if !ok {
		return
	}
	resp, err := h.svc.ResumoDia(c.Request.Context(), dia)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceiroHandler) ResumoPeriodo(c *gin.Context) {
	inicio, fim, ok := periodoParams(c, h.clock)
	if !ok {
		return
	}
	resp, err := h.svc.ResumoPeriodo(c.Request.Context(), inicio, fim)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Closings ─────────────────────────────────────────────────────────────────

// CriarFechamento godoc
// @Summary      Fechamento do dia
// @Description  Congela os totais do dia. So existe um fechamento por data.
// @Tags         financeiro
// @Accept       json
// @Produce      json
// @Param        body body     dto.CriarFechamentoRequest true "Data"
// @Success      201  {object} dto.FechamentoResponse
// @Failure      409  {object} apierror.APIError "fechamento ja existe"
// @Router       /v1/financeiro/fechamentos [post]
func (h *FinanceiroHandler) CriarFechamento(c *gin.Context) {
	var req dto.CriarFechamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarFechamento(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanceiroHandler) ObterFechamento(c *gin.Context) {
	dia, ok := diaParam(c, h.clock, c.Param("data"))
	if !ok {
		return
	}
	resp, err := h.svc.ObterFechamento(c.Request.Context(), dia)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FinanceiroHandler) ExisteFechamento(c *gin.Context) {
	dia, ok := diaParam(c, h.clock, c.Param("data"))
	if !ok {
		return
	}
	existe, err := h.svc.ExisteFechamento(c.Request.Context(), dia)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExisteFechamentoResponse{Data: dia.Format("2006-01-02"), Existe: existe})
}

// ListarFechamentos accepts open-ended ranges: either bound may be omitted.
func (h *FinanceiroHandler) ListarFechamentos(c *gin.Context) {
	var inicio, fim *time.Time
	if raw := c.Query("inicio"); raw != "" {
		d, ok := diaParam(c, h.clock, raw)
		if !ok {
			return
		}
		inicio = &d
	}
	if raw := c.Query("fim"); raw != "" {
		d, ok := diaParam(c, h.clock, raw)
		if !ok {
			return
		}
		fim = &d
	}
	resp, err := h.svc.ListarFechamentos(c.Request.Context(), inicio, fim)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
