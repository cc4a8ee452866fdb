package handler

import (
	"fmt"
	"net/http"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/gin-gonic/gin"
)

// VendasHandler exposes the cart and checkout of a sale.
type VendasHandler struct {
	vendas   service.VendaService
	checkout service.CheckoutService
	clock    clock.Clock
	loja     string
	largura  int
}

func NewVendasHandler(vendas service.VendaService, checkout service.CheckoutService, clk clock.Clock, loja string, largura int) *VendasHandler {
	return &VendasHandler{vendas: vendas, checkout: checkout, clock: clk, loja: loja, largura: largura}
}

// ── Cart ─────────────────────────────────────────────────────────────────────

// Abrir godoc
// @Summary      Abrir venda
// @Description  Cria uma venda vazia com o proximo numero sequencial.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Param        body body     dto.AbrirVendaRequest true "Forma de pagamento"
// @Success      201  {object} dto.CarrinhoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/vendas [post]
func (h *VendasHandler) Abrir(c *gin.Context) {
	var req dto.AbrirVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.vendas.Abrir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VendasHandler) ObterCarrinho(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.vendas.ObterCarrinho(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarItem godoc
// @Summary      Adicionar item ao carrinho
// @Description  Informe produto_id ou codigo. Linhas do mesmo produto sao somadas e mantem o preco da primeira inclusao.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Param        id   path     string                   true "UUID da venda"
// @Param        body body     dto.AdicionarItemRequest true "Item"
// @Success      200  {object} dto.CarrinhoResponse
// @Failure      400  {object} apierror.APIError "estoque insuficiente"
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "venda finalizada ou produto inativo"
// @Router       /v1/vendas/{id}/itens [post]
func (h *VendasHandler) AdicionarItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdicionarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.vendas.AdicionarItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) DefinirQuantidade(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}
	var req dto.DefinirQuantidadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.vendas.DefinirQuantidade(c.Request.Context(), id, itemID, req.Quantidade)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) RemoverItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.vendas.RemoverItem(c.Request.Context(), id, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) AplicarDesconto(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AplicarDescontoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.vendas.AplicarDesconto(c.Request.Context(), id, req.Valor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary      Cancelar venda aberta
// @Tags         vendas
// @Param        id path string true "UUID da venda"
// @Success      204
// @Failure      409 {object} apierror.APIError "venda ja finalizada"
// @Router       /v1/vendas/{id} [delete]
func (h *VendasHandler) Cancelar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.vendas.Cancelar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Checkout ─────────────────────────────────────────────────────────────────

// Finalizar godoc
// @Summary      Finalizar venda
// @Description  Confere pagamento, baixa estoque, lanca a receita e congela a venda numa unica transacao.
// @Tags         vendas
// @Accept       json
// @Produce      json
// @Param        id   path     string                    true "UUID da venda"
// @Param        body body     dto.FinalizarVendaRequest true "Pagamento"
// @Success      200  {object} dto.VendaResponse
// @Failure      400  {object} apierror.APIError "pagamento ou estoque insuficiente"
// @Failure      409  {object} apierror.APIError "venda ja finalizada"
// @Router       /v1/vendas/{id}/finalizar [post]
func (h *VendasHandler) Finalizar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.FinalizarVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) ObterVenda(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.checkout.ObterVenda(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarDia godoc
// @Summary      Vendas finalizadas de um dia
// @Tags         vendas
// @Produce      json
// @Param        data query string false "AAAA-MM-DD, padrao hoje"
// @Success      200 {object} dto.VendasDiaResponse
// @Router       /v1/vendas [get]
func (h *VendasHandler) ListarDia(c *gin.Context) {
	dia, ok := diaParam(c, h.clock, c.Query("data"))
	if !ok {
		return
	}
	resp, err := h.checkout.ListarVendasDia(c.Request.Context(), dia)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VendasHandler) Devolver(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.DevolverVendaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.checkout.Devolver(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recibo godoc
// @Summary      Recibo em PDF
// @Tags         vendas
// @Produce      application/pdf
// @Param        id path string true "UUID da venda"
// @Success      200 {file} binary
// @Failure      409 {object} apierror.APIError "venda nao finalizada"
// @Router       /v1/vendas/{id}/recibo [get]
func (h *VendasHandler) Recibo(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	venda, err := h.checkout.ObterVenda(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	pdf, err := infra.RenderRecibo(*venda, h.loja, h.largura)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="recibo_%06d.pdf"`, venda.Numero))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
