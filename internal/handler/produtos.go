package handler

import (
	"net/http"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/gin-gonic/gin"
)

type ProdutosHandler struct{ svc service.CatalogoService }

func NewProdutosHandler(svc service.CatalogoService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

// Criar godoc
// @Summary      Cadastrar produto
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Param        body body     dto.CriarProdutoRequest true "Produto"
// @Success      201  {object} dto.ProdutoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.CriarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Buscar produtos por nome ou codigo
// @Description  Sem termo lista o catalogo; inativos=true inclui produtos desativados.
// @Tags         produtos
// @Produce      json
// @Param        termo    query string false "Trecho do nome ou codigo"
// @Param        inativos query bool   false "Incluir inativos"
// @Success      200 {array} dto.ProdutoResponse
// @Router       /v1/produtos [get]
func (h *ProdutosHandler) Listar(c *gin.Context) {
	var filter dto.ProdutoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, err)
		return
	}
	var (
		resp []dto.ProdutoResponse
		err  error
	)
	if filter.Termo != "" {
		resp, err = h.svc.Buscar(c.Request.Context(), filter.Termo)
	} else {
		resp, err = h.svc.Listar(c.Request.Context(), filter.Inativos)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ObterPorCodigo(c *gin.Context) {
	resp, err := h.svc.ObterPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary      Atualizar produto
// @Description  Atualizacao parcial. O estoque so muda pelo endpoint de ajuste.
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Param        id   path     string                      true "UUID do produto"
// @Param        body body     dto.AtualizarProdutoRequest true "Campos alterados"
// @Success      200  {object} dto.ProdutoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/produtos/{id} [put]
func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarProdutoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) Desativar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProdutosHandler) Reativar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reativar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AjustarEstoque godoc
// @Summary      Ajuste manual de estoque
// @Description  Delta positivo repoe, negativo baixa. O estoque nunca fica negativo.
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Param        id   path     string                    true "UUID do produto"
// @Param        body body     dto.AjustarEstoqueRequest true "Ajuste"
// @Success      200  {object} dto.ProdutoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/produtos/{id}/estoque [patch]
func (h *ProdutosHandler) AjustarEstoque(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarEstoqueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarEstoque(c.Request.Context(), id, req.Delta, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdutosHandler) ListarMovimentos(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimentos(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValorEstoque returns Σ estoque × preco_custo over active products.
func (h *ProdutosHandler) ValorEstoque(c *gin.Context) {
	valor, err := h.svc.ValorEstoque(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ValorEstoqueResponse{Valor: valor})
}
