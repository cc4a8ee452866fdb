package handler

import (
	"net/http"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apierror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/gin-gonic/gin"
)

// ConsultaPrecosHandler serves the price check endpoint, read-through the
// Redis price cache.
type ConsultaPrecosHandler struct {
	svc   service.CatalogoService
	cache *infra.PrecoCache
}

func NewConsultaPrecosHandler(svc service.CatalogoService, cache *infra.PrecoCache) *ConsultaPrecosHandler {
	return &ConsultaPrecosHandler{svc: svc, cache: cache}
}

// GetPrecoPorCodigo godoc
// @Summary Consulta de preco por codigo
// @Tags preco
// @Produce json
// @Param codigo path string true "Codigo do produto"
// @Success 200 {object} dto.ConsultaPrecoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/preco/{codigo} [get]
func (h *ConsultaPrecosHandler) GetPrecoPorCodigo(c *gin.Context) {
	ctx := c.Request.Context()
	codigo := c.Param("codigo")

	if cached, ok := h.cache.Get(ctx, codigo); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	p, err := h.svc.ObterPorCodigo(ctx, codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	if !p.Ativo {
		c.JSON(http.StatusNotFound, apierror.WithCode("not_found", "produto nao encontrado"))
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Codigo:            p.Codigo,
		Nome:              p.Nome,
		PrecoVenda:        p.PrecoVenda,
		EstoqueDisponivel: p.Estoque,
	}
	h.cache.Set(ctx, resp)
	c.JSON(http.StatusOK, resp)
}
