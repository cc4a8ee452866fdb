package handler

import (
	"net/http"
	"strconv"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apierror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	dlqLimitePadrao = 50
	dlqLimiteMaximo = 500
)

var filasDLQ = map[string]string{
	"recibo": worker.QueueRecibo,
	"email":  worker.QueueEmail,
}

// DLQHandler lets operators inspect jobs that exhausted their retries.
type DLQHandler struct {
	rdb *redis.Client
}

func NewDLQHandler(rdb *redis.Client) *DLQHandler {
	return &DLQHandler{rdb: rdb}
}

// Listar godoc
// @Summary      Jobs na fila de mensagens mortas
// @Tags         admin
// @Produce      json
// @Param        fila    path   string  true   "recibo | email"
// @Param        limite  query  int     false  "maximo de entradas (padrao 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  apierror.APIError
// @Failure      503  {object}  apierror.APIError
// @Router       /v1/admin/dlq/{fila} [get]
func (h *DLQHandler) Listar(c *gin.Context) {
	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, apierror.WithCode("queue_disabled", "Fila de jobs desabilitada"))
		return
	}
	fila, ok := filasDLQ[c.Param("fila")]
	if !ok {
		c.JSON(http.StatusNotFound, apierror.WithCode("not_found", "Fila desconhecida"))
		return
	}

	limite := dlqLimitePadrao
	if raw := c.Query("limite"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > dlqLimiteMaximo {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"limite": "deve estar entre 1 e 500"}))
			return
		}
		limite = n
	}

	ctx := c.Request.Context()
	tamanho, err := worker.DLQLength(ctx, h.rdb, fila)
	if err != nil {
		_ = c.Error(err)
		return
	}
	jobs, err := worker.ListDLQ(ctx, h.rdb, fila, int64(limite))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fila":    fila,
		"tamanho": tamanho,
		"jobs":    jobs,
	})
}
