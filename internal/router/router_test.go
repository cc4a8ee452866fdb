package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/config"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository/memstore"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

// ── Helpers ──────────────────────────────────────────────────────────────────

var brt = time.FixedZone("BRT", -3*60*60)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Env:            "test",
		StorageDriver:  config.DriverMemory,
		Timezone:       "America/Sao_Paulo",
		StoreName:      "Mercadinho Central",
		ReceiptWidth:   80,
		WorkerPoolSize: 1,
	}
	srv := httptest.NewServer(New(cfg, Deps{
		Store: memstore.New(),
		Clock: clock.NewFixed(time.Date(2024, 3, 15, 10, 0, 0, 0, brt)),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = body
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type apiErr struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func expectError(t *testing.T, resp *http.Response, status int, code string) apiErr {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	var e apiErr
	decodeJSON(t, resp, &e)
	assert.Equal(t, code, e.Code)
	return e
}

func criarProduto(t *testing.T, srv *httptest.Server, codigo, nome, preco string, estoque int) dto.ProdutoResponse {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/v1/produtos", jsonBody(t, map[string]any{
		"codigo":      codigo,
		"nome":        nome,
		"preco_custo": "1.00",
		"preco_venda": preco,
		"estoque":     estoque,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProdutoResponse
	decodeJSON(t, resp, &p)
	return p
}

func abrirVenda(t *testing.T, srv *httptest.Server) dto.CarrinhoResponse {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/v1/vendas", jsonBody(t, map[string]any{"forma_pagamento": "dinheiro"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c dto.CarrinhoResponse
	decodeJSON(t, resp, &c)
	return c
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealthWithMemoryStore(t *testing.T) {
	srv := newServer(t)
	resp := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "memory", body["db"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestFullSaleCycle(t *testing.T) {
	srv := newServer(t)
	cafe := criarProduto(t, srv, "789100", "Cafe 500g", "18.90", 10)
	criarProduto(t, srv, "789200", "Pao de Queijo", "9.70", 5)

	venda := abrirVenda(t, srv)
	assert.Equal(t, 1, venda.Numero)

	resp := do(t, srv, http.MethodPost, "/v1/vendas/"+venda.VendaID+"/itens",
		jsonBody(t, map[string]any{"produto_id": cafe.ID, "quantidade": 2}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	codigo := "789200"
	resp = do(t, srv, http.MethodPost, "/v1/vendas/"+venda.VendaID+"/itens",
		jsonBody(t, map[string]any{"codigo": codigo, "quantidade": 1}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var carrinho dto.CarrinhoResponse
	decodeJSON(t, resp, &carrinho)
	assert.True(t, carrinho.Total.Equal(decimal.RequireFromString("47.50")), carrinho.Total.String())

	resp = do(t, srv, http.MethodPost, "/v1/vendas/"+venda.VendaID+"/finalizar",
		jsonBody(t, map[string]any{"valor_pago": "50.00"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var final dto.VendaResponse
	decodeJSON(t, resp, &final)
	assert.True(t, final.Troco.Equal(decimal.RequireFromString("2.50")))

	// stock debited
	resp = do(t, srv, http.MethodGet, "/v1/produtos/"+cafe.ID, nil)
	var p dto.ProdutoResponse
	decodeJSON(t, resp, &p)
	assert.Equal(t, 8, p.Estoque)

	// ledger and day listing
	resp = do(t, srv, http.MethodGet, "/v1/financeiro/resumo?data=2024-03-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resumo dto.ResumoResponse
	decodeJSON(t, resp, &resumo)
	assert.True(t, resumo.TotalVendas.Equal(decimal.RequireFromString("47.50")))

	resp = do(t, srv, http.MethodGet, "/v1/vendas?data=2024-03-15", nil)
	var dia dto.VendasDiaResponse
	decodeJSON(t, resp, &dia)
	assert.Equal(t, 1, dia.Quantidade)

	// receipt
	resp = do(t, srv, http.MethodGet, "/v1/vendas/"+venda.VendaID+"/recibo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recibo_000001.pdf")
	resp.Body.Close()

	// finalized sale is frozen
	resp = do(t, srv, http.MethodDelete, "/v1/vendas/"+venda.VendaID, nil)
	expectError(t, resp, http.StatusConflict, "invalid_state")
}

func TestDevolucaoMotivoLimits(t *testing.T) {
	srv := newServer(t)
	p := criarProduto(t, srv, "555", "Mouse sem fio", "60.00", 1)
	venda := abrirVenda(t, srv)
	base := "/v1/vendas/" + venda.VendaID

	resp := do(t, srv, http.MethodPost, base+"/itens", jsonBody(t, map[string]any{"produto_id": p.ID, "quantidade": 1}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, srv, http.MethodPost, base+"/finalizar", jsonBody(t, map[string]any{"valor_pago": "60.00"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, base+"/devolucao", jsonBody(t, map[string]any{"motivo": strings.Repeat("r", 201)}))
	expectError(t, resp, http.StatusUnprocessableEntity, "validation")

	resp = do(t, srv, http.MethodPost, base+"/devolucao", jsonBody(t, map[string]any{"motivo": strings.Repeat("r", 200)}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v dto.VendaResponse
	decodeJSON(t, resp, &v)
	assert.NotNil(t, v.DevolvidaEm)
}

func TestDLQWithoutRedis(t *testing.T) {
	srv := newServer(t)
	resp := do(t, srv, http.MethodGet, "/v1/admin/dlq/recibo", nil)
	expectError(t, resp, http.StatusServiceUnavailable, "queue_disabled")
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t)
	p := criarProduto(t, srv, "111", "Agua Mineral", "2.50", 1)
	venda := abrirVenda(t, srv)
	base := "/v1/vendas/" + venda.VendaID

	resp := do(t, srv, http.MethodPost, base+"/itens", jsonBody(t, map[string]any{"produto_id": p.ID, "quantidade": 2}))
	expectError(t, resp, http.StatusBadRequest, "insufficient_stock")

	resp = do(t, srv, http.MethodPost, base+"/itens", jsonBody(t, map[string]any{"produto_id": p.ID, "quantidade": 0}))
	expectError(t, resp, http.StatusUnprocessableEntity, "validation")

	resp = do(t, srv, http.MethodPost, base+"/itens", jsonBody(t, map[string]any{"codigo": "nao-existe", "quantidade": 1}))
	expectError(t, resp, http.StatusNotFound, "not_found")

	resp = do(t, srv, http.MethodPost, base+"/itens", jsonBody(t, map[string]any{"produto_id": p.ID, "quantidade": 1}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodPost, base+"/desconto", jsonBody(t, map[string]any{"valor": "3.00"}))
	expectError(t, resp, http.StatusBadRequest, "invalid_discount")

	resp = do(t, srv, http.MethodPost, base+"/finalizar", jsonBody(t, map[string]any{"valor_pago": "2.49"}))
	expectError(t, resp, http.StatusBadRequest, "insufficient_payment")

	resp = do(t, srv, http.MethodGet, "/v1/vendas/nao-e-uuid", nil)
	expectError(t, resp, http.StatusBadRequest, "bad_request")

	resp = do(t, srv, http.MethodPost, "/v1/produtos", jsonBody(t, map[string]any{"codigo": "111", "nome": "Outra Agua", "preco_venda": "1.00"}))
	expectError(t, resp, http.StatusConflict, "duplicate_key")

	resp = do(t, srv, http.MethodPost, "/v1/produtos", jsonBody(t, map[string]any{"codigo": "222", "nome": "X", "preco_venda": "1.00"}))
	e := expectError(t, resp, http.StatusUnprocessableEntity, "validation")
	assert.Contains(t, e.Fields, "Nome")
}

func TestFechamentoEndpoints(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodPost, "/v1/financeiro/despesas",
		jsonBody(t, map[string]any{"descricao": "Conta de luz", "valor": "15.00"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/financeiro/fechamentos/2024-03-15/existe", nil)
	var ex dto.ExisteFechamentoResponse
	decodeJSON(t, resp, &ex)
	assert.False(t, ex.Existe)

	resp = do(t, srv, http.MethodPost, "/v1/financeiro/fechamentos", jsonBody(t, map[string]any{"data": "2024-03-15"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var f dto.FechamentoResponse
	decodeJSON(t, resp, &f)
	assert.Equal(t, "2024-03-15", f.Data)
	assert.True(t, f.Saldo.Equal(decimal.RequireFromString("-15")))

	resp = do(t, srv, http.MethodPost, "/v1/financeiro/fechamentos", jsonBody(t, map[string]any{"data": "2024-03-15"}))
	expectError(t, resp, http.StatusConflict, "duplicate_closing")

	resp = do(t, srv, http.MethodGet, "/v1/financeiro/fechamentos/2024-03-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/financeiro/fechamentos/2024-03-14", nil)
	expectError(t, resp, http.StatusNotFound, "not_found")

	resp = do(t, srv, http.MethodGet, "/v1/financeiro/fechamentos/15-03-2024", nil)
	expectError(t, resp, http.StatusUnprocessableEntity, "validation")

	resp = do(t, srv, http.MethodGet, "/v1/financeiro/fechamentos?inicio=2024-03-01&fim=2024-03-31", nil)
	var fs []dto.FechamentoResponse
	decodeJSON(t, resp, &fs)
	assert.Len(t, fs, 1)
}

func TestRelatorios(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/v1/relatorios/dia/2024-03-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/relatorios/transacoes.xlsx?inicio=2024-03-01&fim=2024-03-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "transacoes_2024-03-01_2024-03-15.xlsx")
	resp.Body.Close()
}

func TestConsultaPrecoWithoutCache(t *testing.T) {
	srv := newServer(t)
	p := criarProduto(t, srv, "789300", "Arroz 5kg", "27.90", 4)

	resp := do(t, srv, http.MethodGet, "/v1/preco/789300", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c dto.ConsultaPrecoResponse
	decodeJSON(t, resp, &c)
	assert.Equal(t, "Arroz 5kg", c.Nome)
	assert.Equal(t, 4, c.EstoqueDisponivel)

	resp = do(t, srv, http.MethodDelete, "/v1/produtos/"+p.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/v1/preco/789300", nil)
	expectError(t, resp, http.StatusNotFound, "not_found")
}
