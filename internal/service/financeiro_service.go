package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/model"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// FinanceiroService is the append-only ledger and the daily closings built on it.
type FinanceiroService interface {
	RegistrarTransacao(ctx context.Context, req dto.RegistrarTransacaoRequest) (*dto.TransacaoResponse, error)
	RegistrarDespesa(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.TransacaoResponse, error)
	ListarTransacoes(ctx context.Context, inicio, fim time.Time) ([]dto.TransacaoResponse, error)
	// ResumoDia is a pure read over the same rows ListarTransacoes returns for the day.
	ResumoDia(ctx context.Context, dia time.Time) (*dto.ResumoResponse, error)
	ResumoPeriodo(ctx context.Context, inicio, fim time.Time) (*dto.ResumoResponse, error)
	CriarFechamento(ctx context.Context, req dto.CriarFechamentoRequest) (*dto.FechamentoResponse, error)
	ObterFechamento(ctx context.Context, dia time.Time) (*dto.FechamentoResponse, error)
	ListarFechamentos(ctx context.Context, inicio, fim *time.Time) ([]dto.FechamentoResponse, error)
	ExisteFechamento(ctx context.Context, dia time.Time) (bool, error)
}

type financeiroService struct {
	store repository.Store
	clock clock.Clock
}

func NewFinanceiroService(store repository.Store, clk clock.Clock) FinanceiroService {
	return &financeiroService{store: store, clock: clk}
}

// dataFechamento is the closing key: the calendar date at UTC midnight, which
// is how a Postgres date column round-trips.
func dataFechamento(dia time.Time, loc *time.Location) time.Time {
	d := dia.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// ── Lançamentos ───────────────────────────────────────────────────────────────

func (s *financeiroService) RegistrarTransacao(ctx context.Context, req dto.RegistrarTransacaoRequest) (*dto.TransacaoResponse, error) {
	fields := map[string]string{}
	tipo := model.TipoTransacao(strings.ToUpper(strings.TrimSpace(req.Tipo)))
	if !tipo.Valido() {
		fields["tipo"] = "deve ser INCOME ou EXPENSE"
	}
	categoria := model.CategoriaTransacao(strings.ToUpper(strings.TrimSpace(req.Categoria)))
	if !categoria.Valida() {
		fields["categoria"] = "deve ser SALE, EXPENSE, REFUND ou ADJUSTMENT"
	}
	descricao := strings.TrimSpace(req.Descricao)
	if descricao == "" {
		fields["descricao"] = "obrigatoria"
	} else if utf8.RuneCountInString(descricao) > model.MaxDescricao {
		fields["descricao"] = fmt.Sprintf("no maximo %d caracteres", model.MaxDescricao)
	}
	if !req.Valor.IsPositive() {
		fields["valor"] = "deve ser maior que zero"
	} else if !centavos(req.Valor) {
		fields["valor"] = "no maximo 2 casas decimais"
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	agora := s.clock.Now()
	data := agora
	if req.DataTransacao != nil {
		data = *req.DataTransacao
	}
	t := &model.Transacao{
		ID:            uuid.New(),
		Tipo:          tipo,
		Categoria:     categoria,
		Descricao:     descricao,
		Valor:         req.Valor,
		DataTransacao: data,
		Observacoes:   req.Observacoes,
		CreatedAt:     agora,
	}
	if err := s.store.Transacoes().Create(ctx, t); err != nil {
		return nil, err
	}
	log.Info().
		Str("transacao_id", t.ID.String()).
		Str("tipo", string(t.Tipo)).
		Str("categoria", string(t.Categoria)).
		Str("valor", t.Valor.StringFixed(2)).
		Msg("transacao registrada")
	resp := transacaoToResponse(*t)
	return &resp, nil
}

func (s *financeiroService) RegistrarDespesa(ctx context.Context, req dto.RegistrarDespesaRequest) (*dto.TransacaoResponse, error) {
	return s.RegistrarTransacao(ctx, dto.RegistrarTransacaoRequest{
		Tipo:        string(model.TipoSaida),
		Categoria:   string(model.CategoriaDespesa),
		Descricao:   req.Descricao,
		Valor:       req.Valor,
		Observacoes: req.Observacoes,
	})
}

func (s *financeiroService) ListarTransacoes(ctx context.Context, inicio, fim time.Time) ([]dto.TransacaoResponse, error) {
	ini, _ := clock.Dia(inicio, s.clock.Location())
	_, f := clock.Dia(fim, s.clock.Location())
	if ini.After(f) {
		return nil, apperror.Validation("inicio posterior ao fim")
	}
	ts, err := s.store.Transacoes().List(ctx, ini, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransacaoResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, transacaoToResponse(t))
	}
	return out, nil
}

// ── Resumos ───────────────────────────────────────────────────────────────────

type totais struct {
	entradas     decimal.Decimal
	saidas       decimal.Decimal
	vendas       decimal.Decimal
	transacoes   int
	qtdVendas    int
	vendasFinais decimal.Decimal
}

// somar aggregates ledger rows and finalized sales already loaded for a window.
func somar(ts []model.Transacao, vs []model.Venda) totais {
	t := totais{
		entradas:     decimal.Zero,
		saidas:       decimal.Zero,
		vendas:       decimal.Zero,
		vendasFinais: decimal.Zero,
	}
	for _, tr := range ts {
		switch tr.Tipo {
		case model.TipoEntrada:
			t.entradas = t.entradas.Add(tr.Valor)
			if tr.Categoria == model.CategoriaVenda {
				t.vendas = t.vendas.Add(tr.Valor)
			}
		case model.TipoSaida:
			t.saidas = t.saidas.Add(tr.Valor)
		}
	}
	t.transacoes = len(ts)
	for i := range vs {
		t.vendasFinais = t.vendasFinais.Add(vs[i].TotalFinal())
	}
	t.qtdVendas = len(vs)
	return t
}

func (s *financeiroService) carregar(ctx context.Context, st repository.Store, inicio, fim time.Time) (totais, error) {
	ts, err := st.Transacoes().List(ctx, inicio, fim)
	if err != nil {
		return totais{}, err
	}
	vs, err := st.Vendas().ListFinalizadas(ctx, inicio, fim)
	if err != nil {
		return totais{}, err
	}
	return somar(ts, vs), nil
}

func (s *financeiroService) ResumoDia(ctx context.Context, dia time.Time) (*dto.ResumoResponse, error) {
	return s.ResumoPeriodo(ctx, dia, dia)
}

func (s *financeiroService) ResumoPeriodo(ctx context.Context, inicio, fim time.Time) (*dto.ResumoResponse, error) {
	loc := s.clock.Location()
	ini, _ := clock.Dia(inicio, loc)
	_, f := clock.Dia(fim, loc)
	if ini.After(f) {
		return nil, apperror.Validation("inicio posterior ao fim")
	}
	t, err := s.carregar(ctx, s.store, ini, f)
	if err != nil {
		return nil, err
	}
	return &dto.ResumoResponse{
		Inicio:               ini.Format(model.DataLayout),
		Fim:                  f.Format(model.DataLayout),
		TotalEntradas:        t.entradas,
		TotalSaidas:          t.saidas,
		Saldo:                t.entradas.Sub(t.saidas),
		TotalVendas:          t.vendas,
		QuantidadeVendas:     t.qtdVendas,
		QuantidadeTransacoes: t.transacoes,
	}, nil
}

// ── Fechamentos ───────────────────────────────────────────────────────────────

func (s *financeiroService) CriarFechamento(ctx context.Context, req dto.CriarFechamentoRequest) (*dto.FechamentoResponse, error) {
	loc := s.clock.Location()
	dia, err := clock.ParseDia(req.Data, loc)
	if err != nil {
		return nil, apperror.ValidationFields(map[string]string{"data": "formato esperado AAAA-MM-DD"})
	}
	inicio, fim := clock.Dia(dia, loc)
	data := dataFechamento(dia, loc)

	var f *model.Fechamento
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		existe, err := tx.Fechamentos().Exists(ctx, data)
		if err != nil {
			return err
		}
		if existe {
			return apperror.DuplicateClosing(req.Data)
		}
		t, err := s.carregar(ctx, tx, inicio, fim)
		if err != nil {
			return err
		}
		f = &model.Fechamento{
			ID:                   uuid.New(),
			Data:                 data,
			TotalVendas:          t.vendasFinais,
			TotalDespesas:        t.saidas,
			TotalEntradas:        t.entradas,
			Saldo:                t.entradas.Sub(t.saidas),
			QuantidadeTransacoes: t.transacoes,
			QuantidadeVendas:     t.qtdVendas,
			Observacoes:          req.Observacoes,
			CreatedAt:            s.clock.Now(),
		}
		return tx.Fechamentos().Create(ctx, f)
	})
	if errors.Is(err, apperror.ErrDuplicateKey) {
		return nil, apperror.DuplicateClosing(req.Data)
	}
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("data", req.Data).
		Str("saldo", f.Saldo.StringFixed(2)).
		Int("transacoes", f.QuantidadeTransacoes).
		Msg("fechamento criado")
	return fechamentoToResponse(f), nil
}

func (s *financeiroService) ObterFechamento(ctx context.Context, dia time.Time) (*dto.FechamentoResponse, error) {
	f, err := s.store.Fechamentos().FindByData(ctx, dataFechamento(dia, s.clock.Location()))
	if err != nil {
		return nil, err
	}
	return fechamentoToResponse(f), nil
}

func (s *financeiroService) ListarFechamentos(ctx context.Context, inicio, fim *time.Time) ([]dto.FechamentoResponse, error) {
	loc := s.clock.Location()
	var filter repository.FechamentoFilter
	if inicio != nil {
		d := dataFechamento(*inicio, loc)
		filter.Inicio = &d
	}
	if fim != nil {
		d := dataFechamento(*fim, loc)
		filter.Fim = &d
	}
	if filter.Inicio != nil && filter.Fim != nil && filter.Inicio.After(*filter.Fim) {
		return nil, apperror.Validation("inicio posterior ao fim")
	}
	fs, err := s.store.Fechamentos().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FechamentoResponse, 0, len(fs))
	for i := range fs {
		out = append(out, *fechamentoToResponse(&fs[i]))
	}
	return out, nil
}

func (s *financeiroService) ExisteFechamento(ctx context.Context, dia time.Time) (bool, error) {
	return s.store.Fechamentos().Exists(ctx, dataFechamento(dia, s.clock.Location()))
}
