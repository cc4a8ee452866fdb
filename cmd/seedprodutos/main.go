// cmd/seedprodutos/main.go: loads a demo catalog into the configured database.
// Products that already exist (same codigo or nome) are skipped.
// Uso: go run ./cmd/seedprodutos
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/config"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/dto"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var demo = []struct {
	codigo, nome, custo, venda string
	estoque                    int
}{
	{"7891000100103", "Cafe Torrado 500g", "11.20", "18.90", 40},
	{"7891910000197", "Acucar Refinado 1kg", "3.10", "4.99", 60},
	{"7896005800010", "Arroz Branco 5kg", "19.50", "27.90", 25},
	{"7896102502138", "Feijao Carioca 1kg", "5.40", "8.49", 35},
	{"7894900011517", "Refrigerante Cola 2L", "6.30", "9.99", 48},
	{"7891000053508", "Leite Integral 1L", "3.80", "5.49", 72},
	{"7896004000015", "Oleo de Soja 900ml", "5.10", "7.79", 30},
	{"2000000000015", "Pao Frances kg", "8.00", "14.90", 20},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.StorageDriver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("seed requires STORAGE_DRIVER=postgres")
	}

	ctx := context.Background()
	db, err := infra.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	catalogo := service.NewCatalogoService(repository.NewGormStore(db), clock.New(cfg.Location()), nil)

	criados := 0
	for _, d := range demo {
		_, err := catalogo.Criar(ctx, dto.CriarProdutoRequest{
			Codigo:     d.codigo,
			Nome:       d.nome,
			PrecoCusto: decimal.RequireFromString(d.custo),
			PrecoVenda: decimal.RequireFromString(d.venda),
			Estoque:    d.estoque,
		})
		switch {
		case errors.Is(err, apperror.ErrDuplicateKey):
			log.Info().Str("codigo", d.codigo).Msg("produto ja existe, ignorado")
		case err != nil:
			log.Fatal().Err(err).Str("codigo", d.codigo).Msg("failed to create product")
		default:
			criados++
		}
	}
	log.Info().Int("criados", criados).Int("total", len(demo)).Msg("catalogo de demonstracao carregado")
}
