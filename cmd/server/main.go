package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/clock"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/config"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/infra"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/repository/memstore"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/router"
	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		db    *gorm.DB
		store repository.Store
	)
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store = memstore.New()
		log.Warn().Msg("using in-memory store, data is lost on restart")
	default:
		db, err = infra.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		store = repository.NewGormStore(db)
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Receipt and email workers only run with Redis; without it receipts are
	// still served on demand by GET /v1/vendas/:id/recibo.
	dispatcher := worker.NewDispatcher(rdb)
	var workers interface{ Wait() }
	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		handlers := map[string]worker.JobHandler{
			worker.JobRecibo: worker.NewReciboWorker(dispatcher, cfg.PDFStoragePath, cfg.StoreName, cfg.ReceiptWidth),
		}
		if mailer.Enabled() {
			handlers[worker.JobEmail] = worker.NewEmailWorker(mailer, infra.NewCircuitBreaker(infra.DefaultBreakerConfig()))
		}
		workers = worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	}

	r := router.New(cfg, router.Deps{
		Store:   store,
		Clock:   clock.New(cfg.Location()),
		DB:      db,
		Redis:   rdb,
		Recibos: dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("driver", cfg.StorageDriver).Msgf("PDV backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if workers != nil {
		workers.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// setupLogger: pretty console output in development, JSON in production.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
