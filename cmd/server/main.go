package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/verse-labs/verse-bank/internal/api"
	"github.com/verse-labs/verse-bank/internal/config"
	"github.com/verse-labs/verse-bank/internal/events/kafka"
	"github.com/verse-labs/verse-bank/internal/events/noop"
	"github.com/verse-labs/verse-bank/internal/interfaces"
	"github.com/verse-labs/verse-bank/internal/ledger"
	"github.com/verse-labs/verse-bank/internal/platform/logger"
	"github.com/verse-labs/verse-bank/internal/storage/postgres"
)

const eventsTopic = "account_events"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal("database unreachable", "host", cfg.DBHost, "port", cfg.DBPort, "error", err)
	}

	var publisher interfaces.EventPublisher = noop.NewPublisher()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, eventsTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", eventsTopic)
	}

	store := postgres.NewAccountStore(db)
	registry := ledger.NewRegistry(store, publisher, log)
	ledgerService := ledger.NewService(store, publisher, log)

	if err := registry.EnsureSchema(startupCtx); err != nil {
		log.Fatal("schema setup failed", "error", err)
	}
	if err := registry.SeedIfEmpty(startupCtx); err != nil {
		log.Fatal("seeding failed", "error", err)
	}

	handler := api.NewHandler(registry, ledgerService, log)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(handler),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", "error", err)
	}
}
