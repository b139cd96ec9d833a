package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contractiq/contractiq/internal/api"
	"github.com/contractiq/contractiq/internal/config"
	"github.com/contractiq/contractiq/internal/parser"
	"github.com/contractiq/contractiq/internal/pipeline"
	"github.com/contractiq/contractiq/internal/qa"
	"github.com/contractiq/contractiq/internal/scorer"
	"github.com/contractiq/contractiq/internal/store"
	"github.com/contractiq/contractiq/internal/windower"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	parser.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Extraction stack: scorer client + window source + decoder.
	sc := scorer.NewHTTPClient(cfg.ScorerURL, cfg.ScorerAPIKey)
	src := windower.New(windower.Config{MaxLength: cfg.MaxLength, Stride: cfg.Stride})
	extractor := qa.New(sc, src, qa.Config{
		BatchSize:            cfg.BatchSize,
		MaxConcurrentBatches: cfg.MaxConcurrentBatches,
		Decode: qa.DecodeConfig{
			NBest:           cfg.NBest,
			MaxAnswerLength: cfg.MaxAnswerLength,
			NullThreshold:   cfg.NullThreshold,
			MinAnswerChars:  5,
		},
	}, log)

	orch := pipeline.NewOrchestrator(cfg, extractor, db, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, db, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		sc.Close()
		db.Close()
	}()

	log.Info("starting contractiq", "port", cfg.Port, "scorer_url", cfg.ScorerURL, "device", cfg.ScorerDevice)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
