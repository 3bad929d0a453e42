package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/erlandi/tempmail-backend/internal/api"
	"github.com/erlandi/tempmail-backend/internal/config"
	"github.com/erlandi/tempmail-backend/internal/database"
	"github.com/erlandi/tempmail-backend/internal/ingest"
	"github.com/erlandi/tempmail-backend/internal/logger"
	"github.com/erlandi/tempmail-backend/internal/repository"
	smtpserver "github.com/erlandi/tempmail-backend/internal/smtp"
	"github.com/erlandi/tempmail-backend/internal/sweeper"
	"github.com/erlandi/tempmail-backend/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Setup logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(log)

	slog.Info("starting tempmail backend")

	// Load configuration
	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg.LogConfig(log)

	// Initialize database connection
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize repositories
	inboxRepo := repository.NewInboxRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Expiry sweeping and inbound acceptance
	events := logger.NewIngestLogger()
	sweep := sweeper.New(inboxRepo, events)

	// WebSocket hub for live inbox updates
	hub := websocket.NewHub(log)
	go hub.Run()

	pipeline := ingest.NewPipeline(&ingest.PipelineConfig{
		Inboxes:  inboxRepo,
		Messages: messageRepo,
		Sweeper:  sweep,
		Notifier: hub,
		Events:   events,
		Domain:   cfg.MailDomain,
		Prefix:   cfg.InboxPrefix,
	})

	// HTTP API
	e := api.NewRouter(&api.RouterConfig{
		DB:          db,
		InboxRepo:   inboxRepo,
		MessageRepo: messageRepo,
		Sweeper:     sweep,
		Hub:         hub,
		Config:      cfg,
		Logger:      log,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		slog.Info("HTTP server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil {
			slog.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	// SMTP server
	backend := smtpserver.NewBackend(pipeline, log)
	smtpSrv := smtpserver.NewServer(backend, &smtpserver.ServerConfig{
		Addr:   fmt.Sprintf(":%d", cfg.SMTPPort),
		Domain: cfg.MailDomain,
	})

	go func() {
		slog.Info("SMTP server listening", slog.String("addr", smtpSrv.Addr))
		if err := smtpSrv.ListenAndServe(); err != nil {
			slog.Error("SMTP server stopped", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := smtpSrv.Close(); err != nil {
		slog.Error("SMTP shutdown failed", slog.Any("error", err))
	}

	if err := e.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", slog.Any("error", err))
	}

	if err := database.Close(db); err != nil {
		slog.Error("database close failed", slog.Any("error", err))
	}

	slog.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
