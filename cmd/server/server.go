package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"split-server/internal/config"
	"split-server/internal/domain/conversation"
	"split-server/internal/domain/expense"
	"split-server/internal/domain/identity"
	"split-server/internal/domain/splitbot"
	"split-server/internal/domain/tool"
	"split-server/internal/domain/whitelist"
	"split-server/internal/infrastructure/auth"
	"split-server/internal/infrastructure/database"
	"split-server/internal/infrastructure/ledger"
	"split-server/internal/infrastructure/llmprovider"
	"split-server/internal/infrastructure/logger"
	"split-server/internal/infrastructure/observability"
	"split-server/internal/infrastructure/ocr"
	conversationrepo "split-server/internal/infrastructure/repository/conversation"
	identityrepo "split-server/internal/infrastructure/repository/identity"
	whitelistrepo "split-server/internal/infrastructure/repository/whitelist"
	"split-server/internal/interfaces/httpserver"
	"split-server/internal/interfaces/httpserver/handlers"
)

// @title Split Server API
// @version 1.0
// @description Conversational bill-splitting service: orchestrates an LLM with ledger tools over persisted group conversations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	identityService := identity.NewService(identityrepo.NewPostgresRepository(db), log)
	whitelistService := whitelist.NewService(whitelistrepo.NewPostgresRepository(db), log)
	window := conversation.NewWindow(conversationrepo.NewPostgresStore(db), cfg.MaxContextTurns, log)

	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerToken, cfg.LedgerTimeout, log)
	builder := expense.NewBuilder(identityService, cfg.LedgerBotEmail)
	ledgerTools := expense.NewTools(builder, ledgerClient, cfg.DefaultCurrency, cfg.DefaultCategoryID)

	registry := tool.NewRegistry(append(ledgerTools.Definitions(), tool.NewCalculator())...)
	orchestrator := tool.NewOrchestrator(
		llmprovider.NewClient(cfg.AIBaseURL, cfg.AIToken),
		registry,
		cfg.AIModel,
		cfg.Temperature,
		cfg.MaxToolDepth,
		log,
	)

	ocrClient := ocr.NewClient(cfg.MistralAPIKey, cfg.OCRTimeout, log)
	bot := splitbot.NewService(window, orchestrator, ocrClient, log)

	handlerProvider := handlers.NewProvider(bot, identityService, whitelistService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
