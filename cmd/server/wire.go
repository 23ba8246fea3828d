//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"split-server/internal/config"
	"split-server/internal/domain/conversation"
	"split-server/internal/domain/expense"
	"split-server/internal/domain/identity"
	"split-server/internal/domain/llm"
	"split-server/internal/domain/splitbot"
	"split-server/internal/domain/tool"
	"split-server/internal/domain/whitelist"
	"split-server/internal/infrastructure/auth"
	"split-server/internal/infrastructure/database"
	"split-server/internal/infrastructure/ledger"
	"split-server/internal/infrastructure/llmprovider"
	"split-server/internal/infrastructure/logger"
	"split-server/internal/infrastructure/ocr"
	conversationrepo "split-server/internal/infrastructure/repository/conversation"
	identityrepo "split-server/internal/infrastructure/repository/identity"
	whitelistrepo "split-server/internal/infrastructure/repository/whitelist"
	"split-server/internal/interfaces/httpserver"
	"split-server/internal/interfaces/httpserver/handlers"
)

var splitSet = wire.NewSet(
	identityrepo.NewPostgresRepository,
	wire.Bind(new(identity.Repository), new(*identityrepo.PostgresRepository)),
	whitelistrepo.NewPostgresRepository,
	wire.Bind(new(whitelist.Repository), new(*whitelistrepo.PostgresRepository)),
	conversationrepo.NewPostgresStore,
	wire.Bind(new(conversation.Store), new(*conversationrepo.PostgresStore)),
	identity.NewService,
	whitelist.NewService,
	newWindow,
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newLedgerClient,
	wire.Bind(new(expense.Gateway), new(*ledger.Client)),
	newBuilder,
	newTools,
	newRegistry,
	newOrchestrator,
	newOCRClient,
	wire.Bind(new(splitbot.OCRClient), new(*ocr.Client)),
	splitbot.NewService,
	handlers.NewProvider,
)

// BuildApplication demonstrates how to assemble the split service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		splitSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newWindow(store conversation.Store, cfg *config.Config, log zerolog.Logger) *conversation.Window {
	return conversation.NewWindow(store, cfg.MaxContextTurns, log)
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.AIBaseURL, cfg.AIToken)
}

func newLedgerClient(cfg *config.Config, log zerolog.Logger) *ledger.Client {
	return ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerToken, cfg.LedgerTimeout, log)
}

func newBuilder(directory *identity.Service, cfg *config.Config) *expense.Builder {
	return expense.NewBuilder(directory, cfg.LedgerBotEmail)
}

func newTools(builder *expense.Builder, gateway expense.Gateway, cfg *config.Config) *expense.Tools {
	return expense.NewTools(builder, gateway, cfg.DefaultCurrency, cfg.DefaultCategoryID)
}

func newRegistry(ledgerTools *expense.Tools) *tool.Registry {
	return tool.NewRegistry(append(ledgerTools.Definitions(), tool.NewCalculator())...)
}

func newOrchestrator(cfg *config.Config, provider llm.Provider, registry *tool.Registry, log zerolog.Logger) *tool.Orchestrator {
	return tool.NewOrchestrator(provider, registry, cfg.AIModel, cfg.Temperature, cfg.MaxToolDepth, log)
}

func newOCRClient(cfg *config.Config, log zerolog.Logger) *ocr.Client {
	return ocr.NewClient(cfg.MistralAPIKey, cfg.OCRTimeout, log)
}
