package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "enjez/docs"
	"enjez/internal/api"
	"enjez/internal/api/handlers"
	"enjez/internal/repository"
	"enjez/internal/service"
	"enjez/migrations"
	"enjez/pkg/auth"
	"enjez/pkg/config"
	"enjez/pkg/logger"
	"enjez/pkg/postgres"

	"go.uber.org/zap"
)

// @title Enjez API
// @version 1.0
// @description Home services marketplace with a catalog-grounded customer assistant

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Enjez service",
		zap.String("knowledge_store", cfg.RAG.KnowledgeStore),
		zap.String("embedding_provider", cfg.LLM.EmbeddingProvider),
		zap.String("generation_provider", cfg.LLM.GenerationProvider),
	)

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.ApplySchema(ctx, db, migrations.FS, appLogger); err != nil {
			appLogger.Fatal("Failed to apply schema", zap.Error(err))
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db, logger.Named("users"))
	serviceRepo := repository.NewServiceRepository(db, logger.Named("services"))
	categoryRepo := repository.NewCategoryRepository(db, logger.Named("categories"))
	bookingRepo := repository.NewBookingRepository(db, logger.Named("bookings"))

	var knowledgeStore service.KnowledgeStore
	switch cfg.RAG.KnowledgeStore {
	case config.StoreQdrant:
		qdrantStore, err := repository.NewQdrantKnowledgeStore(ctx, &cfg.Qdrant, logger.Named("qdrant"))
		if err != nil {
			appLogger.Fatal("Failed to initialize Qdrant knowledge store", zap.Error(err))
		}
		defer qdrantStore.Close()
		knowledgeStore = qdrantStore
	default:
		knowledgeStore = repository.NewKnowledgeRepository(db, logger.Named("knowledge"))
	}

	aiClients, err := service.NewAIClients(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI clients", zap.Error(err))
	}
	defer aiClients.Close()

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, logger.Named("auth"))
	knowledgeService := service.NewKnowledgeService(serviceRepo, knowledgeStore, aiClients.Embedder, &cfg.RAG, logger.Named("knowledge"))
	ragService := service.NewRAGService(knowledgeService, knowledgeStore, aiClients.Embedder, aiClients.Generator, &cfg.RAG, logger.Named("rag"))
	catalogService := service.NewCatalogService(serviceRepo, categoryRepo, knowledgeService, logger.Named("catalog"))
	bookingService := service.NewBookingService(bookingRepo, serviceRepo, logger.Named("bookings"))
	recommendationService := service.NewRecommendationService(bookingRepo, serviceRepo, categoryRepo, logger.Named("recommendations"))

	if cfg.RAG.WarmupOnStart {
		go func() {
			res := knowledgeService.EnsureInitialized(ctx)
			appLogger.Info("Knowledge base warm-up finished",
				zap.String("status", string(res.Status)),
				zap.Int("processed", res.Processed),
				zap.String("error", res.Error),
			)
		}()
	}

	app := api.SetupRouter(&api.Handlers{
		Auth:    handlers.NewAuthHandler(authService, appLogger),
		Chat:    handlers.NewChatHandler(ragService, knowledgeService, appLogger),
		Catalog: handlers.NewCatalogHandler(catalogService, appLogger),
		Booking: handlers.NewBookingHandler(bookingService, recommendationService, appLogger),
		Admin:   handlers.NewAdminHandler(catalogService, bookingService, knowledgeService, appLogger),
	}, &cfg.Server, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
