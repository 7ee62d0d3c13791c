package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"enjez/internal/models"
	"enjez/internal/repository"
	"enjez/internal/service"
	"enjez/migrations"
	"enjez/pkg/auth"
	"enjez/pkg/config"
	"enjez/pkg/logger"
	"enjez/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type catalogFile struct {
	Categories []catalogCategory `json:"categories"`
	Services   []catalogService  `json:"services"`
}

type catalogCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type catalogService struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	DurationValue int      `json:"duration_value"`
	DurationUnit  string   `json:"duration_unit"`
	ImageURL      string   `json:"image_url"`
}

// seedCache remembers the hash of the last catalog file that was fully seeded.
type seedCache struct {
	CatalogHash string    `json:"catalog_hash"`
	SeededAt    time.Time `json:"seeded_at"`
	Services    int       `json:"services"`
}

func main() {
	catalogPath := flag.String("catalog", filepath.Join("cmd", "seed", "catalog.json"), "path to the catalog JSON file")
	force := flag.Bool("force", false, "reseed even if the catalog file is unchanged")
	adminEmail := flag.String("admin-email", os.Getenv("SEED_ADMIN_EMAIL"), "create an admin account with this email")
	adminName := flag.String("admin-name", "admin", "username of the seeded admin")
	flag.Parse()

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

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.ApplySchema(ctx, db, migrations.FS, appLogger); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	if *adminEmail != "" {
		seedAdmin(ctx, db, cfg, *adminName, *adminEmail, os.Getenv("SEED_ADMIN_PASSWORD"), appLogger)
	}

	raw, err := os.ReadFile(*catalogPath)
	if err != nil {
		appLogger.Fatal("Failed to read catalog file", zap.String("path", *catalogPath), zap.Error(err))
	}

	hash := fmt.Sprintf("%x", md5.Sum(raw))
	cacheFile := filepath.Join(filepath.Dir(*catalogPath), ".seed_cache.json")
	cache := loadCache(cacheFile, appLogger)
	if !*force && cache.CatalogHash == hash {
		appLogger.Info("Catalog unchanged since last seed, skipping",
			zap.Time("seeded_at", cache.SeededAt),
			zap.Int("services", cache.Services),
		)
		return
	}

	var catalog catalogFile
	if err := json.Unmarshal(raw, &catalog); err != nil {
		appLogger.Fatal("Failed to parse catalog file", zap.Error(err))
	}

	categoryRepo := repository.NewCategoryRepository(db, logger.Named("categories"))
	serviceRepo := repository.NewServiceRepository(db, logger.Named("services"))

	appLogger.Info("Starting catalog seeding...",
		zap.Int("categories", len(catalog.Categories)),
		zap.Int("services", len(catalog.Services)),
	)

	if err := seedCatalog(ctx, &catalog, categoryRepo, serviceRepo, appLogger); err != nil {
		appLogger.Fatal("Failed to seed catalog", zap.Error(err))
	}

	var knowledgeStore service.KnowledgeStore
	if cfg.RAG.KnowledgeStore == config.StoreQdrant {
		qdrantStore, err := repository.NewQdrantKnowledgeStore(ctx, &cfg.Qdrant, logger.Named("qdrant"))
		if err != nil {
			appLogger.Fatal("Failed to initialize Qdrant knowledge store", zap.Error(err))
		}
		defer qdrantStore.Close()
		knowledgeStore = qdrantStore
	} else {
		knowledgeStore = repository.NewKnowledgeRepository(db, logger.Named("knowledge"))
	}

	aiClients, err := service.NewAIClients(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI clients", zap.Error(err))
	}
	defer aiClients.Close()

	knowledgeService := service.NewKnowledgeService(serviceRepo, knowledgeStore, aiClients.Embedder, &cfg.RAG, logger.Named("knowledge"))
	result, err := knowledgeService.RebuildAll(ctx)
	if err != nil {
		appLogger.Fatal("Failed to rebuild knowledge base", zap.Error(err))
	}
	appLogger.Info("Knowledge base rebuilt",
		zap.Int("processed", result.Processed),
		zap.Strings("failed", result.Failed),
		zap.Int("pruned", result.Pruned),
	)

	// Only remember the catalog when every service made it into the knowledge base.
	if len(result.Failed) == 0 {
		cache = &seedCache{CatalogHash: hash, SeededAt: time.Now(), Services: len(catalog.Services)}
		if err := saveCache(cacheFile, cache); err != nil {
			appLogger.Warn("Failed to save cache", zap.Error(err))
		}
	}

	appLogger.Info("Database seeding completed successfully!")
}

// seedAdmin is the only way to obtain an admin account; public signup creates clients.
func seedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, username, email, password string, logger *zap.Logger) {
	if len(password) < 6 {
		logger.Fatal("SEED_ADMIN_PASSWORD must be set to at least 6 characters when seeding an admin")
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	authService := service.NewAuthService(repository.NewUserRepository(db, logger.Named("users")), jwtManager, logger.Named("auth"))

	created, err := authService.EnsureAdmin(ctx, username, email, password)
	if err != nil {
		logger.Fatal("Failed to seed admin account", zap.String("email", email), zap.Error(err))
	}
	if created {
		logger.Info("Admin account created", zap.String("email", email))
	} else {
		logger.Info("Admin account already exists", zap.String("email", email))
	}
}

func seedCatalog(
	ctx context.Context,
	catalog *catalogFile,
	categories *repository.CategoryRepository,
	services *repository.ServiceRepository,
	logger *zap.Logger,
) error {
	for _, c := range catalog.Categories {
		if err := categories.Upsert(ctx, &models.Category{ID: c.ID, Name: c.Name}); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
	}

	now := time.Now()
	for _, s := range catalog.Services {
		svc := &models.Service{
			ID:            s.ID,
			CategoryID:    s.CategoryID,
			Name:          s.Name,
			Description:   s.Description,
			Price:         s.Price,
			DurationValue: s.DurationValue,
			DurationUnit:  s.DurationUnit,
			ImageURL:      s.ImageURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := services.Upsert(ctx, svc); err != nil {
			return fmt.Errorf("upsert service %s: %w", s.ID, err)
		}
		logger.Debug("Seeded service", zap.String("id", s.ID), zap.String("name", s.Name))
	}

	return nil
}

func loadCache(cacheFile string, logger *zap.Logger) *seedCache {
	cache := &seedCache{}
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read cache, will reseed", zap.Error(err))
		}
		return cache
	}
	if len(data) == 0 {
		return cache
	}
	if err := json.Unmarshal(data, cache); err != nil {
		logger.Warn("Failed to parse cache, will reseed", zap.Error(err))
		return &seedCache{}
	}
	return cache
}

func saveCache(cacheFile string, cache *seedCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
