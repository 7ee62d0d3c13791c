package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini   = "gemini"
	ProviderGigaChat = "gigachat"

	StorePostgres = "postgres"
	StoreQdrant   = "qdrant"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	GigaChat GigaChatConfig
	Gemini   GeminiConfig
	LLM      LLMConfig
	Qdrant   QdrantConfig
	RAG      RAGConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	EmbeddingModel     string
	InsecureSkipVerify bool
}

type GeminiConfig struct {
	APIKey             string
	ChatModel          string
	EmbeddingModel     string
	EmbeddingDimension int
	Temperature        float32
}

// LLMConfig selects which vendor backs each of the two AI calls.
type LLMConfig struct {
	GenerationProvider string
	EmbeddingProvider  string
}

type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	VectorSize int
}

type RAGConfig struct {
	TopK               int
	RelevanceThreshold float64
	KnowledgeStore     string
	WarmupOnStart      bool
	PruneOrphans       bool
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 60)
	jwtExp := getEnvInt("JWT_EXPIRATION_HOURS", 24)
	refreshExp := getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168)

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "enjez"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    int32(getEnvInt("DB_MAX_CONNS", 10)),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			EmbeddingModel:     getEnv("GIGACHAT_EMBEDDING_MODEL", "Embeddings"),
			InsecureSkipVerify: getEnvBool("GIGACHAT_INSECURE_SKIP_VERIFY", false),
		},
		Gemini: GeminiConfig{
			APIKey:             getEnv("GEMINI_API_KEY", ""),
			ChatModel:          getEnv("GEMINI_CHAT_MODEL", "gemini-2.5-flash"),
			EmbeddingModel:     getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDimension: getEnvInt("GEMINI_EMBEDDING_DIMENSION", 0),
			Temperature:        float32(getEnvFloat("GEMINI_TEMPERATURE", 0.3)),
		},
		LLM: LLMConfig{
			GenerationProvider: getEnv("LLM_PROVIDER", ProviderGemini),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", ProviderGemini),
		},
		Qdrant: QdrantConfig{
			Host:       getEnv("QDRANT_HOST", "localhost"),
			Port:       getEnvInt("QDRANT_PORT", 6334),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			UseTLS:     getEnvBool("QDRANT_USE_TLS", false),
			Collection: getEnv("QDRANT_COLLECTION", "chatbot"),
			VectorSize: getEnvInt("QDRANT_VECTOR_SIZE", 768),
		},
		RAG: RAGConfig{
			TopK:               getEnvInt("RAG_TOP_K", 3),
			RelevanceThreshold: getEnvFloat("RAG_RELEVANCE_THRESHOLD", 0.35),
			KnowledgeStore:     getEnv("KNOWLEDGE_STORE", StorePostgres),
			WarmupOnStart:      getEnvBool("RAG_WARMUP_ON_START", true),
			PruneOrphans:       getEnvBool("RAG_PRUNE_ORPHANS", false),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	for _, p := range []string{c.LLM.GenerationProvider, c.LLM.EmbeddingProvider} {
		if p != ProviderGemini && p != ProviderGigaChat {
			return fmt.Errorf("unknown AI provider %q (expected %s or %s)", p, ProviderGemini, ProviderGigaChat)
		}
	}

	if c.RAG.KnowledgeStore != StorePostgres && c.RAG.KnowledgeStore != StoreQdrant {
		return fmt.Errorf("unknown knowledge store %q (expected %s or %s)", c.RAG.KnowledgeStore, StorePostgres, StoreQdrant)
	}

	if c.RAG.TopK <= 0 {
		return fmt.Errorf("RAG_TOP_K must be positive, got %d", c.RAG.TopK)
	}

	if c.RAG.KnowledgeStore == StoreQdrant && c.Qdrant.VectorSize <= 0 {
		return fmt.Errorf("QDRANT_VECTOR_SIZE must be positive, got %d", c.Qdrant.VectorSize)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
