package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Vector   VectorConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	JwtSecret  string
	Serper     string
	ChunkTopic string // Library document chunking topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	GeminiApiKey      string
	JinaApiKey        string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "openai" or "anthropic"
	LLMModel          string // e.g. "llama3", "gpt-4o-mini", "claude-sonnet-4-5"
	LLMBaseURL        string
	LLMApiKey         string
	// ContinueOnChapterError keeps a multi-chapter generation running after a
	// single chapter fails instead of aborting the whole article.
	ContinueOnChapterError bool
}

type VectorConfig struct {
	Backend          string // "pgvector" or "qdrant"
	QdrantURL        string
	QdrantCollection string
	QdrantApiKey     string
}

type SessionConfig struct {
	MaxHistory int // Records kept per session before the oldest are pruned
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Writer"),
		},
		Keys: APIKeys{
			JwtSecret:  getEnv("JWT_SECRET", ""),
			Serper:     getEnv("SERPER_API_KEY", ""),
			ChunkTopic: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_LIBRARY_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:      getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiApiKey:           getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaApiKey:             getEnv("JINA_API_KEY", ""),
			OllamaBaseURL:          getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:            getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:            getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:               getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:             getEnv("LLM_BASE_URL", ""),
			LLMApiKey:              getEnv("LLM_API_KEY", ""),
			ContinueOnChapterError: getEnvAsBool("CONTINUE_ON_CHAPTER_ERROR", false),
		},
		Vector: VectorConfig{
			Backend:          getEnv("VECTOR_BACKEND", "pgvector"),
			QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			QdrantCollection: getEnv("QDRANT_COLLECTION", "library_chunks"),
			QdrantApiKey:     getEnv("QDRANT_API_KEY", ""),
		},
		Session: SessionConfig{
			MaxHistory: getEnvAsInt("SESSION_MAX_HISTORY", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
