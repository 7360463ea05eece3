package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	LLM       LLMConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Interview InterviewConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL          string
	APIKey       string
	Collection   string
	EmbeddingDim uint64
}

// LLMConfig selects the model provider and how calls to it are paced.
type LLMConfig struct {
	Provider      string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimit     float64
	RateBurst     int
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	EmbedModel string
}

type InterviewConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
	MaxTurns      int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_ace"),
		},
		Qdrant: QdrantConfig{
			URL:          getEnv("QDRANT_URL", ""),
			APIKey:       getEnv("QDRANT_API_KEY", ""),
			Collection:   getEnv("QDRANT_COLLECTION", "interview_transcripts"),
			EmbeddingDim: uint64(getEnvAsInt("EMBEDDING_DIM", 768)),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", "gemini"),
			Timeout:       getEnvAsDuration("MODEL_TIMEOUT", "60s"),
			RetryAttempts: getEnvAsInt("MODEL_RETRY_ATTEMPTS", 1),
			RetryDelay:    getEnvAsDuration("MODEL_RETRY_DELAY", "2s"),
			RateLimit:     getEnvAsFloat("MODEL_RATE_LIMIT", 0),
			RateBurst:     getEnvAsInt("MODEL_RATE_BURST", 5),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", ""),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbedModel: getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		},
		Interview: InterviewConfig{
			SessionTTL:    getEnvAsDuration("SESSION_TTL", "2h"),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", "5m"),
			MaxTurns:      getEnvAsInt("SESSION_MAX_TURNS", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", "24h"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 104857600),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 2),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "30s"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if err := c.ValidateModel(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

// ValidateModel checks only the model provider settings.
func (c *Config) ValidateModel() error {
	switch c.LLM.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set when LLM_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
