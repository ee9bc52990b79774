package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Symbol          string
	Timeframe       string
	BarCount        int
	LogLevel        string
	LogFormat       string // console or json
	Feed            string // twelvedata or postgres
	ArchiveBars     bool   // store fetched Twelve Data bars in Postgres
	TwelveAPIKey    string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	ProviderTimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ModelServerURL    string
	SentimentURL      string
	RedisAddr         string
	RedisPassword     string
	SentimentCacheTTL time.Duration

	TelegramBotToken string
	TelegramChatID   int64

	FeaturesFile   string
	RiskFile       string
	AccountSize    float64
	RunEvery       time.Duration
	MetricsAddr    string
	TracingEnabled bool
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.Symbol = getEnvWithDefault("SYMBOL", "EURUSD")
	cfg.Timeframe = getEnvWithDefault("TIMEFRAME", "1h")
	cfg.BarCount = getEnvIntWithDefault("BAR_COUNT", 100)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getEnvWithDefault("LOG_FORMAT", "console")
	cfg.Feed = getEnvWithDefault("FEED", "twelvedata")
	cfg.ArchiveBars = getEnvBoolWithDefault("ARCHIVE_BARS", false)
	cfg.TwelveAPIKey = os.Getenv("TWELVE_API_KEY")
	cfg.RequestTimeout = getEnvDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.ProviderTimeout = getEnvDurationWithDefault("PROVIDER_TIMEOUT", 5*time.Second)

	cfg.DBHost = getEnvWithDefault("DB_HOST", "localhost")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "fxsignal")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.ModelServerURL = os.Getenv("MODEL_SERVER_URL")
	cfg.SentimentURL = os.Getenv("SENTIMENT_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.SentimentCacheTTL = getEnvDurationWithDefault("SENTIMENT_CACHE_TTL", 15*time.Minute)

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", 0))

	cfg.FeaturesFile = os.Getenv("FEATURES_FILE")
	cfg.RiskFile = os.Getenv("RISK_FILE")
	cfg.AccountSize = getEnvFloatWithDefault("ACCOUNT_SIZE", 0)
	cfg.RunEvery = getEnvDurationWithDefault("RUN_EVERY", 0)
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	cfg.TracingEnabled = getEnvBoolWithDefault("TRACING_ENABLED", false)

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
