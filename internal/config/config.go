package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port           int
	MaxPrincipal   float64
	MaxRate        float64
	MaxTermDays    int
	MaxCustodyRate float64

	DefaultCDIRate    float64
	RateSourceURL     string
	RateSourceTimeout time.Duration
	RateSourceRPM     int
	RateCacheTTL      time.Duration
	RateFailureTTL    time.Duration
	RedisAddr         string

	Locale          string
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
}

// DefaultRateSourceURL серия SGS 4389 Банка Бразилии: CDI, % годовых (база 252)
const DefaultRateSourceURL = "https://api.bcb.gov.br/dados/serie/bcdata.sgs.4389/dados/ultimos/1"

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnvInt("PORT", 8000),
		MaxPrincipal:   getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxRate:        getEnvFloat("MAX_RATE", 200),
		MaxTermDays:    getEnvInt("MAX_TERM_DAYS", 36500),
		MaxCustodyRate: getEnvFloat("MAX_CUSTODY_RATE", 10),

		DefaultCDIRate:    getEnvFloat("DEFAULT_CDI_RATE", 13.75),
		RateSourceURL:     getEnvString("RATE_SOURCE_URL", DefaultRateSourceURL),
		RateSourceTimeout: getEnvDuration("RATE_SOURCE_TIMEOUT", 5*time.Second),
		RateSourceRPM:     getEnvInt("RATE_SOURCE_RPM", 30),
		RateCacheTTL:      getEnvDuration("RATE_CACHE_TTL", time.Hour),
		RateFailureTTL:    getEnvDuration("RATE_FAILURE_TTL", 30*time.Second),
		RedisAddr:         getEnvString("REDIS_ADDR", ""),

		Locale:          getEnvString("LOCALE", "pt-BR"),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "mcp-fixed-income-server"),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
