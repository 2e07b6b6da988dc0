package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	Debug       bool

	DatabaseURL string

	RedisURL string

	JWTSecret string

	BaseURL      string
	TemplatePath string
	CORSOrigins  string

	DefaultLanguage        string
	LanguageDefaultDir     string
	LanguageCustomDir      string
	LanguagePluginDir      string
	LanguageCustomBucket   string
	LanguageWatch          bool
	LanguageDebugHighlight bool

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool

	ResendAPIKey   string
	FromEmail      string
	QueueFlushSpec string

	LogLevel  string
	LogFormat string

	SettingsCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getBoolEnv("DEBUG", false),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		TemplatePath: getEnv("TEMPLATE_PATH", "templates"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:5173"),

		DefaultLanguage:        getEnv("DEFAULT_LANGUAGE", "en-US"),
		LanguageDefaultDir:     getEnv("LANGUAGE_DEFAULT_DIR", "app/Language"),
		LanguageCustomDir:      getEnv("LANGUAGE_CUSTOM_DIR", "custom/Language"),
		LanguagePluginDir:      getEnv("LANGUAGE_PLUGIN_DIR", "locales"),
		LanguageCustomBucket:   getEnv("LANGUAGE_CUSTOM_BUCKET", ""),
		LanguageWatch:          getBoolEnv("LANGUAGE_WATCH", false),
		LanguageDebugHighlight: getBoolEnv("LANGUAGE_DEBUG_HIGHLIGHT", false),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "noreply@example.com"),
		QueueFlushSpec: getEnv("QUEUE_FLUSH_SPEC", "@every 1m"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SettingsCacheTTL: getDurationEnv("SETTINGS_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
