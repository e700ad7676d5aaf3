package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Analyzer   AnalyzerConfig
	Gemini     GeminiConfig
	Auth       AuthConfig
	Validation ValidationConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig points at the optional table of submission type overrides.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig enables the shared wizard session store. When disabled,
// sessions live in process memory.
type RedisConfig struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

type AnalyzerConfig struct {
	// Provider is "gateway" (chat-completions endpoint) or "gemini".
	Provider    string
	APIKey      string
	URL         string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type AuthConfig struct {
	URL          string
	AnonKey      string
	StaticTokens []string
}

type ValidationConfig struct {
	ExcerptLimit int
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
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "submission_validator"),
		},
		Redis: RedisConfig{
			Enabled:    getEnvAsBool("REDIS_ENABLED", false),
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			SessionTTL: getEnvAsDuration("SESSION_TTL", "1h"),
		},
		Analyzer: AnalyzerConfig{
			Provider:    getEnv("ANALYZER_PROVIDER", "gateway"),
			APIKey:      getEnv("ANALYZER_API_KEY", getEnv("LOVABLE_API_KEY", "")),
			URL:         getEnv("ANALYZER_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
			Model:       getEnv("ANALYZER_MODEL", "google/gemini-2.5-flash"),
			Timeout:     getEnvAsDuration("ANALYZER_TIMEOUT", "30s"),
			MaxAttempts: getEnvAsInt("ANALYZER_MAX_ATTEMPTS", 2),
			RetryDelay:  getEnvAsDuration("ANALYZER_RETRY_DELAY", "1s"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Auth: AuthConfig{
			URL:          getEnv("AUTH_URL", ""),
			AnonKey:      getEnv("AUTH_ANON_KEY", ""),
			StaticTokens: getEnvAsList("AUTH_STATIC_TOKENS"),
		},
		Validation: ValidationConfig{
			ExcerptLimit: getEnvAsInt("EXCERPT_LIMIT", 2000),
		},
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
