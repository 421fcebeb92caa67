package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" envDefault:"10"`

	// команды для STORAGE_DRIVER=memory, JSON-массив
	MemoryTeamsFile string `env:"MEMORY_TEAMS_FILE"`

	// Redis Config
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass        string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize    int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	IncidentCacheTTL time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"5m"`

	// Webhook Config (шлюз уведомлений)
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Matching Config
	MatchRadiusKm          float64 `env:"MATCH_RADIUS_KM" envDefault:"10"`
	MatchCandidateLimit    int     `env:"MATCH_CANDIDATE_LIMIT" envDefault:"30"`
	EscalationRadiusFactor float64 `env:"ESCALATION_RADIUS_FACTOR" envDefault:"1.5"`
	DefaultServiceRadiusKm float64 `env:"DEFAULT_SERVICE_RADIUS_KM" envDefault:"10"`

	// Ограничение анонимных экстренных вызовов
	PanicRateLimit  int           `env:"PANIC_RATE_LIMIT" envDefault:"5"`
	PanicRateWindow time.Duration `env:"PANIC_RATE_WINDOW" envDefault:"1h"`

	// API Keys для интеграций администрирования, JWT секрет провайдера идентификации
	APIKeys   []string `env:"API_KEYS"`
	JWTSecret string   `env:"JWT_SECRET"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		StorageDriver:          getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		HTTPPort:               getEnv("HTTP_PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DBMaxConns:             getEnvAsInt("DB_MAX_CONNS", 10),
		MemoryTeamsFile:        os.Getenv("MEMORY_TEAMS_FILE"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvAsInt("REDIS_DB", 0),
		RedisPoolSize:          getEnvAsInt("REDIS_POOL_SIZE", 10),
		IncidentCacheTTL:       getEnvAsDuration("INCIDENT_CACHE_TTL", 5*time.Minute),
		WebhookURL:             os.Getenv("WEBHOOK_URL"),
		WebhookSecret:          os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:         getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:      getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:       getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		MatchRadiusKm:          getEnvAsFloat("MATCH_RADIUS_KM", 10),
		MatchCandidateLimit:    getEnvAsInt("MATCH_CANDIDATE_LIMIT", 30),
		EscalationRadiusFactor: getEnvAsFloat("ESCALATION_RADIUS_FACTOR", 1.5),
		DefaultServiceRadiusKm: getEnvAsFloat("DEFAULT_SERVICE_RADIUS_KM", 10),
		PanicRateLimit:         getEnvAsInt("PANIC_RATE_LIMIT", 5),
		PanicRateWindow:        getEnvAsDuration("PANIC_RATE_WINDOW", time.Hour),
		JWTSecret:              os.Getenv("JWT_SECRET"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.MatchRadiusKm <= 0 || c.MatchCandidateLimit <= 0 {
		return fmt.Errorf("MATCH_RADIUS_KM and MATCH_CANDIDATE_LIMIT must be positive")
	}
	if c.EscalationRadiusFactor < 1 {
		return fmt.Errorf("ESCALATION_RADIUS_FACTOR must be >= 1")
	}
	return nil
}

// EscalationRadiusKm радиус повторного подбора при эскалации
func (c *Config) EscalationRadiusKm() float64 {
	return c.MatchRadiusKm * c.EscalationRadiusFactor
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
