package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// APIAddr — адрес JSON API.
	APIAddr string
	// OpsAddr — адрес служебного сервера: /metrics и health-пробы.
	OpsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — список брокеров через запятую; пустое значение отключает публикацию событий.
	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	// AuthTokens — таблица token=user, разделённая запятыми.
	// Выпуск токенов выполняет внешний сервис аутентификации.
	AuthTokens map[string]string
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		APIAddr:             ":8080",
		OpsAddr:             ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
	}
}

// ReadConfig собирает конфигурацию из переменных окружения ORDERS_*
// поверх значений по умолчанию.
func ReadConfig() Config {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("ORDERS_API_ADDR")); v != "" {
		cfg.APIAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_OPS_ADDR")); v != "" {
		cfg.OpsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_STORAGE_DRIVER")); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
		if cfg.StorageDriver == StorageDriverMemory && os.Getenv("ORDERS_STORAGE_DRIVER") == "" {
			cfg.StorageDriver = StorageDriverPostgres
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_POSTGRES_AUTO_MIGRATE")); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	cfg.KafkaBrokers = strings.TrimSpace(os.Getenv("ORDERS_KAFKA_BROKERS"))

	if v := strings.TrimSpace(os.Getenv("ORDERS_OUTBOX_POLL_INTERVAL")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			cfg.OutboxPollInterval = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_OUTBOX_BATCH_SIZE")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.OutboxBatchSize = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_OUTBOX_MAX_ATTEMPTS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.OutboxMaxAttempts = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORDERS_OUTBOX_RETRY_DELAY")); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			cfg.OutboxRetryDelay = parsed
		}
	}

	cfg.AuthTokens = parseAuthTokens(os.Getenv("ORDERS_AUTH_TOKENS"))

	return cfg
}

// parseAuthTokens разбирает строку вида "token1=user1,token2=user2".
func parseAuthTokens(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		token, userID, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		token = strings.TrimSpace(token)
		userID = strings.TrimSpace(userID)
		if token == "" || userID == "" {
			continue
		}
		tokens[token] = userID
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
