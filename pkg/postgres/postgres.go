package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/rescue_dispatch/internal/config"
)

const healthCheckPeriod = 30 * time.Second

// NewPostgresDB создает пул соединений для хранилища инцидентов и назначений
func NewPostgresDB(ctx context.Context, appCfg *config.Config) (*pgxpool.Pool, error) {
	cfgPool, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации postgres: %w", err)
	}
	if appCfg.DBMaxConns > 0 {
		cfgPool.MaxConns = int32(appCfg.DBMaxConns)
	}
	cfgPool.HealthCheckPeriod = healthCheckPeriod
	cfgPool.ConnConfig.RuntimeParams["application_name"] = "rescue_dispatch"
	// временные метки назначений в UTC
	cfgPool.ConnConfig.RuntimeParams["timezone"] = "UTC"

	dbpool, err := pgxpool.NewWithConfig(ctx, cfgPool)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("не удалось выполнить ping к postgres: %w", err)
	}

	return dbpool, nil
}
