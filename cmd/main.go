package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/rescue_dispatch/internal/config"
	v1 "github.com/shenikar/rescue_dispatch/internal/handler/http/v1"
	"github.com/shenikar/rescue_dispatch/internal/metrics"
	"github.com/shenikar/rescue_dispatch/internal/ratelimit"
	"github.com/shenikar/rescue_dispatch/internal/repository"
	"github.com/shenikar/rescue_dispatch/internal/repository/memory"
	"github.com/shenikar/rescue_dispatch/internal/service"
	"github.com/shenikar/rescue_dispatch/internal/webhook"
	"github.com/shenikar/rescue_dispatch/pkg/logger"
	"github.com/shenikar/rescue_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/rescue_dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/rescue_dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Rescue Dispatch API
// @version 1.0
// @description Emergency incident intake, volunteer matching and assignment tracking for disaster response.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// repositories - хранилище, выбранное STORAGE_DRIVER
type repositories struct {
	incidents   service.IncidentRepository
	volunteers  service.VolunteerRepository
	assignments service.AssignmentRepository
	disasters   service.DisasterRepository
	close       func()
}

func newRepositories(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		if cfg.MemoryTeamsFile != "" {
			if err := loadTeams(store, cfg.MemoryTeamsFile, log); err != nil {
				return nil, err
			}
		}
		return &repositories{
			incidents:   store.Incidents(),
			volunteers:  store.Volunteers(),
			assignments: store.Assignments(),
			disasters:   store.Disasters(),
			close:       func() {},
		}, nil
	}

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		return nil, err
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to PostgreSQL")

	return &repositories{
		incidents:   repository.NewIncidentRepository(dbpool),
		volunteers:  repository.NewVolunteerRepository(dbpool),
		assignments: repository.NewAssignmentRepository(dbpool),
		disasters:   repository.NewDisasterRepository(dbpool),
		close:       dbpool.Close,
	}, nil
}

func loadTeams(store *memory.Store, path string, log *logrus.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open teams file: %w", err)
	}
	defer f.Close()

	n, err := store.LoadTeams(f)
	if err != nil {
		return fmt.Errorf("could not load teams from %s: %w", path, err)
	}
	log.WithField("teams", n).Info("Teams loaded into in-memory storage")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := newRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repos.close()

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Инициализация издателя вебхуков
	webhookPublisher := webhook.NewRedisWebhookPublisher(redisClient)

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	webhookWorker.Start(ctx)

	incidentCache := repository.NewIncidentCache(redisClient, cfg.IncidentCacheTTL)
	panicLimiter := ratelimit.NewRedisLimiter(redisClient, "panic", cfg.PanicRateLimit, cfg.PanicRateWindow)

	// Инициализация сервисов
	matcher := service.NewMatcher(repos.volunteers, repos.incidents, webhookPublisher, log, cfg)
	services := v1.Services{
		Incidents:   service.NewIncidentService(repos.incidents, repos.assignments, repos.volunteers, incidentCache, matcher, log, cfg),
		Assignments: service.NewAssignmentService(repos.assignments, repos.incidents, repos.volunteers, incidentCache, log),
		Volunteers:  service.NewVolunteerService(repos.volunteers, matcher, log, cfg),
		Disasters:   service.NewDisasterService(repos.disasters, webhookPublisher, log),
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(services, panicLimiter, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.WithField("storage", cfg.StorageDriver).Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
