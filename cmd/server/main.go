package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/kaamwala-backend/internal/config"
	"github.com/ignatzorin/kaamwala-backend/internal/db"
	"github.com/ignatzorin/kaamwala-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/kaamwala-backend/internal/http/handlers"
	"github.com/ignatzorin/kaamwala-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/kaamwala-backend/internal/http/router"
	"github.com/ignatzorin/kaamwala-backend/internal/logger"
	"github.com/ignatzorin/kaamwala-backend/internal/repository"
	"github.com/ignatzorin/kaamwala-backend/internal/service"
	"github.com/ignatzorin/kaamwala-backend/internal/storage"
	"github.com/ignatzorin/kaamwala-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}
	mainLog := logger.For("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		mainLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, db.MigrationsFS(cfg.MigrationsPath)); err != nil {
		mainLog.WithError(err).Fatal("ошибка миграций")
	}

	// Репозитории.
	taxonomyRepo := repository.NewTaxonomyRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	workerRepo := repository.NewWorkerRepository(dbConn)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	lifecycle := service.NewLifecycleManager(taxonomyRepo, service.SystemClock)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, lifecycle, service.UUIDGenerator, service.SystemClock)
	skillService := service.NewSkillService(skillRepo, userRepo, taxonomyRepo, service.UUIDGenerator, service.SystemClock)
	searchService := service.NewWorkerSearchService(workerRepo, cfg.SearchDefaultPageSize, cfg.SearchMaxPageSize)
	seedService := service.NewSeedService(taxonomyService, skillService, userRepo, tokenManager, service.UUIDGenerator, service.SystemClock)

	if cfg.SeedCatalog {
		res, err := seedService.SeedCatalog(ctx)
		if err != nil {
			mainLog.WithError(err).Fatal("ошибка загрузки каталога")
		}
		mainLog.WithField("categories", res.CategoriesCreated).
			WithField("sub_categories", res.SubCategoriesCreated).
			Info("каталог загружен")
	}

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)
	defer hub.Stop()
	taxonomyService.SetPublisher(hub)
	skillService.SetPublisher(hub)

	// Хранилище иконок.
	var icons storage.IconStorage
	switch cfg.IconStorage {
	case config.IconStorageS3:
		icons, err = storage.NewS3Storage(ctx, cfg.S3, cfg.MaxUploadSizeMB)
	default:
		icons, err = storage.NewLocalStorage(cfg.MediaStoragePath, "/media", cfg.MaxUploadSizeMB)
	}
	if err != nil {
		mainLog.WithError(err).Fatal("не удалось подготовить хранилище иконок")
	}

	healthChecks := map[string]httpHandlers.HealthCheck{
		"database": dbConn.PingContext,
	}
	healthChecks["connection_pool"] = func(context.Context) error {
		stats := dbConn.Stats()
		if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections && stats.WaitCount > 0 {
			return fmt.Errorf("заняты все %d соединений, ожиданий %d", stats.MaxOpenConnections, stats.WaitCount)
		}
		return nil
	}

	// Счётчики rate limit в redis, если он настроен.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			mainLog.WithError(err).Fatal("некорректный REDIS_URL")
		}
		defer redisClient.Close()
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	rateStore, err := middleware.NewRateLimitStore(redisClient, "kaamwala:ratelimit")
	if err != nil {
		mainLog.WithError(err).Fatal("не удалось создать хранилище rate limit")
	}

	// HTTP хэндлеры.
	h := httpRouter.Handlers{
		Categories:    httpHandlers.NewCategoryHandler(taxonomyService),
		SubCategories: httpHandlers.NewSubCategoryHandler(taxonomyService, skillService),
		Icons:         httpHandlers.NewIconHandler(taxonomyService, icons),
		Workers:       httpHandlers.NewWorkerHandler(searchService),
		Skills:        httpHandlers.NewSkillHandler(skillService),
		Health:        httpHandlers.NewHealthHandler(healthChecks),
		WS:            httpHandlers.NewWSHandler(hub, tokenManager),
	}
	if cfg.Env == "development" {
		h.Seed = httpHandlers.NewSeedHandler(seedService)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, h, tokenManager, rateStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLog.WithError(err).Error("ошибка остановки http сервера")
		}
	})

	mainLog.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLog.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.For("main").WithError(err).Error("ошибка закрытия базы")
	}
}
