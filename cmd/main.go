package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"xenofy_analytics_v1_202610/internal/config"
	"xenofy_analytics_v1_202610/internal/controller"
	"xenofy_analytics_v1_202610/internal/middleware"
	"xenofy_analytics_v1_202610/internal/model"
	"xenofy_analytics_v1_202610/internal/repository"
	"xenofy_analytics_v1_202610/internal/router"
	"xenofy_analytics_v1_202610/internal/service"
	"xenofy_analytics_v1_202610/internal/task"
	"xenofy_analytics_v1_202610/pkg/database"
	"xenofy_analytics_v1_202610/pkg/events"
	"xenofy_analytics_v1_202610/pkg/logger"
	"xenofy_analytics_v1_202610/pkg/shopify"
)

// @title Xenofy API
// @version 1.0
// @description Multi-tenant Shopify analytics backend.
// @host localhost:3001
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := initDatabase(cfg, log)
	deps := initDependencies(cfg, db, log)

	if cfg.DemoSeed {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := deps.Services.Provision.EnsureDemoAccount(ctx); err != nil {
			log.Error("demo account provisioning failed", zap.Error(err))
		}
		cancel()
	}

	ingestionTask := initTasks(cfg, deps, log)

	r := router.SetupRouter(initControllers(deps.Services, log), router.Options{
		Tenants:         deps.Repos.Accounts.Tenants,
		CORSOrigins:     cfg.CORSOrigins,
		TriggerCooldown: cfg.Ingestion.TriggerCooldown,
		Logger:          log,
	})

	startServer(cfg.Port, r, log)

	// shutdown order: scheduler, background runs, then the shared handles
	ingestionTask.Stop()
	deps.Services.Ingestion.Wait()
	deps.close(log)
	log.Info("server exited")
}

// ==================== Dependency container ====================

type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher events.Publisher
	Repos     *Repositories
	Services  *Services
}

type Repositories struct {
	Accounts *repository.AccountUnitOfWork
	Store    service.StoreRepos
	Runs     repository.IngestionRunRepository
}

type Services struct {
	Auth      *service.AuthService
	Analytics *service.AnalyticsService
	Ingestion *service.IngestionService
	Provision *service.ProvisionService
}

func initDatabase(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := database.InitDB(database.Options{
		DSN:             cfg.Database.DSN(),
		LogLevel:        cfg.Database.LogLevel,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log, model.AllModels()...)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	if err := middleware.RegisterTenantCallbacks(db); err != nil {
		log.Fatal("register tenant callbacks failed", zap.Error(err))
	}
	return db
}

func initDependencies(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Dependencies {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey: cfg.JWT.Secret,
		TTL:       cfg.JWT.TTL,
		Issuer:    cfg.JWT.Issuer,
	})

	deps := &Dependencies{DB: db}
	deps.Repos = &Repositories{
		Accounts: repository.NewAccountUnitOfWork(db),
		Store:    service.NewStoreRepos(db),
		Runs:     repository.NewIngestionRunRepository(db),
	}

	var locker service.Locker = repository.NewLeaseRepository(db)
	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, using database lease", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = deps.Redis.Close()
			deps.Redis = nil
		} else {
			locker = service.NewRedisLocker(deps.Redis)
			log.Info("redis ingestion lease enabled", zap.String("addr", cfg.Redis.Addr))
		}
		cancel()
	}

	deps.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		deps.Publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("kafka run events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	clients := service.NewShopifyClientFactory(
		shopify.WithAPIVersion(cfg.Shopify.APIVersion),
		shopify.WithRateLimit(cfg.Shopify.RateLimit, 4),
		shopify.WithMaxPages(cfg.Shopify.MaxPages),
		shopify.WithTimeout(cfg.Shopify.Timeout),
		shopify.WithLogger(log),
	)

	ingestion := service.NewIngestionService(
		service.IngestionRepos{StoreRepos: deps.Repos.Store, Runs: deps.Repos.Runs},
		locker,
		clients,
		deps.Publisher,
		log,
		service.IngestionOptions{
			LeaseTTL:          cfg.Ingestion.LeaseTTL,
			RunTimeout:        cfg.Ingestion.Timeout,
			RegistrationDelay: time.Second,
		},
	)

	deps.Services = &Services{
		Auth: service.NewAuthService(deps.Repos.Accounts,
			service.NewShopifyCredentialVerifier(clients), ingestion, log),
		Analytics: service.NewAnalyticsService(deps.Repos.Store),
		Ingestion: ingestion,
		Provision: service.NewProvisionService(deps.Repos.Accounts, deps.Repos.Store, log),
	}
	return deps
}

func (d *Dependencies) close(log *zap.Logger) {
	if err := d.Publisher.Close(); err != nil {
		log.Warn("close publisher failed", zap.Error(err))
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Warn("close redis failed", zap.Error(err))
		}
	}
	if err := database.Close(d.DB); err != nil {
		log.Warn("close database failed", zap.Error(err))
	}
}

func initControllers(svc *Services, log *zap.Logger) *router.Controllers {
	return &router.Controllers{
		Auth:      controller.NewAuthController(svc.Auth, log),
		Data:      controller.NewDataController(svc.Analytics, log),
		Ingestion: controller.NewIngestionController(svc.Ingestion, log),
	}
}

func initTasks(cfg *config.Config, deps *Dependencies, log *zap.Logger) *task.IngestionTask {
	t := task.NewIngestionTask(deps.Repos.Accounts.Tenants, deps.Services.Ingestion, task.IngestionTaskConfig{
		Spec:        cfg.Ingestion.Cron,
		RunOnStart:  cfg.Ingestion.RunOnStart,
		RetryFailed: cfg.Ingestion.RetryFailed,
		Timeout:     cfg.Ingestion.Timeout,
	}, log)
	if err := t.Start(); err != nil {
		log.Fatal("start ingestion task failed", zap.Error(err))
	}
	return t
}

// ==================== HTTP server ====================

func startServer(port string, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
