package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "tweeter/internal/handler/http"
	gormpersistence "tweeter/internal/infra/persistence/gorm"
	"tweeter/internal/infra/setup"
	"tweeter/internal/middleware"
	"tweeter/internal/service"
	"tweeter/internal/tasks"
	"tweeter/internal/token"
	"tweeter/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client        // REDIS_ADDR 为空时为 nil
	AsynqClient *asynq.Client        // 同上
	AsynqServer *worker.WorkerServer // 同上
	Router      *gin.Engine
	HttpServer  *http.Server
}

// NewApp 加载配置并创建应用
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		// 使用标准输出记录启动时错误，因为 logrus 可能还未完全配置
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig 根据给定配置初始化应用的所有组件
func NewAppWithConfig(cfg *Config) (*App, error) {
	log := NewLogger(cfg)
	log.Info("Configuration loaded successfully")

	// 1. 数据库
	db, err := openDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("Database initialized and migrated")

	// 2. Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	tweetRepo := gormpersistence.NewGormTweetRepository(db)
	commentRepo := gormpersistence.NewGormCommentRepository(db)
	activityRepo := gormpersistence.NewGormActivityRepository(db)

	app := &App{Config: cfg, Log: log, DB: db}

	// 3. Redis 和 asynq (可选)
	var recorder service.ActivityRecorder = service.RepositoryRecorder{Repo: activityRepo}
	if cfg.RedisAddr != "" {
		app.RedisClient, err = setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		redisClientOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(redisClientOpt)
		app.AsynqServer = worker.NewWorkerServer(redisClientOpt, activityRepo, cfg.ActivityQueue, cfg.WorkerConcurrency, log)
		recorder = tasks.NewAsynqActivityRecorder(app.AsynqClient, cfg.ActivityQueue)
		log.Info("Redis, asynq client and worker server initialized")
	} else {
		log.Warn("REDIS_ADDR not set: rate limiting disabled, activities are written synchronously")
	}

	// 4. Services
	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}
	policy := service.Policy{AllowAnyTweetDelete: cfg.AllowAnyTweetDelete}
	authService := service.NewAuthService(userRepo, issuer, recorder)
	tweetService := service.NewTweetService(tweetRepo, policy, recorder)
	commentService := service.NewCommentService(commentRepo, tweetRepo, policy, recorder)
	activityService := service.NewActivityService(activityRepo)

	// 5. Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.CORSAllowedOrigin))
	if app.RedisClient != nil {
		router.Use(middleware.RateLimit(middleware.NewRedisCounter(app.RedisClient), cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	httpHandler.RegisterRoutes(router, httpHandler.Handlers{
		Auth:     httpHandler.NewAuthHandler(authService),
		Tweet:    httpHandler.NewTweetHandler(tweetService),
		Comment:  httpHandler.NewCommentHandler(commentService),
		Activity: httpHandler.NewActivityHandler(activityService),
	}, middleware.Auth(issuer))
	app.Router = router

	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("Application assembled successfully")
	return app, nil
}

func openDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DBDriver == "sqlite" {
		return setup.InitSQLite(cfg.SQLitePath)
	}
	return setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// Start 启动 worker 和 HTTP 服务器，不阻塞
func (a *App) Start() {
	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
		a.Log.Info("Asynq worker server routine started")
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	if a.HttpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.HttpServer.Shutdown(ctx); err != nil {
			a.Log.Errorf("Error shutting down HTTP server: %v", err)
		} else {
			a.Log.Info("HTTP server shut down gracefully.")
		}
	}

	// 2. 等待 worker 处理完进行中的任务
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}
