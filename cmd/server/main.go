package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"course-planner/backend/config"
	"course-planner/backend/internal/api/handler"
	"course-planner/backend/internal/api/middleware"
	"course-planner/backend/internal/api/router"
	"course-planner/backend/internal/chat"
	"course-planner/backend/internal/repository"
	"course-planner/backend/internal/service"
	"course-planner/backend/internal/store"
	"course-planner/backend/pkg/database"
	applogger "course-planner/backend/pkg/logger"
	"course-planner/backend/pkg/redis"
)

func main() {
	// 0. 本地开发读取 .env（不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("PLANNER_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 打开集合存储
	st, rdb, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("存储初始化失败", zap.Error(err))
	}

	if cfg.Store.Seed {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := st.Seed(seedCtx, store.DemoCourses())
		cancel()
		if err != nil {
			// 存储暂不可用时仍然启动，请求会返回 50001
			logger.Error("演示数据初始化失败", zap.Error(err))
		}
	}

	// 4. 聊天规则
	rules := chat.DefaultRules()
	if cfg.Chat.RulesFile != "" {
		rules, err = chat.LoadRules(cfg.Chat.RulesFile)
		if err != nil {
			logger.Fatal("加载聊天规则失败", zap.String("file", cfg.Chat.RulesFile), zap.Error(err))
		}
		logger.Info("聊天规则已加载", zap.String("file", cfg.Chat.RulesFile), zap.Int("rules", len(rules.Rules)))
	}

	// 5. 限流（可选：Redis 不可用时降级为不限流）
	var limiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		if rdb == nil {
			rdb, err = redis.NewClient(&cfg.Redis, cfg.Store.KeyPrefix, logger)
			if err != nil {
				logger.Warn("Redis 连接失败，限流功能将不可用", zap.Error(err))
				rdb = nil
			}
		}
		if rdb != nil {
			limiter = rdb
		}
	}

	// 6. 依赖注入: Store → Repository → Service → Handler
	repo := repository.NewRepository(st)
	svc := service.NewService(repo, rules, logger)
	h := handler.NewHandler(cfg, svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, limiter, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// redis 驱动下 Store 与限流共用同一连接，由 Store 关闭
	if err := st.Close(); err != nil {
		logger.Error("关闭存储失败", zap.Error(err))
	}
	if rdb != nil && cfg.Store.Driver != config.StoreDriverRedis {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// openStore 按 store.driver 选择 Driver；redis 驱动时同时返回客户端供限流复用
func openStore(cfg *config.Config, logger *zap.Logger) (*store.Store, *redis.Client, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := database.NewSQLite(cfg.Store.SQLitePath, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		drv := store.NewGormDriver(db)
		if err := drv.AutoMigrate(); err != nil {
			return nil, nil, fmt.Errorf("SQLite 建表失败: %w", err)
		}
		return store.New(drv, logger), nil, nil

	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, logger); err != nil {
			return nil, nil, err
		}
		return store.New(store.NewGormDriver(db), logger), nil, nil

	case config.StoreDriverRedis:
		rdb, err := redis.NewClient(&cfg.Redis, cfg.Store.KeyPrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return store.New(rdb, logger), rdb, nil

	default:
		return store.New(store.NewMemoryDriver(), logger), nil, nil
	}
}
