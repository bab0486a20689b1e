package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/api/handler"
	"github.com/khaifmono/memberbase/internal/api/router"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/database"
	"github.com/khaifmono/memberbase/pkg/jwt"
	applogger "github.com/khaifmono/memberbase/pkg/logger"
	"github.com/khaifmono/memberbase/pkg/mailer"
	"github.com/khaifmono/memberbase/pkg/metrics"
	"github.com/khaifmono/memberbase/pkg/redis"
	"github.com/khaifmono/memberbase/pkg/session"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("MEMBERBASE_CONFIG"))
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
		zap.String("log_level", cfg.Log.Level),
	)
	if cfg.OTP.FixedCode != "" {
		logger.Warn("已启用固定验证码，仅限开发环境使用")
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时使用进程内会话存储，且不做限流）
	var (
		store   session.Store
		limiter service.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，会话改用进程内存储，限流不可用", zap.Error(err))
		rdb = nil
		store = session.NewMemoryStore()
	} else {
		store = rdb
		limiter = rdb
	}

	// 5. 会话与外部依赖
	sessions := session.NewManager(store, jwt.NewManager(&cfg.Session), cfg.Session.TTL)

	mail, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("初始化邮件发送失败", zap.Error(err))
	}
	mt := metrics.New()

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(service.Deps{
		Config:  cfg,
		Repo:    repo,
		Mailer:  mail,
		Limiter: limiter,
		Metrics: mt,
		Logger:  logger,
	})
	h := handler.NewHandler(svc, sessions, cfg.Session.Cookie)

	// 6.1 初始管理员
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := svc.AdminAuth.EnsureSeedAdmin(seedCtx, cfg.Admin.SeedEmail, cfg.Admin.SeedPassword, cfg.Admin.SeedName); err != nil {
		logger.Fatal("创建初始管理员失败", zap.Error(err))
	}
	seedCancel()

	// 7. 初始化路由
	routerDeps := router.Deps{
		Config:   cfg,
		Handler:  h,
		Sessions: sessions,
		Metrics:  mt,
		DB:       repo,
		Logger:   logger,
	}
	if rdb != nil {
		routerDeps.Limiter = rdb
	}
	engine := router.Setup(routerDeps)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
