package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/api/handler"
	"github.com/khaifmono/memberbase/internal/api/middleware"
	"github.com/khaifmono/memberbase/pkg/metrics"
	"github.com/khaifmono/memberbase/pkg/session"
)

// OTP 接口按 IP 的限流（与按邮箱 / IC 的签发策略互补）
const (
	otpRouteLimit  = 20
	otpRouteWindow = time.Minute
)

// Pinger 健康检查依赖（数据库）
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps 路由依赖
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	Sessions *session.Manager
	Limiter  middleware.RateLimiter // 可为 nil
	Metrics  *metrics.Metrics
	DB       Pinger
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	cfg, h := d.Config, d.Handler
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SessionAuth(d.Sessions, cfg.Session.Cookie.Name))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		if d.DB != nil {
			if err := d.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")
	{
		// 管理员认证
		admin := api.Group("/admin")
		{
			admin.POST("/login", h.AdminAuth.Login)
			admin.POST("/logout", h.AdminAuth.Logout)
			admin.GET("/me", middleware.RequireAdmin(), h.AdminAuth.Me)
		}

		// 会员 OTP 登录 / 自助登记
		otp := api.Group("/auth/otp")
		otp.Use(middleware.RateLimit(d.Limiter, otpRouteLimit, otpRouteWindow))
		{
			otp.POST("/request", h.Otp.Request)
			otp.POST("/verify", h.Otp.Verify)
		}

		// 会员管理（管理员）
		members := api.Group("/members")
		members.Use(middleware.RequireAdmin())
		{
			members.GET("", h.Member.ListMembers)
			members.GET("/stats", h.Member.Stats)
			members.GET("/export", h.Export.ExportMembers)
			members.POST("/pre-register", h.Member.PreRegister)
			members.POST("/import", h.Member.ImportMembers)
			members.GET("/:id", h.Member.GetMember)
			members.PUT("/:id", h.Member.UpdateMember)
			members.DELETE("/:id", h.Member.DeleteMember)
		}

		// 会员自助
		member := api.Group("/member")
		{
			member.GET("/me", middleware.RequireMember(), h.MemberSelf.GetMe)
			member.PUT("/me", middleware.RequireMember(), h.MemberSelf.UpdateMe)
			member.POST("/logout", h.MemberSelf.Logout)
		}

		// 基础数据（管理员）
		lookups := api.Group("/lookups")
		lookups.Use(middleware.RequireAdmin())
		{
			lookups.GET("/classes", h.Lookup.ListClasses)
			lookups.POST("/classes", h.Lookup.CreateClass)
			lookups.DELETE("/classes/:id", h.Lookup.DeleteClass)

			lookups.GET("/supervisors", h.Lookup.ListSupervisors)
			lookups.POST("/supervisors", h.Lookup.CreateSupervisor)
			lookups.DELETE("/supervisors/:id", h.Lookup.DeleteSupervisor)

			lookups.GET("/ranks", h.Lookup.ListRanks)
			lookups.POST("/ranks", h.Lookup.CreateRank)
			lookups.DELETE("/ranks/:id", h.Lookup.DeleteRank)
		}

		// 审计日志（管理员）
		api.GET("/audit-logs", middleware.RequireAdmin(), h.Audit.ListAuditLogs)
	}

	return r
}
