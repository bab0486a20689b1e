package service

import (
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/pkg/mailer"
	"github.com/khaifmono/memberbase/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	AdminAuth    AdminAuthService
	Otp          OtpService
	Registration RegistrationService
	Member       MemberService
	Lookup       LookupService
	Audit        AuditService
	Export       ExportService
}

// Deps Service 层的外部依赖
type Deps struct {
	Config  *config.Config
	Repo    *repository.Repository
	Mailer  mailer.Mailer
	Limiter RateLimiter // 可为 nil（Redis 不可用时不限流）
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// NewService 创建 Service 聚合
func NewService(d Deps) *Service {
	otp := NewOtpService(&d.Config.OTP, d.Repo, d.Mailer, d.Metrics, d.Logger)
	policy := NewOtpIssuePolicy(&d.Config.OTP, d.Limiter, d.Repo, d.Metrics, d.Logger)

	return &Service{
		AdminAuth:    NewAdminAuthService(d.Repo, d.Logger),
		Otp:          otp,
		Registration: NewRegistrationService(d.Repo, otp, policy, d.Config.OTP.EnforceOwnership, d.Metrics, d.Logger),
		Member:       NewMemberService(d.Repo, d.Logger),
		Lookup:       NewLookupService(d.Repo, d.Logger),
		Audit:        NewAuditService(d.Repo, d.Logger),
		Export:       NewExportService(d.Repo, d.Logger),
	}
}
