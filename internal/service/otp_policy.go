package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	pkgerrors "github.com/khaifmono/memberbase/pkg/errors"
	"github.com/khaifmono/memberbase/pkg/metrics"
)

var (
	ErrOtpRateLimited = errors.New("验证码申请过于频繁")
	ErrOtpNotOwner    = errors.New("IC 号码与邮箱不匹配")
)

// OtpIssuePolicy 签发验证码前的检查，返回非 nil 即拒绝签发
type OtpIssuePolicy interface {
	Check(ctx context.Context, icNumber, email string) error
}

// RateLimiter 滑动窗口限流器（由 pkg/redis.Client 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// NewOtpIssuePolicy 按配置组装策略链：限流 → 归属校验（可选）
// limiter 为 nil 时跳过限流
func NewOtpIssuePolicy(
	cfg *config.OTPConfig,
	limiter RateLimiter,
	repo *repository.Repository,
	mt *metrics.Metrics,
	logger *zap.Logger,
) OtpIssuePolicy {
	var chain OtpPolicyChain
	if limiter != nil && cfg.RateLimit > 0 {
		chain = append(chain, &RateLimitPolicy{
			limiter: limiter,
			limit:   cfg.RateLimit,
			window:  cfg.RateWindow,
			metrics: mt,
			logger:  logger,
		})
	}
	if cfg.EnforceOwnership {
		chain = append(chain, &OwnershipPolicy{repo: repo, metrics: mt, logger: logger})
	}
	return chain
}

// OtpPolicyChain 依次执行各策略，遇到第一个拒绝即返回
type OtpPolicyChain []OtpIssuePolicy

// Check 实现 OtpIssuePolicy
func (c OtpPolicyChain) Check(ctx context.Context, icNumber, email string) error {
	for _, p := range c {
		if err := p.Check(ctx, icNumber, email); err != nil {
			return err
		}
	}
	return nil
}

// ────────────────────── 限流 ──────────────────────

// RateLimitPolicy 按邮箱、按 IC 分别限流
// 限流器出错时降级放行
type RateLimitPolicy struct {
	limiter RateLimiter
	limit   int
	window  time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Check 实现 OtpIssuePolicy
func (p *RateLimitPolicy) Check(ctx context.Context, icNumber, email string) error {
	keys := []string{
		"otp:email:" + normalizeEmail(email),
		"otp:ic:" + strings.TrimSpace(icNumber),
	}

	for _, key := range keys {
		allowed, err := p.limiter.CheckRateLimit(ctx, key, p.limit, p.window)
		if err != nil {
			p.logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			continue
		}
		if !allowed {
			p.metrics.OtpRejected("rate_limited")
			return ErrOtpRateLimited
		}
	}
	return nil
}

// ────────────────────── 归属校验 ──────────────────────

// OwnershipPolicy 已完成注册的 IC 只能向其登记邮箱发送验证码
// 未注册或预登记的 IC 不受限制（验证通过后会改写邮箱）
type OwnershipPolicy struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Check 实现 OtpIssuePolicy
func (p *OwnershipPolicy) Check(ctx context.Context, icNumber, email string) error {
	member, err := p.repo.Member.GetByIC(ctx, strings.TrimSpace(icNumber))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil
		}
		p.logger.Error("归属校验查询会员失败", zap.Error(err))
		return err
	}

	if !ownsMember(member, email) {
		p.metrics.OtpRejected("ownership")
		return ErrOtpNotOwner
	}
	return nil
}

// ownsMember 已注册会员只认其登记邮箱；未注册会员不做限制
func ownsMember(member *model.Member, email string) bool {
	return !member.IsRegistered || strings.EqualFold(member.Email, normalizeEmail(email))
}
