package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/pkg/mailer"
	"github.com/khaifmono/memberbase/pkg/metrics"
)

var (
	ErrInvalidOtp  = errors.New("验证码无效或已过期")
	ErrOtpDelivery = errors.New("验证码发送失败")
)

// OtpService 一次性验证码台账
//
// 规则：
//   - 每次签发都插入新记录，不会使同一邮箱下尚未使用的旧验证码失效
//   - 校验与消费是一次条件 UPDATE；验证码一经校验通过即被标记为已使用，
//     与后续登记是否成功无关
type OtpService interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}

type otpService struct {
	cfg     *config.OTPConfig
	repo    *repository.Repository
	mailer  mailer.Mailer
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewOtpService 创建 OtpService 实例
func NewOtpService(
	cfg *config.OTPConfig,
	repo *repository.Repository,
	m mailer.Mailer,
	mt *metrics.Metrics,
	logger *zap.Logger,
) OtpService {
	return &otpService{
		cfg:     cfg,
		repo:    repo,
		mailer:  m,
		metrics: mt,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *otpService) Issue(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	code := s.cfg.FixedCode
	if code == "" {
		var err error
		code, err = generateNumericCode(s.cfg.Length)
		if err != nil {
			s.logger.Error("生成验证码失败", zap.Error(err))
			return "", err
		}
	}

	otp := &model.OtpCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.cfg.TTL),
	}

	minutes := int(s.cfg.TTL.Minutes())
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)

	// 发送失败时回滚插入，未送达的验证码不可被校验
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Otp.Create(ctx, otp); err != nil {
			s.logger.Error("保存验证码失败", zap.Error(err))
			return err
		}
		if err := s.mailer.Send(ctx, email, "Your verification code", body); err != nil {
			s.logger.Error("发送验证码邮件失败", zap.String("email", email), zap.Error(err))
			return ErrOtpDelivery
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.metrics.OtpIssued()
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, email, code string) (bool, error) {
	ok, err := s.repo.Otp.Consume(ctx, normalizeEmail(email), code, s.now())
	if err != nil {
		s.logger.Error("校验验证码失败", zap.Error(err))
		return false, err
	}

	if ok {
		s.metrics.OtpVerified(metrics.OtpResultSuccess)
	} else {
		s.metrics.OtpVerified(metrics.OtpResultInvalid)
	}
	return ok, nil
}

// generateNumericCode 使用 crypto/rand 生成指定长度的数字验证码
func generateNumericCode(length int) (string, error) {
	const digits = "0123456789"
	base := big.NewInt(int64(len(digits)))

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		buf[i] = digits[n.Int64()]
	}
	return string(buf), nil
}
