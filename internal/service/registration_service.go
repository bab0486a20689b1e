package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	pkgerrors "github.com/khaifmono/memberbase/pkg/errors"
	"github.com/khaifmono/memberbase/pkg/metrics"
)

var (
	ErrDuplicateIC = errors.New("IC 号码已存在")
	ErrEmailExists = errors.New("邮箱已被其他会员使用")
)

// 会员登记来源（指标标签）
const (
	sourcePreRegister  = "pre_register"
	sourceSelfRegister = "self_register"
	sourcePromoted     = "promoted"
)

// RegistrationService 会员身份识别与登记状态机
//
// 状态流转：
//   - 管理员预登记：isPreRegistered=true, isRegistered=false
//   - 首次 OTP 校验通过：isRegistered=true（仅此一次）
//   - 已注册会员再次校验：原样返回，仅用于建立会话
type RegistrationService interface {
	RequestOtp(ctx context.Context, req *dto.OtpRequest) (*dto.OtpRequestResponse, error)
	VerifyAndRegister(ctx context.Context, req *dto.OtpVerifyRequest) (*model.Member, error)
	PreRegister(ctx context.Context, req *dto.PreRegisterRequest, adminID uint) (*model.Member, error)
	ParseImportFile(reader io.Reader) ([]ImportMemberRow, error)
	ImportPreRegistrations(ctx context.Context, rows []ImportMemberRow, adminID uint) (*dto.ImportMemberResponse, error)
}

type registrationService struct {
	repo    *repository.Repository
	otp     OtpService
	policy  OtpIssuePolicy
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	// enforceOwnership 为 true 时校验阶段同样要求已注册 IC 与邮箱匹配
	enforceOwnership bool
}

// NewRegistrationService 创建 RegistrationService 实例
func NewRegistrationService(
	repo *repository.Repository,
	otp OtpService,
	policy OtpIssuePolicy,
	enforceOwnership bool,
	mt *metrics.Metrics,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		repo:             repo,
		otp:              otp,
		policy:           policy,
		metrics:          mt,
		logger:           logger,
		now:              time.Now,
		enforceOwnership: enforceOwnership,
	}
}

// ────────────────────── RequestOtp ──────────────────────

// RequestOtp 不校验 IC 与邮箱是否对应已有会员，策略链放行后即向该邮箱签发验证码
func (s *registrationService) RequestOtp(ctx context.Context, req *dto.OtpRequest) (*dto.OtpRequestResponse, error) {
	email := normalizeEmail(req.Email)
	icNumber := strings.TrimSpace(req.ICNumber)

	if s.policy != nil {
		if err := s.policy.Check(ctx, icNumber, email); err != nil {
			return nil, err
		}
	}

	if _, err := s.otp.Issue(ctx, email); err != nil {
		return nil, err
	}

	return &dto.OtpRequestResponse{Message: "OTP Sent", Email: email}, nil
}

// ────────────────────── VerifyAndRegister ──────────────────────

func (s *registrationService) VerifyAndRegister(ctx context.Context, req *dto.OtpVerifyRequest) (*model.Member, error) {
	email := normalizeEmail(req.Email)
	icNumber := strings.TrimSpace(req.ICNumber)

	// 1. 消费验证码；此后无论登记是否成功，该验证码都已失效
	ok, err := s.otp.Verify(ctx, email, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOtp
	}

	// 2. 按 IC 识别身份
	member, err := s.repo.Member.GetByIC(ctx, icNumber)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			s.logger.Error("按 IC 查询会员失败", zap.Error(err))
			return nil, err
		}
		return s.createRegistered(ctx, icNumber, email)
	}

	return s.resolveExisting(ctx, member, email)
}

// createRegistered 首次自助登记：直接创建已注册会员
func (s *registrationService) createRegistered(ctx context.Context, icNumber, email string) (*model.Member, error) {
	member := &model.Member{
		ICNumber:     icNumber,
		Email:        email,
		IsRegistered: true,
	}
	if err := s.repo.Member.Create(ctx, member); err != nil {
		if !pkgerrors.IsDuplicate(err) {
			s.logger.Error("创建会员失败", zap.Error(err))
			return nil, err
		}
		// 并发登记同一 IC 时按已存在处理；否则是邮箱冲突
		existing, getErr := s.repo.Member.GetByIC(ctx, icNumber)
		if getErr != nil {
			return nil, ErrEmailExists
		}
		return s.resolveExisting(ctx, existing, email)
	}

	s.metrics.MemberRegistered(sourceSelfRegister)
	s.logger.Info("会员自助登记", zap.Uint("member_id", member.ID))
	return member, nil
}

// resolveExisting 已存在会员：未注册则转为已注册并改写邮箱，已注册则原样返回
func (s *registrationService) resolveExisting(ctx context.Context, member *model.Member, email string) (*model.Member, error) {
	// 验证码只绑定邮箱：须防止用其他 IC 申请的验证码登录已注册会员
	if s.enforceOwnership && !ownsMember(member, email) {
		s.metrics.OtpRejected("ownership")
		s.logger.Warn("校验阶段 IC 与登记邮箱不匹配", zap.Uint("member_id", member.ID))
		return nil, ErrOtpNotOwner
	}

	if member.IsRegistered {
		return member, nil
	}

	err := s.repo.Member.UpdateFields(ctx, member.ID, map[string]interface{}{
		"is_registered": true,
		"email":         email,
		"updated_at":    s.now(),
	})
	if err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新会员注册状态失败", zap.Uint("member_id", member.ID), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Member.GetByID(ctx, member.ID)
	if err != nil {
		s.logger.Error("重新加载会员失败", zap.Uint("member_id", member.ID), zap.Error(err))
		return nil, err
	}

	s.metrics.MemberRegistered(sourcePromoted)
	s.logger.Info("预登记会员完成注册", zap.Uint("member_id", member.ID))
	return updated, nil
}

// ────────────────────── PreRegister ──────────────────────

// PreRegister 管理员预登记；会员与审计日志在同一事务中写入
func (s *registrationService) PreRegister(ctx context.Context, req *dto.PreRegisterRequest, adminID uint) (*model.Member, error) {
	icNumber := strings.TrimSpace(req.ICNumber)
	email := normalizeEmail(req.Email)

	var member *model.Member
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Member.GetByIC(ctx, icNumber); err == nil {
			return ErrDuplicateIC
		} else if !pkgerrors.IsNotFound(err) {
			return err
		}

		if _, err := tx.Member.GetByEmail(ctx, email); err == nil {
			return ErrEmailExists
		} else if !pkgerrors.IsNotFound(err) {
			return err
		}

		member = &model.Member{
			ICNumber:        icNumber,
			Email:           email,
			IsPreRegistered: true,
			FullName:        trimmedOrNil(req.Name),
		}
		if err := tx.Member.Create(ctx, member); err != nil {
			if pkgerrors.IsDuplicate(err) {
				return ErrDuplicateIC
			}
			return err
		}

		return recordAudit(ctx, tx, adminID, model.AuditActionPreRegister, model.AuditTargetMember, member.ID,
			map[string]interface{}{"ic": icNumber})
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateIC) || errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		s.logger.Error("预登记会员失败", zap.Error(err))
		return nil, err
	}

	s.metrics.MemberRegistered(sourcePreRegister)
	return member, nil
}

// trimmedOrNil 去除首尾空白，空串视为未提供
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
