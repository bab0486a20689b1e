package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khaifmono/memberbase/internal/dto"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	pkgerrors "github.com/khaifmono/memberbase/pkg/errors"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAdminNotFound      = errors.New("管理员不存在")
)

// AdminAuthService 管理员认证业务接口
type AdminAuthService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*model.Admin, error)
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
	// EnsureSeedAdmin 邮箱不存在时创建初始管理员，已存在则不做任何修改
	EnsureSeedAdmin(ctx context.Context, email, password, name string) (bool, error)
}

type adminAuthService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminAuthService 创建 AdminAuthService 实例
func NewAdminAuthService(repo *repository.Repository, logger *zap.Logger) AdminAuthService {
	return &adminAuthService{repo: repo, logger: logger}
}

func (s *adminAuthService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*model.Admin, error) {
	// 1. 查询管理员
	admin, err := s.repo.Admin.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询管理员失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

func (s *adminAuthService) GetByID(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := s.repo.Admin.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrAdminNotFound
		}
		s.logger.Error("查询管理员失败", zap.Uint("admin_id", id), zap.Error(err))
		return nil, err
	}
	return admin, nil
}

func (s *adminAuthService) EnsureSeedAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	if _, err := s.repo.Admin.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !pkgerrors.IsNotFound(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := &model.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
	}
	if err := s.repo.Admin.Create(ctx, admin); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return false, nil // 并发启动时其他实例已创建
		}
		return false, err
	}

	s.logger.Info("已创建初始管理员", zap.String("email", email))
	return true, nil
}

// normalizeEmail 邮箱统一去空白并转小写
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
