package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/testutil"
)

func TestNewOtpIssuePolicy_EmptyChainAllows(t *testing.T) {
	policy := NewOtpIssuePolicy(&config.OTPConfig{RateLimit: 5}, nil, nil, nil, zap.NewNop())
	assert.NoError(t, policy.Check(context.Background(), "1", "a@x.com"))
}

func TestRateLimitPolicy_PerEmailAndPerIC(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewOtpIssuePolicy(&config.OTPConfig{RateLimit: 1, RateWindow: time.Minute}, limiter, nil, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, policy.Check(ctx, "IC1", "a@x.com"))
	assert.ErrorIs(t, policy.Check(ctx, "IC2", "A@x.com"), ErrOtpRateLimited, "同一邮箱（忽略大小写）受限")
	assert.ErrorIs(t, policy.Check(ctx, "IC1", "b@x.com"), ErrOtpRateLimited, "同一 IC 受限")
	assert.NoError(t, policy.Check(ctx, "IC3", "c@x.com"))
}

func TestRateLimitPolicy_LimiterErrorAllows(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	policy := NewOtpIssuePolicy(&config.OTPConfig{RateLimit: 1, RateWindow: time.Minute}, limiter, nil, nil, zap.NewNop())

	assert.NoError(t, policy.Check(context.Background(), "1", "a@x.com"))
}

func TestOwnershipPolicy(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Member.Create(ctx, &model.Member{ICNumber: "REG", Email: "owner@x.com", IsRegistered: true}))
	require.NoError(t, repo.Member.Create(ctx, &model.Member{ICNumber: "PRE", Email: "pre@x.com", IsPreRegistered: true}))

	policy := NewOtpIssuePolicy(&config.OTPConfig{EnforceOwnership: true}, nil, repo, nil, zap.NewNop())

	tests := []struct {
		name    string
		ic      string
		email   string
		wantErr error
	}{
		{"已注册会员使用登记邮箱", "REG", "Owner@x.com", nil},
		{"已注册会员使用其他邮箱", "REG", "intruder@x.com", ErrOtpNotOwner},
		{"预登记会员可以换邮箱", "PRE", "new@x.com", nil},
		{"未知 IC", "NEW", "anyone@x.com", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Check(ctx, tt.ic, tt.email)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := generateNumericCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "验证码只包含数字: %s", code)
	}
}
