package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/testutil"
)

func issueCode(t *testing.T, repo repository.OtpRepository, email, code string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.OtpCode{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	}))
}

func TestOtpRepo_ConsumeOnce(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewOtpRepo(db)
	ctx := context.Background()
	now := time.Now()

	issueCode(t, repo, "a@x.com", "123456", now.Add(10*time.Minute))

	ok, err := repo.Consume(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Consume(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.False(t, ok, "已使用的验证码不能再次通过")
}

func TestOtpRepo_ConsumeRejects(t *testing.T) {
	tests := []struct {
		name  string
		email string
		code  string
		setup func(t *testing.T, repo repository.OtpRepository, now time.Time)
	}{
		{
			name: "已过期", email: "a@x.com", code: "111111",
			setup: func(t *testing.T, repo repository.OtpRepository, now time.Time) {
				issueCode(t, repo, "a@x.com", "111111", now.Add(-time.Second))
			},
		},
		{
			name: "验证码错误", email: "a@x.com", code: "999999",
			setup: func(t *testing.T, repo repository.OtpRepository, now time.Time) {
				issueCode(t, repo, "a@x.com", "111111", now.Add(time.Minute))
			},
		},
		{
			name: "邮箱不匹配", email: "b@x.com", code: "111111",
			setup: func(t *testing.T, repo repository.OtpRepository, now time.Time) {
				issueCode(t, repo, "a@x.com", "111111", now.Add(time.Minute))
			},
		},
		{
			name: "最新匹配行已过期", email: "a@x.com", code: "111111",
			setup: func(t *testing.T, repo repository.OtpRepository, now time.Time) {
				issueCode(t, repo, "a@x.com", "111111", now.Add(time.Minute))
				issueCode(t, repo, "a@x.com", "111111", now.Add(-time.Minute))
			},
		},
		{
			name: "没有任何记录", email: "a@x.com", code: "111111",
			setup: func(t *testing.T, repo repository.OtpRepository, now time.Time) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewSQLiteDB(t)
			repo := repository.NewOtpRepo(db)
			now := time.Now()
			tt.setup(t, repo, now)

			ok, err := repo.Consume(context.Background(), tt.email, tt.code, now)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestOtpRepo_MultipleOutstandingCodes(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewOtpRepo(db)
	ctx := context.Background()
	now := time.Now()

	issueCode(t, repo, "a@x.com", "111111", now.Add(time.Minute))
	issueCode(t, repo, "a@x.com", "222222", now.Add(time.Minute))

	ok, err := repo.Consume(ctx, "a@x.com", "111111", now)
	require.NoError(t, err)
	assert.True(t, ok, "新签发的验证码不会使旧验证码失效")

	ok, err = repo.Consume(ctx, "a@x.com", "222222", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOtpRepo_ConcurrentConsume(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewOtpRepo(db)
	now := time.Now()
	issueCode(t, repo, "a@x.com", "123456", now.Add(time.Minute))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Consume(context.Background(), "a@x.com", "123456", now)
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins, "并发校验同一验证码只能成功一次")
}
