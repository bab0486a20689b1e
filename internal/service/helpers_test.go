package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/testutil"
	"github.com/khaifmono/memberbase/pkg/metrics"
)

// ── 测试替身 ──

type sentMail struct {
	to, subject, body string
}

// captureMailer 记录发送内容的 Mailer
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// fakeLimiter 按键计数的限流器
type fakeLimiter struct {
	counts map[string]int
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int)}
}

func (l *fakeLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

// ── 测试环境 ──

type testEnv struct {
	db     *gorm.DB
	repo   *repository.Repository
	svc    *Service
	mailer *captureMailer
	cfg    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		OTP: config.OTPConfig{
			TTL:    10 * time.Minute,
			Length: 6,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, testConfig(), nil)
}

func newTestEnvWith(t *testing.T, cfg *config.Config, limiter RateLimiter) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewRepository(db)
	m := &captureMailer{}

	svc := NewService(Deps{
		Config:  cfg,
		Repo:    repo,
		Mailer:  m,
		Limiter: limiter,
		Metrics: metrics.New(),
		Logger:  zap.NewNop(),
	})
	return &testEnv{db: db, repo: repo, svc: svc, mailer: m, cfg: cfg}
}

// lastCode 最近一次发送的验证码
func (e *testEnv) lastCode(t *testing.T) string {
	t.Helper()
	e.mailer.mu.Lock()
	defer e.mailer.mu.Unlock()
	if len(e.mailer.sent) == 0 {
		t.Fatal("没有发送任何验证码")
	}
	body := e.mailer.sent[len(e.mailer.sent)-1].body
	// "Your verification code is XXXXXX. ..."
	const prefix = "Your verification code is "
	return body[len(prefix) : len(prefix)+e.cfg.OTP.Length]
}

func (e *testEnv) auditCount(t *testing.T, targetType string, targetID uint) int64 {
	t.Helper()
	n, err := e.repo.AuditLog.CountByTarget(context.Background(), targetType, targetID)
	if err != nil {
		t.Fatalf("统计审计日志失败: %v", err)
	}
	return n
}

func (e *testEnv) memberCount(t *testing.T) int64 {
	t.Helper()
	stats, err := e.repo.Member.Stats(context.Background())
	if err != nil {
		t.Fatalf("统计会员失败: %v", err)
	}
	return stats.Total
}
