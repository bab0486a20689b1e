package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/pkg/session"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	s := &session.Session{
		ID:        "abc",
		Kind:      session.KindAdmin,
		SubjectID: 3,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, c.Save(ctx, s))

	ttl := mr.TTL(sessionPrefix + "abc")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "TTL 应与剩余有效期一致，实际 %v", ttl)

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.KindAdmin, got.Kind)
	assert.Equal(t, uint(3), got.SubjectID)

	require.NoError(t, c.Delete(ctx, "abc"))
	_, err = c.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_ExpiresWithTTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, &session.Session{ID: "x", Kind: session.KindMember, ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "x")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_CorruptData(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set(sessionPrefix+"bad", "{not json"))

	_, err := c.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.False(t, mr.Exists(sessionPrefix+"bad"), "损坏的会话应被删除")
}

func TestSessionStore_WithManager(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	var store session.Store = c

	require.NoError(t, store.Save(ctx, &session.Session{ID: "m", Kind: session.KindMember, SubjectID: 9, ExpiresAt: time.Now().Add(time.Hour)}))
	got, err := store.Get(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, uint(9), got.SubjectID)
}

func TestCheckRateLimit(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, "otp:email:a@x.com", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "第 %d 次请求应放行", i+1)
	}

	allowed, err := c.CheckRateLimit(ctx, "otp:email:a@x.com", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "超过上限应被拒绝")

	allowed, err = c.CheckRateLimit(ctx, "otp:email:b@x.com", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "不同的键互不影响")
}
