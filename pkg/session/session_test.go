package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/pkg/jwt"
)

func newTestManager(store Store) *Manager {
	jm := jwt.NewManager(&config.SessionConfig{Secret: "test-secret-key-for-unit-testing-2026"})
	return NewManager(store, jm, 24*time.Hour)
}

func TestManager_CreateResolveDestroy(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(NewMemoryStore())

	s, token, err := m.Create(ctx, KindMember, 42)
	require.NoError(t, err)
	assert.Equal(t, KindMember, s.Kind)
	assert.Equal(t, 24*time.Hour, s.ExpiresAt.Sub(s.CreatedAt))

	resolved, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resolved.ID)
	assert.Equal(t, uint(42), resolved.SubjectID)

	require.NoError(t, m.Destroy(ctx, s.ID))

	_, err = m.Resolve(ctx, token)
	assert.True(t, errors.Is(err, ErrSessionNotFound), "登出后令牌不再有效")
}

func TestManager_RejectsUnknownKind(t *testing.T) {
	m := newTestManager(NewMemoryStore())
	_, _, err := m.Create(context.Background(), Kind("user"), 1)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestManager_AbsoluteExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newTestManager(store)

	base := time.Now()
	m.now = func() time.Time { return base }
	_, token, err := m.Create(ctx, KindAdmin, 1)
	require.NoError(t, err)

	// 访问不会续期：只要超过创建时间 + TTL 即失效
	m.now = func() time.Time { return base.Add(12 * time.Hour) }
	_, err = m.Resolve(ctx, token)
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(24*time.Hour + time.Second) }
	store.now = m.now
	_, err = m.Resolve(ctx, token)
	assert.Error(t, err)
}

func TestManager_TokenFromAnotherSecret(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newTestManager(store)
	_, _, err := m.Create(ctx, KindAdmin, 1)
	require.NoError(t, err)

	other := NewManager(store, jwt.NewManager(&config.SessionConfig{Secret: "a-completely-different-secret"}), time.Hour)
	_, forged, err := other.Create(ctx, KindAdmin, 1)
	require.NoError(t, err)

	_, err = m.Resolve(ctx, forged)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestMemoryStore_SweepsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Now()
	store.now = func() time.Time { return base }

	require.NoError(t, store.Save(ctx, &Session{ID: "old", ExpiresAt: base.Add(time.Minute)}))
	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	require.NoError(t, store.Save(ctx, &Session{ID: "new", ExpiresAt: base.Add(time.Hour)}))

	assert.Equal(t, 1, store.Len())
	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
