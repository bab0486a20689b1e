package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khaifmono/memberbase/pkg/jwt"
)

// Kind 会话类型：管理员与会员是两种互不相通的身份
type Kind string

const (
	KindAdmin  Kind = "admin"
	KindMember Kind = "member"
)

var (
	ErrSessionNotFound = errors.New("会话不存在或已过期")
	ErrInvalidKind     = errors.New("未知的会话类型")
)

// Session 服务端会话记录
type Session struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	SubjectID uint      `json:"subjectId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired 是否已超过绝对有效期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store 会话存储接口（Redis / 进程内）
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Manager 会话管理：创建、解析、销毁
type Manager struct {
	store Store
	jwt   *jwt.Manager
	ttl   time.Duration
	now   func() time.Time
}

// NewManager 创建会话管理器；ttl 为固定绝对有效期，不随访问续期
func NewManager(store Store, jwtManager *jwt.Manager, ttl time.Duration) *Manager {
	return &Manager{store: store, jwt: jwtManager, ttl: ttl, now: time.Now}
}

// TTL 会话有效期
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create 新建会话并签发令牌
func (m *Manager) Create(ctx context.Context, kind Kind, subjectID uint) (*Session, string, error) {
	if kind != KindAdmin && kind != KindMember {
		return nil, "", ErrInvalidKind
	}

	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		Kind:      kind,
		SubjectID: subjectID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, "", fmt.Errorf("保存会话失败: %w", err)
	}

	token, err := m.jwt.GenerateSessionToken(s.ID, string(s.Kind), s.SubjectID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		_ = m.store.Delete(ctx, s.ID)
		return nil, "", fmt.Errorf("签发会话令牌失败: %w", err)
	}
	return s, token, nil
}

// Resolve 由令牌解析出仍然有效的服务端会话
// 令牌签名有效但服务端记录已删除（登出）或过期时，返回 ErrSessionNotFound
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := m.jwt.ParseToken(token)
	if err != nil {
		return nil, err
	}

	s, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, s.ID)
		return nil, ErrSessionNotFound
	}
	if string(s.Kind) != claims.Kind || s.SubjectID != claims.SubjectID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Destroy 销毁整个会话；会话不存在时不报错
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}

// ────────────────────── 进程内存储 ──────────────────────

// MemoryStore 进程内会话存储，Redis 不可用时使用（单实例部署）
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore 创建进程内会话存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sess.ID] = &cp
	s.sweepLocked()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len 当前保存的会话数
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// sweepLocked 清理已过期会话，调用方需持有写锁
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
