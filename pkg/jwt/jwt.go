package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/khaifmono/memberbase/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// Issuer 签发方
const Issuer = "memberbase"

// Claims 会话令牌声明
// jti 即服务端会话 ID，令牌本身不代表会话有效，必须以服务端记录为准
type Claims struct {
	Kind      string `json:"kind"` // "admin" | "member"
	SubjectID uint   `json:"sub_id"`
	jwtv5.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret []byte
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{secret: []byte(cfg.Secret)}
}

// GenerateSessionToken 为服务端会话签发令牌，过期时间与会话一致
func (m *Manager) GenerateSessionToken(sessionID, kind string, subjectID uint, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Kind:      kind,
		SubjectID: subjectID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwtv5.NewNumericDate(issuedAt),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
			Issuer:    Issuer,
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwtv5.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
