package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/api/middleware"
	"github.com/khaifmono/memberbase/pkg/session"
)

// SessionIssuer 建立 / 结束会话并维护会话 Cookie
type SessionIssuer struct {
	sessions *session.Manager
	cookie   config.CookieConfig
}

// NewSessionIssuer 创建 SessionIssuer
func NewSessionIssuer(sessions *session.Manager, cookie config.CookieConfig) *SessionIssuer {
	return &SessionIssuer{sessions: sessions, cookie: cookie}
}

// Start 先销毁请求已携带的会话，再为 subject 建立新会话，
// 保证同一客户端不会同时持有管理员与会员两种会话
func (s *SessionIssuer) Start(c *gin.Context, kind session.Kind, subjectID uint) error {
	s.destroyCurrent(c)

	sess, token, err := s.sessions.Create(c.Request.Context(), kind, subjectID)
	if err != nil {
		return err
	}

	c.SetSameSite(s.sameSite())
	c.SetCookie(s.cookie.Name, token, int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds()), "/", s.cookie.Domain, s.cookie.Secure, true)
	return nil
}

// End 销毁当前会话并清除 Cookie；未携带会话时同样视为成功
func (s *SessionIssuer) End(c *gin.Context) {
	s.destroyCurrent(c)

	c.SetSameSite(s.sameSite())
	c.SetCookie(s.cookie.Name, "", -1, "/", s.cookie.Domain, s.cookie.Secure, true)
}

func (s *SessionIssuer) destroyCurrent(c *gin.Context) {
	token := middleware.TokenFromRequest(c, s.cookie.Name)
	if token == "" {
		return
	}
	if sess, err := s.sessions.Resolve(c.Request.Context(), token); err == nil {
		_ = s.sessions.Destroy(c.Request.Context(), sess.ID)
	}
}

func (s *SessionIssuer) sameSite() http.SameSite {
	switch strings.ToLower(s.cookie.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
