package handler

import (
	"github.com/khaifmono/memberbase/config"
	"github.com/khaifmono/memberbase/internal/service"
	"github.com/khaifmono/memberbase/pkg/session"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	AdminAuth  *AdminAuthHandler
	Otp        *OtpHandler
	Member     *MemberHandler
	MemberSelf *MemberSelfHandler
	Lookup     *LookupHandler
	Audit      *AuditHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, sessions *session.Manager, cookie config.CookieConfig) *Handler {
	issuer := NewSessionIssuer(sessions, cookie)
	return &Handler{
		AdminAuth:  NewAdminAuthHandler(svc.AdminAuth, issuer),
		Otp:        NewOtpHandler(svc.Registration, issuer),
		Member:     NewMemberHandler(svc.Member, svc.Registration),
		MemberSelf: NewMemberSelfHandler(svc.Member, issuer),
		Lookup:     NewLookupHandler(svc.Lookup),
		Audit:      NewAuditHandler(svc.Audit),
		Export:     NewExportHandler(svc.Export),
	}
}
