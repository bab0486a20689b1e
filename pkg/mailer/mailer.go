package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/khaifmono/memberbase/config"
)

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New 根据配置选择实现：未配置 SMTP 主机时只写日志
func New(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.SMTPHost == "" {
		logger.Warn("未配置 SMTP，邮件内容仅写入日志")
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg)
}

// ────────────────────── SMTP ──────────────────────

// SMTPMailer 基于 go-mail 的 SMTP 实现
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer 创建 SMTP 发送器
func NewSMTPMailer(cfg *config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建 SMTP 客户端失败: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send 发送纯文本邮件
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := buildMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("发件人地址无效: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("收件人地址无效: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// ────────────────────── 日志 ──────────────────────

// LogMailer 开发环境实现：邮件内容写入结构化日志
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 记录邮件内容
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("邮件（未实际发送）",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
