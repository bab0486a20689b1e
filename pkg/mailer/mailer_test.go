package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khaifmono/memberbase/config"
)

func TestNew_FallsBackToLogMailer(t *testing.T) {
	m, err := New(&config.MailConfig{}, zap.NewNop())
	require.NoError(t, err)
	_, ok := m.(*LogMailer)
	assert.True(t, ok, "未配置 SMTP 时应使用 LogMailer")
}

func TestNew_SMTPMailer(t *testing.T) {
	m, err := New(&config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, From: "no-reply@example.com"}, zap.NewNop())
	require.NoError(t, err)
	_, ok := m.(*SMTPMailer)
	assert.True(t, ok)
}

func TestLogMailer_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	require.NoError(t, m.Send(context.Background(), "a@x.com", "Your code", "123456"))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a@x.com", fields["to"])
	assert.Equal(t, "123456", fields["body"])
}

func TestBuildMessage_InvalidAddress(t *testing.T) {
	_, err := buildMessage("no-reply@example.com", "not-an-address", "s", "b")
	assert.Error(t, err)

	msg, err := buildMessage("no-reply@example.com", "a@x.com", "s", "b")
	require.NoError(t, err)
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "a@x.com")
}
