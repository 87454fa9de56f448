package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
)

func TestNewWithoutHostOnlyLogs(t *testing.T) {
	m := New(config.NotificationConfig{}, zap.NewNop())
	_, ok := m.(*logMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(Message{To: []string{"a@example.com"}, Subject: "hi"}))
}

func TestNewWithHostUsesSMTP(t *testing.T) {
	m := New(config.NotificationConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, EmailFrom: "noreply@example.com"}, zap.NewNop())
	s, ok := m.(*smtpMailer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com", s.dialer.Host)
	assert.Equal(t, 587, s.dialer.Port)
}

func TestBuildMessage(t *testing.T) {
	m := buildMessage("noreply@example.com", Message{
		To:      []string{"ana@example.com"},
		Subject: "Welcome",
		HTML:    "<p>Hello</p>",
	})
	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ana@example.com"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Welcome")
	assert.Contains(t, buf.String(), "<p>Hello</p>")
}
