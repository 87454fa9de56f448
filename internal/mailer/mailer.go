package mailer

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/coaching-service/internal/config"
)

// Message is an outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer sends email.
type Mailer interface {
	Send(msg Message) error
}

// New returns an SMTP mailer when a host is configured, otherwise a mailer
// that only logs.
func New(cfg config.NotificationConfig, logger *zap.Logger) Mailer {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return &logMailer{logger: logger}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
		logger: logger,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func (s *smtpMailer) Send(msg Message) error {
	m := buildMessage(s.from, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("send email failed", zap.Strings("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return err
	}
	s.logger.Info("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return m
}

type logMailer struct {
	logger *zap.Logger
}

func (l *logMailer) Send(msg Message) error {
	l.logger.Debug("email delivery disabled", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
