package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/mailer"
)

// NotificationService turns domain events into emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mailer.Mailer
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, m mailer.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     m,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAccountRegistered, n.handleAccountRegistered)
	n.dispatcher.Subscribe(events.EventServiceHired, n.handleServiceHired)
	n.dispatcher.Subscribe(events.EventServiceStatusChanged, n.handleServiceStatusChanged)
	n.dispatcher.Subscribe(events.EventUpdateRequested, n.handleUpdateRequested)
	n.dispatcher.Subscribe(events.EventPaymentCompleted, n.handlePaymentCompleted)
}

func (n *NotificationService) handleAccountRegistered(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.AccountRegisteredPayload)
	n.logger.Info("AccountRegistered", zap.String("user_id", event.Actor.UserID))
	return n.send(event.Actor.Email, "Welcome to your Virtual Assistant career",
		fmt.Sprintf("<h2>Welcome, %s!</h2><p>Your account is ready. Sign in to follow your services from the dashboard.</p>",
			html.EscapeString(p.FullName)))
}

func (n *NotificationService) handleServiceHired(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.ServiceHiredPayload)
	n.logger.Info("ServiceHired", zap.String("service_id", p.ServiceID), zap.String("user_id", event.Actor.UserID))
	return n.send(n.cfg.AdminEmail, "New service hired: "+p.Name,
		fmt.Sprintf("<p>%s hired <strong>%s</strong> (%.2f, payment %s).</p>",
			html.EscapeString(event.Actor.Email), html.EscapeString(p.Name), p.Price, p.PaymentStatus))
}

func (n *NotificationService) handleServiceStatusChanged(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.ServiceStatusChangedPayload)
	n.logger.Info("ServiceStatusChanged", zap.String("service_id", p.ServiceID), zap.String("status", string(p.NewStatus)))
	body := fmt.Sprintf("<p>Your service <strong>%s</strong> is now %s.</p>", html.EscapeString(p.Name), p.NewStatus)
	if p.Notes != "" {
		body += "<p>" + html.EscapeString(p.Notes) + "</p>"
	}
	return n.send(p.ClientEmail, "Service update: "+p.Name, body)
}

func (n *NotificationService) handleUpdateRequested(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.UpdateRequestedPayload)
	n.logger.Info("UpdateRequested", zap.String("service_id", p.ServiceID), zap.String("request_id", p.RequestID))
	return n.send(n.cfg.AdminEmail, "Update requested ("+p.UpdateType+")",
		fmt.Sprintf("<p>%s asked for an update on service %s:</p><blockquote>%s</blockquote>",
			html.EscapeString(event.Actor.Email), html.EscapeString(p.ServiceID), html.EscapeString(p.Preview)))
}

func (n *NotificationService) handlePaymentCompleted(ctx context.Context, event events.Event) error {
	p, _ := event.Payload.(events.PaymentCompletedPayload)
	n.logger.Info("PaymentCompleted", zap.String("provider", p.Provider), zap.String("reference", p.Reference))
	return n.send(event.Actor.Email, "Payment received",
		fmt.Sprintf("<p>We received your payment of %.2f %s.</p><p>Reference: %s</p>",
			p.Amount, html.EscapeString(p.Currency), html.EscapeString(p.Reference)))
}

func (n *NotificationService) send(to, subject, body string) error {
	if n.mailer == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	return n.mailer.Send(mailer.Message{To: []string{to}, Subject: subject, HTML: body})
}

// Preview shortens text for notifications.
func Preview(text string, max int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}
