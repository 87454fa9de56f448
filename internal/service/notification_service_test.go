package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/mailer"
)

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func newNotifications(t *testing.T) (events.Dispatcher, *outbox) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	box := &outbox{}
	NewNotificationService(dispatcher, box, zap.NewNop(), config.NotificationConfig{AdminEmail: "admin@example.com"}).RegisterHandlers()
	return dispatcher, box
}

func TestNotificationService_RoutesEmails(t *testing.T) {
	dispatcher, box := newNotifications(t)
	client := &domain.User{ID: "u1", Email: "client@example.com", Role: domain.UserRoleClient}
	ctx := context.Background()

	publish(ctx, dispatcher, events.EventAccountRegistered, client, events.AccountRegisteredPayload{FullName: "<Ana>", Email: client.Email})
	publish(ctx, dispatcher, events.EventServiceHired, client, events.ServiceHiredPayload{ServiceID: "s1", Name: "CV Optimization", Price: 75})
	publish(ctx, dispatcher, events.EventServiceStatusChanged, nil, events.ServiceStatusChangedPayload{
		ServiceID: "s1", Name: "CV Optimization", ClientEmail: client.Email, NewStatus: domain.EngagementStatusCompleted, Notes: "done",
	})
	publish(ctx, dispatcher, events.EventPaymentCompleted, client, events.PaymentCompletedPayload{Provider: "stripe", Reference: "pi_1", Amount: 75, Currency: "USD"})

	require.Len(t, box.sent, 4)
	assert.Equal(t, []string{"client@example.com"}, box.sent[0].To)
	assert.Contains(t, box.sent[0].HTML, "&lt;Ana&gt;")
	assert.Equal(t, []string{"admin@example.com"}, box.sent[1].To)
	assert.Equal(t, "Service update: CV Optimization", box.sent[2].Subject)
	assert.Contains(t, box.sent[2].HTML, "done")
	assert.Contains(t, box.sent[3].HTML, "pi_1")
}

func TestNotificationService_SkipsMissingRecipient(t *testing.T) {
	dispatcher, box := newNotifications(t)

	publish(context.Background(), dispatcher, events.EventPaymentCompleted, nil, events.PaymentCompletedPayload{Reference: "pi_2"})
	assert.Empty(t, box.sent)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("  short  ", 10))
	assert.Equal(t, "abc...", Preview("abcdef", 3))
	assert.Equal(t, "ñañ...", Preview("ñañañ", 3))
}
