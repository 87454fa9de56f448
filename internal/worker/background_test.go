package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/mailer"
	"github.com/spec-kit/coaching-service/internal/service"
)

type countingMailer struct{ sent int }

func (m *countingMailer) Send(mailer.Message) error {
	m.sent++
	return nil
}

func TestStartSubscribesNotifications(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	outbox := &countingMailer{}
	var m mailer.Mailer = outbox
	notifications := service.NewNotificationService(dispatcher, m, zap.NewNop(), config.NotificationConfig{AdminEmail: "admin@example.com"})

	bg := Start(config.FlowConfig{CheckoutWorkers: 2}, notifications, zap.NewNop())
	t.Cleanup(func() { _ = bg.Stop(context.Background()) })

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventServiceHired,
		Actor:   events.Actor{UserID: "u1", Email: "client@example.com"},
		Payload: events.ServiceHiredPayload{ServiceID: "s1", Name: "CV Optimization", Price: 75},
	}))
	assert.Equal(t, 1, outbox.sent)
	assert.Equal(t, 2, cap(bg.Checkouts.slots))
}

func TestStopCancelsCheckouts(t *testing.T) {
	bg := Start(config.FlowConfig{}, nil, nil)

	cancelled := make(chan struct{})
	require.NoError(t, bg.Checkouts.Submit(context.Background(), func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bg.Stop(ctx))

	select {
	case <-cancelled:
	default:
		t.Fatal("checkout was not cancelled")
	}
	assert.ErrorIs(t, bg.Checkouts.Submit(context.Background(), func(context.Context) {}), ErrPoolClosed)
}
