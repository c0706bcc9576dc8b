package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/internal/integrations/notifyservice"
	"github.com/friplass/booking-api/internal/usecase/checkout"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notifyservice.Message
}

func (r *recordingSender) Send(_ context.Context, msg notifyservice.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []notifyservice.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifyservice.Message(nil), r.sent...)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestQueueDeliversInOrder(t *testing.T) {
	sender := &recordingSender{}
	q := NewQueue(sender, 8, nopLogger{}, QueueMetrics{})

	q.Publish(checkout.NotificationEvent{ApplicationID: 1, Status: domain.StatusAccepted, ContactEmail: "a@example.no"})
	q.Publish(checkout.NotificationEvent{ApplicationID: 2, Status: domain.StatusNew, ContactEmail: "b@example.no"})
	q.Close()

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(1), msgs[0].ApplicationID)
	assert.Equal(t, "ACCEPTED", msgs[0].Status)
	assert.Equal(t, "a@example.no", msgs[0].Recipient)
	assert.Equal(t, int64(2), msgs[1].ApplicationID)
}

func TestQueueDropsWhenFull(t *testing.T) {
	sender := &blockingSender{
		ready:   make(chan struct{}),
		release: make(chan struct{}),
	}
	q := NewQueue(sender, 1, nopLogger{}, QueueMetrics{})

	// First event occupies the worker, second fills the buffer, third drops.
	q.Publish(checkout.NotificationEvent{ApplicationID: 1})
	<-sender.ready
	q.Publish(checkout.NotificationEvent{ApplicationID: 2})
	q.Publish(checkout.NotificationEvent{ApplicationID: 3})

	close(sender.release)
	q.Close()

	assert.Len(t, sender.messages(), 2)
}

type blockingSender struct {
	recordingSender
	started sync.Once
	ready   chan struct{}
	release chan struct{}
}

func (b *blockingSender) Send(ctx context.Context, msg notifyservice.Message) error {
	b.started.Do(func() {
		close(b.ready)
		<-b.release
	})
	return b.recordingSender.Send(ctx, msg)
}
