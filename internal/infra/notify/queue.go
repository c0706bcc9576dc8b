// Package notify dispatches checkout notifications through a bounded
// in-process queue. Delivery is best effort: a full queue drops the event
// rather than stall the checkout response.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/friplass/booking-api/internal/integrations/notifyservice"
	"github.com/friplass/booking-api/internal/usecase/checkout"
)

const sendTimeout = 10 * time.Second

// Sender delivers one notification message
type Sender interface {
	Send(ctx context.Context, msg notifyservice.Message) error
}

// Logger interface for logging
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// QueueMetrics is the slice of the metrics registry the queue updates.
// Nil collectors disable instrumentation.
type QueueMetrics struct {
	Depth   prometheus.Gauge
	Dropped prometheus.Counter
}

// Queue implements the checkout Notifier on top of a buffered channel with a
// single dispatch worker.
type Queue struct {
	events  chan checkout.NotificationEvent
	sender  Sender
	logger  Logger
	metrics QueueMetrics

	closeOnce sync.Once
	done      chan struct{}
}

// NewQueue creates the queue and starts its worker.
func NewQueue(sender Sender, size int, logger Logger, metrics QueueMetrics) *Queue {
	q := &Queue{
		events:  make(chan checkout.NotificationEvent, size),
		sender:  sender,
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Publish enqueues an event without blocking. A full queue drops the event
// and counts the drop.
func (q *Queue) Publish(event checkout.NotificationEvent) {
	select {
	case q.events <- event:
		if q.metrics.Depth != nil {
			q.metrics.Depth.Set(float64(len(q.events)))
		}
	default:
		q.logger.Warn("notify: queue full, dropping notification for application=%d", event.ApplicationID)
		if q.metrics.Dropped != nil {
			q.metrics.Dropped.Inc()
		}
	}
}

// Close stops accepting events and waits for the worker to drain the queue.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.events)
	})
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for event := range q.events {
		if q.metrics.Depth != nil {
			q.metrics.Depth.Set(float64(len(q.events)))
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := q.sender.Send(ctx, toMessage(event))
		cancel()

		if err != nil {
			q.logger.Error("notify: delivery failed for application=%d: %v", event.ApplicationID, err)
			continue
		}
		q.logger.Info("notify: delivered notification for application=%d status=%s", event.ApplicationID, event.Status)
	}
}

func toMessage(event checkout.NotificationEvent) notifyservice.Message {
	return notifyservice.Message{
		ApplicationID: event.ApplicationID,
		Status:        string(event.Status),
		RecipientName: event.ContactName,
		Recipient:     event.ContactEmail,
		Subject:       fmt.Sprintf("Booking application #%d: %s", event.ApplicationID, event.Status),
		EventIDs:      event.EventIDs,
	}
}
