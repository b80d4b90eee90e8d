package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/qa-dashboard-api/pkg/events"
	"github.com/noah-isme/qa-dashboard-api/pkg/jobs"
)

const eventJobType = "qa_change_event"

// EventDispatcher hands change events to a publisher on background workers.
// Each event is attempted once.
type EventDispatcher struct {
	queue     *jobs.Queue
	publisher events.Publisher
	metrics   *MetricsService
	logger    *zap.Logger
	timeout   time.Duration
}

// NewEventDispatcher constructs a dispatcher with the given worker count.
func NewEventDispatcher(publisher events.Publisher, workers int, metrics *MetricsService, logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &EventDispatcher{publisher: publisher, metrics: metrics, logger: logger, timeout: 10 * time.Second}
	d.queue = jobs.NewQueue("change-events", d.handle, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: 256,
		MaxRetries: 0,
		Logger:     logger,
	})
	return d
}

// Start launches the workers.
func (d *EventDispatcher) Start(ctx context.Context) {
	if d == nil {
		return
	}
	d.queue.Start(ctx)
}

// Stop waits for the workers and closes the publisher.
func (d *EventDispatcher) Stop() {
	if d == nil {
		return
	}
	d.queue.Stop()
	if err := d.publisher.Close(); err != nil {
		d.logger.Warn("failed to close event publisher", zap.Error(err))
	}
}

// Dispatch queues event for publishing without waiting. When the buffer is full the event
// is dropped; failures are logged and counted, never returned.
func (d *EventDispatcher) Dispatch(event events.Event) {
	if d == nil {
		return
	}
	if err := d.queue.TryEnqueue(jobs.Job{ID: event.RecordID, Type: eventJobType, Payload: event}); err != nil {
		d.metrics.RecordEvent(err)
		d.logger.Warn("failed to queue change event", zap.String("type", event.Type), zap.String("record_id", event.RecordID), zap.Error(err))
	}
}

func (d *EventDispatcher) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(events.Event)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.publisher.Publish(ctx, event)
	d.metrics.RecordEvent(err)
	return err
}
