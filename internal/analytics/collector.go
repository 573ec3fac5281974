// Package analytics publishes per-query ranking events to Kafka for
// downstream dashboards. Publishing is buffered and lossy: a full buffer
// drops the event rather than stalling the ranking pipeline.
package analytics

import (
	"context"
	"log/slog"

	"github.com/bobyangg/CSI4107-A1/pkg/kafka"
	"github.com/bobyangg/CSI4107-A1/pkg/metrics"
)

// QueryEvent describes one ranked query.
type QueryEvent struct {
	RunTag     string  `json:"run_tag"`
	QueryID    string  `json:"query_id"`
	Results    int     `json:"results"`
	TopScore   float64 `json:"top_score"`
	DurationMS float64 `json:"duration_ms"`
}

// Collector buffers QueryEvents and publishes them on a background
// goroutine.
type Collector struct {
	producer *kafka.Producer
	eventCh  chan QueryEvent
	logger   *slog.Logger
	metrics  *metrics.Metrics
	done     chan struct{}
}

// NewCollector creates a Collector with the given buffer size. m may be nil.
func NewCollector(producer *kafka.Producer, bufferSize int, m *metrics.Metrics) *Collector {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan QueryEvent, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		metrics:  m,
		done:     make(chan struct{}),
	}
}

// Start launches the publishing goroutine. It runs until Close is called or
// ctx is cancelled; cancellation drains whatever is already buffered.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.publish(ctx, event)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking. A full buffer drops the event
// with a warning.
func (c *Collector) Track(event QueryEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)", "query_id", event.QueryID)
		c.countEvent("dropped")
	}
}

// Close stops accepting events, waits for the buffer to flush, and returns.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event QueryEvent) {
	err := c.producer.Publish(ctx, kafka.Event{
		Key:   event.QueryID,
		Value: event,
	})
	if err != nil {
		c.logger.Error("failed to publish analytics event", "query_id", event.QueryID, "error", err)
		c.countEvent("failed")
		return
	}
	c.countEvent("published")
}

func (c *Collector) countEvent(outcome string) {
	if c.metrics != nil {
		c.metrics.AnalyticsEventsTotal.WithLabelValues(outcome).Inc()
	}
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}
