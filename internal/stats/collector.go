package stats

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rcastillo-dev/paper-archive-platform/pkg/kafka"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/resilience"
)

// Collector buffers events in a channel and flushes them to Kafka in
// batches. Track never blocks: when the buffer is full the event is dropped
// and counted in the log.
type Collector struct {
	producer      *kafka.Producer
	eventCh       chan any
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger
	stopCh        chan struct{}
	done          chan struct{}
	closed        atomic.Bool
}

// NewCollector creates a Collector publishing through producer.
func NewCollector(producer *kafka.Producer, bufferSize, batchSize int, flushInterval time.Duration) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &Collector{
		producer:      producer,
		eventCh:       make(chan any, bufferSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        slog.Default().With("component", "stats-collector"),
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the flush loop. Events accumulate until the batch fills or
// the flush interval elapses, whichever comes first.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)

		batch := make([]kafka.Event, 0, c.batchSize)
		ticker := time.NewTicker(c.flushInterval)
		defer ticker.Stop()

		flush := func() {
			if len(batch) == 0 {
				return
			}
			c.publish(ctx, batch)
			batch = batch[:0]
		}

		for {
			select {
			case event := <-c.eventCh:
				batch = append(batch, kafka.Event{Key: "archive", Value: event})
				if len(batch) >= c.batchSize {
					flush()
				}
			case <-ticker.C:
				flush()
			case <-c.stopCh:
				c.drainRemaining(&batch)
				flush()
				return
			case <-ctx.Done():
				c.drainRemaining(&batch)
				flush()
				return
			}
		}
	}()
	c.logger.Info("stats collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
		"flush_interval", c.flushInterval,
	)
}

// publish writes a batch with bounded retries; after the attempts are
// exhausted the batch is dropped so telemetry never backpressures requests.
func (c *Collector) publish(ctx context.Context, batch []kafka.Event) {
	if c.producer == nil {
		return
	}
	events := make([]kafka.Event, len(batch))
	copy(events, batch)

	// Detached from the request context so a shutdown flush still publishes.
	publishCtx := context.WithoutCancel(ctx)
	err := resilience.Retry(publishCtx, "stats-publish", resilience.RetryConfig{MaxAttempts: 3}, func() error {
		return c.producer.PublishBatch(publishCtx, events)
	})
	if err != nil {
		c.logger.Error("stats batch dropped", "count", len(events), "error", err)
	}
}

// Track enqueues an event without blocking. After Close it is a no-op; the
// event channel is never closed, so a Track racing a shutdown cannot panic.
func (c *Collector) Track(event any) {
	if c.closed.Load() {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("stats event dropped (buffer full)")
	}
}

// Close stops accepting events, drains the buffer through one final flush,
// and waits for the flush loop to finish. Safe to call more than once.
func (c *Collector) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	close(c.stopCh)
	<-c.done
}

func (c *Collector) drainRemaining(batch *[]kafka.Event) {
	for {
		select {
		case event := <-c.eventCh:
			*batch = append(*batch, kafka.Event{Key: "archive", Value: event})
		default:
			return
		}
	}
}
