package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

const (
	defaultWorkers         = 8
	defaultBuffer          = 256
	defaultMaxRetries      = 5
	defaultInitialInterval = 200 * time.Millisecond
)

// Options tunes the dispatcher. Zero values take the defaults.
type Options struct {
	Workers         int
	Buffer          int
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Dispatcher is the in-process event transport. Events are routed to a fixed
// set of workers by hashing the aggregate id, so events of one application or
// job are processed in publication order.
type Dispatcher struct {
	workers   []chan domain.Event
	processor ports.EventProcessor
	opts      Options
	log       zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher; call Start before publishing.
func NewDispatcher(opts Options, processor ports.EventProcessor, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = defaultInitialInterval
	}
	d := &Dispatcher{
		workers:   make([]chan domain.Event, opts.Workers),
		processor: processor,
		opts:      opts,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, opts.Buffer)
	}
	return d
}

// Start launches all worker goroutines. ctx bounds processing and retries;
// workers exit once Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Publish implements ports.EventPublisher. It never blocks: an event whose
// worker channel is full is dropped with a warning.
func (d *Dispatcher) Publish(_ context.Context, events ...domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, ev := range events {
		if d.closed {
			d.drop(ev, "dispatcher_closed")
			continue
		}
		idx := d.shardIndex(ev.AggregateID)
		select {
		case d.workers[idx] <- ev:
			metrics.EventsPublishedTotal.WithLabelValues(string(ev.Kind), ev.NewStatus).Inc()
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		default:
			d.drop(ev, "queue_full")
		}
	}
}

// Close stops accepting events and waits for the queued ones to be processed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) drop(ev domain.Event, reason string) {
	metrics.EventsErrorsTotal.WithLabelValues(string(ev.Kind), reason).Inc()
	d.log.Warn().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("aggregate_id", ev.AggregateID).
		Str("reason", reason).
		Msg("event dropped")
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for ev := range ch {
		depth.Set(float64(len(ch)))
		d.handle(ctx, id, ev)
	}
}

// handle processes one event, retrying with exponential backoff. A final
// failure is logged and counted; it never reaches the publisher.
func (d *Dispatcher) handle(ctx context.Context, workerID int, ev domain.Event) {
	start := time.Now()
	defer func() {
		metrics.EventProcessingDuration.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	}()

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		return d.processor.Process(ctx, ev)
	}, backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), d.opts.MaxRetries), ctx))
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues(string(ev.Kind), "retries_exhausted").Inc()
		d.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("kind", string(ev.Kind)).
			Str("aggregate_id", ev.AggregateID).
			Int("attempts", attempt).
			Int("worker_id", workerID).
			Msg("event processing failed")
		return
	}
	metrics.EventsProcessedTotal.WithLabelValues(string(ev.Kind)).Inc()
}

func (d *Dispatcher) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialInterval
	b.MaxElapsedTime = 0
	return b
}
