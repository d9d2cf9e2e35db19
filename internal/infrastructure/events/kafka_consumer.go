package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// KafkaReader is the subset of *kafka.Reader the consumer needs.
type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerOptions bounds the per-message retry.
type ConsumerOptions struct {
	MaxRetries      uint64
	InitialInterval time.Duration
}

// Consumer reads lifecycle events from Kafka and hands them to the processor.
// Offsets are committed once an event is processed or given up on.
type Consumer struct {
	reader    KafkaReader
	processor ports.EventProcessor
	opts      ConsumerOptions
	log       zerolog.Logger
	done      chan struct{}
}

// NewConsumer joins groupID on topic.
func NewConsumer(brokers []string, topic, groupID string, opts ConsumerOptions, processor ports.EventProcessor, log zerolog.Logger) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
		Dialer:  kafka.DefaultDialer,
	}), opts, processor, log)
}

func newConsumer(r KafkaReader, opts ConsumerOptions, processor ports.EventProcessor, log zerolog.Logger) *Consumer {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 5
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 200 * time.Millisecond
	}
	return &Consumer{
		reader:    r,
		processor: processor,
		opts:      opts,
		log:       log.With().Str("component", "kafka_consumer").Logger(),
		done:      make(chan struct{}),
	}
}

// Start consumes in a goroutine until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

func (c *Consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			c.log.Error().Err(err).Msg("failed to fetch message")
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error().Err(err).Int64("offset", msg.Offset).Msg("failed to commit message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var ev domain.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("unknown", "decode_failed").Inc()
		c.log.Error().Err(err).Bytes("value", msg.Value).Msg("failed to parse event")
		return
	}

	start := time.Now()
	defer func() {
		metrics.EventProcessingDuration.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.InitialInterval
	b.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		return c.processor.Process(ctx, ev)
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.opts.MaxRetries), ctx))
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues(string(ev.Kind), "retries_exhausted").Inc()
		c.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("kind", string(ev.Kind)).
			Str("aggregate_id", ev.AggregateID).
			Int("attempts", attempt).
			Msg("failed to handle event")
		return
	}
	metrics.EventsProcessedTotal.WithLabelValues(string(ev.Kind)).Inc()
}

// Close stops the reader; a running consume loop exits on its next fetch.
func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Error().Err(err).Msg("failed to close Kafka reader")
	}
}

// Done is closed once the consume loop returns.
func (c *Consumer) Done() <-chan struct{} { return c.done }
