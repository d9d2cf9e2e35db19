package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jobboard/jobboard-api/internal/api/metrics"
	"github.com/jobboard/jobboard-api/internal/core/domain"
)

const defaultQueueSize = 1000

var jsonMarshal = json.Marshal

// ErrNoBrokers is returned when no Kafka broker address is configured.
var ErrNoBrokers = errors.New("kafka: no brokers configured")

// KafkaWriter is the subset of *kafka.Writer the producer needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes lifecycle events to a Kafka topic. Messages are keyed by
// aggregate id so one application's events land on one partition in order.
type Producer struct {
	writer    KafkaWriter
	events    chan domain.Event
	log       zerolog.Logger
	closeChan chan struct{}
	done      chan struct{}
	once      sync.Once
}

// EnsureTopic creates the topic on the first broker. An existing topic is not an error.
func EnsureTopic(brokers []string, topic string, partitions int, log zerolog.Logger) error {
	if len(brokers) == 0 || brokers[0] == "" {
		return ErrNoBrokers
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("failed to create topic (may already exist)")
	}
	return nil
}

// NewProducer builds a producer writing to topic and starts its send loop.
func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
	}, defaultQueueSize, log)
}

func newProducer(w KafkaWriter, queueSize int, log zerolog.Logger) *Producer {
	p := &Producer{
		writer:    w,
		events:    make(chan domain.Event, queueSize),
		log:       log.With().Str("component", "kafka_producer").Logger(),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Publish implements ports.EventPublisher. A full queue drops the event.
func (p *Producer) Publish(_ context.Context, events ...domain.Event) {
	for _, ev := range events {
		select {
		case <-p.closeChan:
			p.drop(ev, "producer_closed")
			continue
		default:
		}
		select {
		case p.events <- ev:
			metrics.EventsPublishedTotal.WithLabelValues(string(ev.Kind), ev.NewStatus).Inc()
		default:
			p.drop(ev, "queue_full")
		}
	}
}

func (p *Producer) drop(ev domain.Event, reason string) {
	metrics.EventsErrorsTotal.WithLabelValues(string(ev.Kind), reason).Inc()
	p.log.Warn().
		Str("event_id", ev.ID).
		Str("kind", string(ev.Kind)).
		Str("aggregate_id", ev.AggregateID).
		Msg("Kafka producer queue full, dropping event")
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case ev := <-p.events:
			p.sendEvent(context.Background(), ev)
		case <-p.closeChan:
			// flush what was accepted before Close
			for {
				select {
				case ev := <-p.events:
					p.sendEvent(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, ev domain.Event) {
	value, err := jsonMarshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("event_id", ev.ID).Msg("failed to serialize event")
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.AggregateID),
		Value: value,
	})
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues(string(ev.Kind), "produce_failed").Inc()
		p.log.Error().Err(err).
			Str("event_id", ev.ID).
			Str("kind", string(ev.Kind)).
			Str("aggregate_id", ev.AggregateID).
			Msg("failed to produce event")
	}
}

// Close flushes queued events and closes the writer.
func (p *Producer) Close() {
	p.once.Do(func() {
		close(p.closeChan)
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.log.Error().Err(err).Msg("failed to close Kafka writer")
		}
	})
}
