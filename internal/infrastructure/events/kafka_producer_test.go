package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

var testEvent = domain.Event{
	ID:          "ev-1",
	Kind:        domain.EventStatusUpdate,
	AggregateID: "app-1",
	NewStatus:   "reviewing",
	OccurredAt:  time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
}

func TestProducer_PublishWritesKeyedMessage(t *testing.T) {
	w := new(MockKafkaWriter)
	w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "app-1" {
			return false
		}
		var ev domain.Event
		if err := json.Unmarshal(msgs[0].Value, &ev); err != nil {
			return false
		}
		return ev.ID == "ev-1" && ev.NewStatus == "reviewing"
	})).Return(nil).Once()
	w.On("Close").Return(nil).Once()

	p := newProducer(w, 10, zerolog.Nop())
	p.Publish(context.Background(), testEvent)
	p.Close()

	w.AssertExpectations(t)
}

func TestProducer_DropsWhenQueueFull(t *testing.T) {
	var buf bytes.Buffer
	p := &Producer{
		events:    make(chan domain.Event, 1),
		log:       zerolog.New(&buf),
		closeChan: make(chan struct{}),
	}

	p.Publish(context.Background(), testEvent, testEvent)

	assert.Equal(t, 1, len(p.events))
	assert.Contains(t, buf.String(), "Kafka producer queue full, dropping event")
}

func TestProducer_PublishAfterCloseDrops(t *testing.T) {
	w := new(MockKafkaWriter)
	w.On("Close").Return(nil).Once()

	p := newProducer(w, 10, zerolog.Nop())
	p.Close()
	p.Publish(context.Background(), testEvent)

	assert.Equal(t, 0, len(p.events))
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_SendEvent(t *testing.T) {
	t.Run("write error is logged", func(t *testing.T) {
		var buf bytes.Buffer
		w := new(MockKafkaWriter)
		w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		p := &Producer{writer: w, log: zerolog.New(&buf)}
		p.sendEvent(context.Background(), testEvent)

		assert.Contains(t, buf.String(), "failed to produce event")
		w.AssertExpectations(t)
	})

	t.Run("serialization error skips the write", func(t *testing.T) {
		orig := jsonMarshal
		defer func() { jsonMarshal = orig }()
		jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("boom") }

		w := new(MockKafkaWriter)
		p := &Producer{writer: w, log: zerolog.Nop()}
		p.sendEvent(context.Background(), testEvent)

		w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestProducer_CloseIsIdempotent(t *testing.T) {
	w := new(MockKafkaWriter)
	w.On("Close").Return(nil).Once()

	p := newProducer(w, 1, zerolog.Nop())
	p.Close()
	require.NotPanics(t, p.Close)
	w.AssertNumberOfCalls(t, "Close", 1)
}

func TestEnsureTopic_NoBrokers(t *testing.T) {
	for _, brokers := range [][]string{nil, {}, {""}} {
		err := EnsureTopic(brokers, "jobboard.events", 3, zerolog.Nop())
		assert.ErrorIs(t, err, ErrNoBrokers)
	}
}
