package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/AeroOps/pkg/errors"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	written   []kafka.Message
	closed    int
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockKafkaWriter) Close() error {
	m.closed++
	return nil
}

func newTestProducer(w WriterInterface) *Producer {
	return newProducerWithWriter(w, ProducerConfig{Brokers: []string{"localhost:9092"}, ClientID: "aeroops-test"}, logging.NewNopLogger())
}

func TestValidateProducerConfig(t *testing.T) {
	assert.NoError(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{}))
	assert.Error(t, ValidateProducerConfig(ProducerConfig{Brokers: []string{"b:9092"}, MaxRetries: -1}))
}

func TestProducerConfigFrom(t *testing.T) {
	cfg := ProducerConfigFrom(config.KafkaConfig{Brokers: []string{"k:9092"}, ClientID: "api", MaxRetries: 5, BatchSize: 10})
	assert.Equal(t, []string{"k:9092"}, cfg.Brokers)
	assert.Equal(t, "api", cfg.ClientID)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.BatchSize)
}

func TestPublish_Success(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{
		Topic:   "t",
		Key:     []byte("k"),
		Value:   []byte("v"),
		Headers: map[string]string{"h": "1"},
	})
	require.NoError(t, err)
	require.Len(t, w.written, 1)
	assert.Equal(t, "t", w.written[0].Topic)
	assert.Equal(t, []byte("k"), w.written[0].Key)
	assert.False(t, w.written[0].Time.IsZero())
	assert.Equal(t, []kafka.Header{{Key: "h", Value: []byte("1")}}, w.written[0].Headers)
	assert.Equal(t, int64(1), p.Sent())
}

func TestPublish_Validation(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})

	tests := []struct {
		name string
		msg  *ProducerMessage
	}{
		{"missing topic", &ProducerMessage{Value: []byte("v")}},
		{"missing value", &ProducerMessage{Topic: "t"}},
		{"too large", &ProducerMessage{Topic: "t", Value: []byte(strings.Repeat("x", 1024*1024+1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Publish(context.Background(), tt.msg)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
		})
	}
}

func TestPublish_WriterError(t *testing.T) {
	w := &mockKafkaWriter{writeFunc: func(context.Context, ...kafka.Message) error { return errors.New("broker down") }}
	p := newTestProducer(w)

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMessagingError))
	assert.Equal(t, int64(1), p.Failed())
	assert.Equal(t, int64(0), p.Sent())
}

func TestPublishEvent_WrapsEnvelope(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	payload := ResourceChangedPayload{Tenant: "acme", Resource: "articles", ID: 7, Action: ActionDeleted}
	require.NoError(t, p.PublishEvent(context.Background(), TopicResourceChanged, "acme", EventResourceChanged, payload))
	require.Len(t, w.written, 1)

	msg := w.written[0]
	assert.Equal(t, TopicResourceChanged, msg.Topic)
	assert.Equal(t, []byte("acme"), msg.Key)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventResourceChanged, env.EventType)
	assert.Equal(t, "aeroops-test", env.Source)

	var got ResourceChangedPayload
	require.NoError(t, env.DecodePayload(&got))
	assert.Equal(t, payload, got)
}

func TestProducerClose_Idempotent(t *testing.T) {
	w := &mockKafkaWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)

	err := p.Publish(context.Background(), &ProducerMessage{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishEvent(context.Background(), "t", "k", "e", nil))
}

//Personal.AI order the ending
