package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
)

// mockKafkaReader serves queued messages, then blocks until cancelled.
type mockKafkaReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.mu.Lock()
	if len(m.queue) > 0 {
		msg := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		return msg, nil
	}
	m.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error {
	m.closed = true
	return nil
}

func (m *mockKafkaReader) commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

func testConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "aeroops-test",
		Topics:  []string{TopicResourceChanged},
		RetryConfig: RetryConfig{
			MaxRetries:   2,
			RetryBackoff: time.Millisecond,
		},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConsumerConfig)
		wantErr bool
	}{
		{"valid", func(*ConsumerConfig) {}, false},
		{"no brokers", func(c *ConsumerConfig) { c.Brokers = nil }, true},
		{"no group", func(c *ConsumerConfig) { c.GroupID = "" }, true},
		{"no topics", func(c *ConsumerConfig) { c.Topics = nil }, true},
		{"bad offset reset", func(c *ConsumerConfig) { c.AutoOffsetReset = "middle" }, true},
		{"negative retries", func(c *ConsumerConfig) { c.RetryConfig.MaxRetries = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConsumerConfig()
			tt.mutate(&cfg)
			err := ValidateConsumerConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsumerConfigFrom(t *testing.T) {
	cfg := ConsumerConfigFrom(config.KafkaConfig{
		Brokers:         []string{"k:9092"},
		GroupID:         "worker",
		AutoOffsetReset: "latest",
		MaxRetries:      4,
		DeadLetterTopic: TopicDeadLetter,
	}, TopicResourceChanged)

	assert.Equal(t, []string{TopicResourceChanged}, cfg.Topics)
	assert.Equal(t, "worker", cfg.GroupID)
	assert.Equal(t, 4, cfg.RetryConfig.MaxRetries)
	assert.Equal(t, TopicDeadLetter, cfg.RetryConfig.DeadLetterTopic)
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{
		{Topic: TopicResourceChanged, Value: []byte(`{}`), Headers: []kafka.Header{{Key: HeaderTenant, Value: []byte("acme")}}},
	}}
	c := newConsumer(reader, testConsumerConfig(), nil, logging.NewNopLogger())

	got := make(chan *Message, 1)
	c.Subscribe(TopicResourceChanged, func(_ context.Context, msg *Message) error {
		got <- msg
		return nil
	})
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	select {
	case msg := <-got:
		assert.Equal(t, "acme", msg.Headers[HeaderTenant])
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}
	assert.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return c.Processed() == 1 }, time.Second, 5*time.Millisecond)
}

func TestConsumer_StartTwice(t *testing.T) {
	c := newConsumer(&mockKafkaReader{}, testConsumerConfig(), nil, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyRunning)
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{{Topic: TopicResourceChanged, Key: []byte("acme"), Value: []byte(`{}`)}}}
	w := &mockKafkaWriter{}
	dl := newTestProducer(w)

	cfg := testConsumerConfig()
	cfg.RetryConfig.DeadLetterTopic = TopicDeadLetter
	c := newConsumer(reader, cfg, dl, logging.NewNopLogger())

	var calls atomic.Int32
	c.Subscribe(TopicResourceChanged, func(context.Context, *Message) error {
		calls.Add(1)
		return errors.New("cache unavailable")
	})
	require.NoError(t, c.Start(context.Background()))

	assert.Eventually(t, func() bool { return c.DeadLettered() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close())

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, w.written, 1)
	assert.Equal(t, TopicDeadLetter, w.written[0].Topic)

	headers := map[string]string{}
	for _, h := range w.written[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, TopicResourceChanged, headers[HeaderOriginalTopic])
	assert.Equal(t, "cache unavailable", headers[HeaderErrorMessage])
	assert.True(t, reader.closed)
	assert.Equal(t, 1, w.closed)
}

func TestConsumer_UnknownTopicCommitted(t *testing.T) {
	reader := &mockKafkaReader{queue: []kafka.Message{{Topic: "other", Value: []byte(`{}`)}}}
	c := newConsumer(reader, testConsumerConfig(), nil, logging.NewNopLogger())
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Eventually(t, func() bool { return reader.commits() == 1 }, time.Second, 5*time.Millisecond)
}

//Personal.AI order the ending
