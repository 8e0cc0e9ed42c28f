package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/ishimwe-pacifique/SMART-DEVICE-ELECTRONICS/internal/domain"
)

const testTopic = "storefront.orders.requested"

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, broker string) {
	conn, err := kafkaGo.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             testTopic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	require.NoError(t, err)
}

func TestPublishOrderRequested(t *testing.T) {
	broker, cleanup := setupKafka(t)
	defer cleanup()
	createTopic(t, broker)

	producer := NewProducer([]string{broker}, testTopic)
	defer producer.Close()

	requestedAt := time.Now().Truncate(time.Millisecond)
	event := OrderRequested{
		SessionID:     "session-1",
		CustomerName:  "Jane Doe",
		CustomerPhone: "+250788000111",
		Items: []domain.CartItem{
			{ProductID: "p1", Name: "Galaxy S24", Brand: "Samsung", Price: 549, Quantity: 2},
		},
		Total:       "1284.84",
		RequestedAt: requestedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := producer.PublishOrderRequested(ctx, event)
	require.NoError(t, err)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: []string{broker},
		Topic:   testTopic,
		GroupID: "test-consumer",
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "session-1", string(msg.Key), "keyed by session for per-cart ordering")

	var got OrderRequested
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "Jane Doe", got.CustomerName)
	assert.Equal(t, "1284.84", got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.RequestedAt.Equal(requestedAt))
}
