//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"

	"routebook/pkg/logger"
)

func TestProducerAgainstKafka(t *testing.T) {
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	producer := NewProducer(brokers, 10*time.Second, logger.Discard())
	t.Cleanup(func() { _ = producer.Close() })

	event, err := NewCloudEvent("routebook/routes", "route.saved", map[string]string{"route_id": "r-1"})
	require.NoError(t, err)

	// The first write may race topic auto-creation.
	require.Eventually(t, func() bool {
		return producer.PublishEvent(ctx, "route.events", "user-42", event) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     "route.events",
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	assert.Equal(t, "user-42", string(msg.Key))
	var got CloudEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "route.saved", got.Type)

	var data map[string]string
	require.NoError(t, got.ParseData(&data))
	assert.Equal(t, "r-1", data["route_id"])
}
