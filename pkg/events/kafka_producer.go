package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"routebook/pkg/logger"
)

// CloudEvent is the envelope written to every topic.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	SpecVersion string          `json:"specversion"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to encode event data: %w", err)
	}
	return CloudEvent{
		ID:          uuid.NewString(),
		Source:      source,
		Type:        eventType,
		SpecVersion: "1.0",
		Time:        time.Now().UTC(),
		Data:        payload,
	}, nil
}

func (e CloudEvent) ParseData(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultPublishTimeout bounds a publish when the producer is built without one.
const DefaultPublishTimeout = 5 * time.Second

// batchTimeout keeps single-message batches from waiting on kafka-go's 1s default.
const batchTimeout = 10 * time.Millisecond

type Producer struct {
	writer         messageWriter
	publishTimeout time.Duration
	logger         *logger.Logger
}

func NewProducer(brokers []string, writeTimeout time.Duration, log *logger.Logger) *Producer {
	if writeTimeout <= 0 {
		writeTimeout = DefaultPublishTimeout
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		MaxAttempts:            3,
	}
	return &Producer{writer: writer, publishTimeout: writeTimeout, logger: log}
}

// PublishEvent writes the event keyed by key, so events of one key stay ordered.
// The write never outlives the producer's publish timeout.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	timeout := p.publishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, topic, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"topic":    topic,
		"type":     event.Type,
		"event_id": event.ID,
	}).Debug("Event published")

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
