package repository

import (
	"context"
	"encoding/json"

	"marketplace_chat_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// EventPublisher push chat events to the stream consumed by the admin
// dashboard and the notification service
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ChatEvent) error
}

type kafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher create a kafka backed EventPublisher.
// Events for one conversation share a partition key so consumers see them in order.
func NewKafkaEventPublisher(writer *kafka.Writer) EventPublisher {
	return &kafkaEventPublisher{writer: writer}
}

func (p *kafkaEventPublisher) Publish(ctx context.Context, event domain.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ConversationID),
		Value: payload,
	})
}
