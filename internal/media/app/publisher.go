package app

import (
	"context"
	"encoding/json"
	"fmt"

	"media_upload_service/internal/media/domain"
	"media_upload_service/pkg/database"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
)

// EventPublisher announce persisted uploads to downstream consumers
type EventPublisher interface {
	PublishVideoUploaded(ctx context.Context, event domain.VideoUploadedEvent) error
}

// NopPublisher drop every event, used when events.driver is none
type NopPublisher struct{}

// PublishVideoUploaded do nothing
func (NopPublisher) PublishVideoUploaded(context.Context, domain.VideoUploadedEvent) error {
	return nil
}

type rabbitPublisher struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewRabbitPublisher publish JSON events to queue through the default exchange
func NewRabbitPublisher(rabbit database.RabbitRepo, queue string) EventPublisher {
	if queue == "" {
		queue = domain.QueueName
	}
	return &rabbitPublisher{rabbit: rabbit, queue: queue}
}

func (p *rabbitPublisher) PublishVideoUploaded(_ context.Context, event domain.VideoUploadedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.rabbit.Publish(
		"",      // 預設 exchange
		p.queue, // queue 名稱
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.VideoID,
			Type:         event.Type,
			Body:         data,
		},
	)
}

type kafkaPublisher struct {
	writer database.KafkaWriter
}

// NewKafkaPublisher publish JSON events keyed by video id
func NewKafkaPublisher(writer database.KafkaWriter) EventPublisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishVideoUploaded(ctx context.Context, event domain.VideoUploadedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.VideoID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}
