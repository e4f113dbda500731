package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaWriter definition the part of kafka.Writer the publishers use
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriterWithRetry 嘗試建立 Kafka Writer 並發送 ping 訊息以確認連線
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	var err error

	for attempt := 1; attempt <= attempts(k.RetryCount); attempt++ {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(k.Brokers...),
			Topic:    k.Topic,
			Balancer: &kafka.LeastBytes{},
		}

		err = writer.WriteMessages(context.Background(), kafka.Message{
			Key:   []byte("ping"),
			Value: []byte("ping"),
		})
		if err == nil {
			log.Printf("Kafka writer ready (attempt %d)", attempt)
			return writer, nil
		}

		log.Printf("Kafka writer failed (attempt %d/%d): %v", attempt, k.RetryCount, err)
		writer.Close()
		time.Sleep(k.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("create Kafka writer after %d attempts: %w", k.RetryCount, err)
}
