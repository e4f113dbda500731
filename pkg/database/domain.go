package database

import (
	"time"
)

// Connection definition sql / broker setting
type Connection struct {
	ConnectStr string

	RetryCount    int
	RetryInterval time.Duration

	MaxOpenConns int
}

// MinIOConnection definition minio
type MinIOConnection struct {
	Endpoint   string
	User       string
	Password   string
	BucketName string
	UseSSL     bool

	RetryCount    int
	RetryInterval time.Duration
}

// KafkaConnection definition kafka
type KafkaConnection struct {
	Brokers       []string
	Topic         string
	RetryCount    int
	RetryInterval time.Duration
}

func attempts(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
