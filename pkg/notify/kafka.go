package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig - параметры публикации в Kafka
type KafkaConfig struct {
	// Brokers - список адресов брокеров
	Brokers []string `yaml:"brokers"`

	// Topic - топик для результатов (по умолчанию "sqlbridge.runs")
	Topic string `yaml:"topic,omitempty"`

	// WriteTimeout - таймаут записи в секундах (по умолчанию 10)
	WriteTimeout int `yaml:"write_timeout,omitempty"`
}

// KafkaPublisher публикует результаты запусков в топик Kafka.
// Ключ сообщения - имя запуска, чтобы события одного запуска
// попадали в одну партицию и сохраняли порядок.
type KafkaPublisher struct {
	writer *kafka.Writer
	config KafkaConfig
}

// NewKafkaPublisher создает Kafka publisher
func NewKafkaPublisher(config KafkaConfig) *KafkaPublisher {
	if config.Topic == "" {
		config.Topic = "sqlbridge.runs"
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		WriteTimeout: time.Duration(config.WriteTimeout) * time.Second,
	}

	return &KafkaPublisher{writer: writer, config: config}
}

// Publish отправляет результат запуска в топик
func (p *KafkaPublisher) Publish(ctx context.Context, result RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(result.Name),
		Value: payload,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write to topic %s: %w", p.config.Topic, err)
	}

	return nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
