package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig - параметры публикации в Redis
type RedisConfig struct {
	// Address - адрес Redis, например "127.0.0.1:6379"
	Address string `yaml:"address"`

	// Password - пароль (опционально)
	Password string `yaml:"password,omitempty"`

	// DB - индекс базы данных (по умолчанию 0)
	DB int `yaml:"db,omitempty"`

	// TTL - TTL ключа состояния в секундах (по умолчанию 3600)
	TTL int `yaml:"ttl,omitempty"`
}

// RedisPublisher публикует результат в Redis двумя способами:
//
//	SET  sqlbridge:run:<name>:state <JSON> EX <ttl>  — для опроса (polling)
//	PUB  sqlbridge:run:<name>                        — для подписки (pub/sub)
type RedisPublisher struct {
	client *redis.Client
	config RedisConfig
}

// NewRedisPublisher создает Redis publisher
func NewRedisPublisher(config RedisConfig) *RedisPublisher {
	if config.TTL <= 0 {
		config.TTL = 3600
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует результат выполнения.
// Вызывается независимо от исхода (success или failed).
func (p *RedisPublisher) Publish(ctx context.Context, result RunResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	stateKey := fmt.Sprintf("sqlbridge:run:%s:state", result.Name)
	eventChannel := fmt.Sprintf("sqlbridge:run:%s", result.Name)
	ttl := time.Duration(p.config.TTL) * time.Second

	// SET с TTL - оркестратор может GET последнее состояние
	if err := p.client.Set(ctx, stateKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH - оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
