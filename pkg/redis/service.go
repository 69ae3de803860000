package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyType namespaces cache keys so multiple deployments can share one Redis.
type KeyType string

const (
	// DASHBOARD_STATS caches the per-organization dashboard aggregates.
	DASHBOARD_STATS KeyType = "voice_admin_dashboard_stats"
)

// CallEventsChannel carries call-ended notifications for dashboard consumers.
const CallEventsChannel = "voice_admin_call_events"

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

var ErrKeyNotExist = redis.Nil

type RedisServiceInterface interface {
	GenerateKey(keyType KeyType, identifier string) string
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key string, value string, ttl time.Duration) error
	DelValue(ctx context.Context, key string) error
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string, handler func(string)) error
}

type RedisService struct {
	client *redis.Client
}

func NewRedisService(config *RedisConfig) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisService{
		client: client,
	}, nil
}

// GenerateKey builds a namespaced key for the given key type and identifier.
func (s *RedisService) GenerateKey(keyType KeyType, identifier string) string {
	return fmt.Sprintf("%s:%s", keyType, identifier)
}

// GetValue retrieves a string value. Returns ErrKeyNotExist when the key is absent.
func (s *RedisService) GetValue(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

// SetValue stores a string value with the given TTL. A zero TTL means no expiry.
func (s *RedisService) SetValue(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// DelValue removes a key.
func (s *RedisService) DelValue(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Publish sends a message on a channel. Subscribers that are offline miss it,
// which is acceptable for dashboard refresh notifications.
func (s *RedisService) Publish(ctx context.Context, channel string, message interface{}) error {
	return s.client.Publish(ctx, channel, message).Err()
}

// Subscribe listens on a channel and invokes handler for every message until
// the context is cancelled.
func (s *RedisService) Subscribe(ctx context.Context, channel string, handler func(string)) error {
	sub := s.client.Subscribe(ctx, channel)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(msg.Payload)
			}
		}
	}()

	return nil
}

// Close closes the underlying client.
func (s *RedisService) Close() error {
	return s.client.Close()
}
