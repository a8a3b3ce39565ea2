package events

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
)

// NewRedisStream builds a bus on Redis streams. The subscriber has no consumer
// group, so every process sees every event.
func NewRedisStream(client redis.UniversalClient, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: client}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create redis stream publisher: %w", err)
	}
	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{Client: client}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}
	return New(publisher, subscriber, logger), nil
}
