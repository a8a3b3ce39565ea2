// Package events is the engine's notification bus. It carries storage change
// events, in-process credential updates, and user-visible notifications over
// watermill, so the same code runs on an in-process go channel or, when Redis is
// configured, on Redis streams shared by every process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// TopicStorageChanged fires after every durable storage write or removal.
	TopicStorageChanged = "marketaccess.storage.changed"
	// TopicCredentialsUpdated fires when a credential verification timestamp changes.
	TopicCredentialsUpdated = "marketaccess.credentials.updated"
	// TopicNotifications carries messages meant for the user.
	TopicNotifications = "marketaccess.notifications"
)

// StorageChanged names the key that changed.
type StorageChanged struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

// CredentialsUpdated names the (asset, service) pair whose status changed.
type CredentialsUpdated struct {
	AssetID   string `json:"asset_id"`
	ServiceID string `json:"service_id"`
}

// Level is the severity of a user notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a short, user-facing message.
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ConsentID string    `json:"consent_id,omitempty"`
	At        time.Time `json:"at"`
}

// Bus publishes and subscribes JSON payloads.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
}

// New wraps an existing watermill publisher/subscriber pair.
func New(publisher message.Publisher, subscriber message.Subscriber, logger *slog.Logger) *Bus {
	return &Bus{publisher: publisher, subscriber: subscriber, logger: logger}
}

// NewInProcess builds a bus on a watermill go channel.
func NewInProcess(logger *slog.Logger) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
	return New(ch, ch, logger)
}

// Publish marshals payload and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Close releases both sides of the bus. When publisher and subscriber are the
// same go channel it is closed once.
func (b *Bus) Close() error {
	if err := b.publisher.Close(); err != nil {
		return err
	}
	if closer, ok := b.subscriber.(message.Publisher); ok && closer == b.publisher {
		return nil
	}
	return b.subscriber.Close()
}

// Subscribe decodes every message on topic into T until ctx is done. Messages
// that fail to decode are acked and dropped.
func Subscribe[T any](ctx context.Context, b *Bus, topic string) (<-chan T, error) {
	messages, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	out := make(chan T)
	go func() {
		defer close(out)
		for msg := range messages {
			var payload T
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				b.logger.WarnContext(ctx, "dropping undecodable event",
					"topic", topic,
					"message_id", msg.UUID,
					"error", err,
				)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
