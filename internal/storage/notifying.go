package storage

import (
	"context"
	"log/slog"

	"marketaccess/internal/events"
)

// Notifying publishes an events.StorageChanged after every successful write or
// removal on the wrapped KV. A failed publish is logged; the write still stands.
type Notifying struct {
	KV
	bus    *events.Bus
	logger *slog.Logger
}

func NewNotifying(kv KV, bus *events.Bus, logger *slog.Logger) *Notifying {
	return &Notifying{KV: kv, bus: bus, logger: logger}
}

func (n *Notifying) Set(ctx context.Context, key, value string) error {
	if err := n.KV.Set(ctx, key, value); err != nil {
		return err
	}
	n.publish(ctx, events.StorageChanged{Key: key})
	return nil
}

func (n *Notifying) Remove(ctx context.Context, key string) error {
	if err := n.KV.Remove(ctx, key); err != nil {
		return err
	}
	n.publish(ctx, events.StorageChanged{Key: key, Removed: true})
	return nil
}

func (n *Notifying) publish(ctx context.Context, ev events.StorageChanged) {
	if err := n.bus.Publish(ctx, events.TopicStorageChanged, ev); err != nil {
		n.logger.WarnContext(ctx, "failed to publish storage change", "key", ev.Key, "error", err)
	}
}
