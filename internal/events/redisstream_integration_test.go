//go:build integration

package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketaccess/internal/events"
	"marketaccess/internal/platform/logger"
	"marketaccess/pkg/testutil/containers"
)

func TestRedisStreamBusFansOut(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publisherSide, err := events.NewRedisStream(rc.Client, logger.Discard())
	require.NoError(t, err)
	defer func() { _ = publisherSide.Close() }()

	otherProcess, err := events.NewRedisStream(rc.Client, logger.Discard())
	require.NoError(t, err)
	defer func() { _ = otherProcess.Close() }()

	ch, err := events.Subscribe[events.StorageChanged](ctx, otherProcess, events.TopicStorageChanged)
	require.NoError(t, err)

	// Streams are read from the tail; retry until the subscriber is attached.
	want := events.StorageChanged{Key: "cachedCredentials"}
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		require.NoError(t, publisherSide.Publish(ctx, events.TopicStorageChanged, want))
		select {
		case got := <-ch:
			require.Equal(t, want, got)
			return
		case <-ticker.C:
		case <-ctx.Done():
			t.Fatal("event not delivered across buses")
		}
	}
}
