package events

import (
	"context"
	"sync"
)

// Inbox keeps the most recent user notifications until they are drained.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewInbox creates an inbox holding at most limit notifications.
func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	return &Inbox{limit: limit}
}

// Run collects notifications from the bus until ctx is done.
func (i *Inbox) Run(ctx context.Context, bus *Bus) error {
	ch, err := Subscribe[Notification](ctx, bus, TopicNotifications)
	if err != nil {
		return err
	}
	for n := range ch {
		i.Add(n)
	}
	return nil
}

// Add appends n, dropping the oldest entry once the limit is reached.
func (i *Inbox) Add(n Notification) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
	if len(i.items) > i.limit {
		i.items = i.items[len(i.items)-i.limit:]
	}
}

// Drain returns and forgets all pending notifications.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	return out
}
