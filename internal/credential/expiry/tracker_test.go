package expiry

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"marketaccess/internal/events"
	"marketaccess/internal/platform/logger"
	"marketaccess/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type TrackerSuite struct {
	suite.Suite
	ctx     context.Context
	kv      *storage.Memory
	bus     *events.Bus
	clock   *fakeClock
	tracker *Tracker
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = storage.NewMemory()
	s.bus = events.NewInProcess(logger.Discard())
	s.clock = &fakeClock{now: now}
	s.tracker = NewTracker(s.kv, "did:op:asset", "svc-1",
		WithBus(s.bus),
		WithLogger(logger.Discard()),
		WithClock(s.clock.Now),
		WithTickInterval(5*time.Millisecond),
	)
}

func (s *TrackerSuite) TearDownTest() {
	_ = s.bus.Close()
}

func (s *TrackerSuite) TestStatusFollowsStoredTimestamp() {
	s.Equal(PhaseUnverified, PhaseOf(s.tracker.Status(s.ctx)))

	s.Require().NoError(s.tracker.MarkVerified(s.ctx))
	raw, ok, _ := s.kv.Get(s.ctx, "credential_did:op:asset_svc-1")
	s.True(ok)
	s.NotEmpty(raw)

	status := s.tracker.Status(s.ctx)
	s.True(status.IsValid)
	s.Equal(DefaultValidity, *status.TimeRemaining)

	s.clock.Advance(DefaultValidity)
	s.Equal(PhaseExpired, PhaseOf(s.tracker.Status(s.ctx)))

	s.Require().NoError(s.tracker.Clear(s.ctx))
	s.Equal(PhaseUnverified, PhaseOf(s.tracker.Status(s.ctx)))
}

func (s *TrackerSuite) TestCorruptTimestampReadsAsUnverified() {
	s.Require().NoError(s.kv.Set(s.ctx, StorageKey("did:op:asset", "svc-1"), "yesterday"))
	s.Equal(Status{IsValid: false, NeedsRefresh: true}, s.tracker.Status(s.ctx))
}

func (s *TrackerSuite) TestRunTicksOnlyWhileValid() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	updates := make(chan Status, 1024)
	done := make(chan error, 1)
	go func() {
		done <- s.tracker.Run(ctx, func(st Status) { updates <- st })
	}()

	s.Equal(PhaseUnverified, PhaseOf(s.next(ctx, updates)))

	s.Require().NoError(s.tracker.MarkVerified(ctx))
	s.waitFor(ctx, updates, PhaseValid)

	s.clock.Advance(DefaultValidity - 30*time.Second)
	s.waitFor(ctx, updates, PhaseExpiring)

	s.clock.Advance(time.Minute)
	s.waitFor(ctx, updates, PhaseExpired)

	// Drain whatever raced the final tick, then expect silence.
	time.Sleep(20 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	time.Sleep(30 * time.Millisecond)
	s.Empty(updates, "tracker must stop ticking once expired")

	cancel()
	s.NoError(<-done)
}

func (s *TrackerSuite) next(ctx context.Context, updates <-chan Status) Status {
	select {
	case st := <-updates:
		return st
	case <-ctx.Done():
		s.FailNow("no status update")
		return Status{}
	}
}

func (s *TrackerSuite) waitFor(ctx context.Context, updates <-chan Status, phase Phase) {
	for {
		if PhaseOf(s.next(ctx, updates)) == phase {
			return
		}
	}
}

func (s *TrackerSuite) TestRunRefreshesOnStorageChange() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	updates := make(chan Status, 1024)
	done := make(chan error, 1)
	go func() {
		done <- s.tracker.Run(ctx, func(st Status) { updates <- st })
	}()
	s.Equal(PhaseUnverified, PhaseOf(s.next(ctx, updates)))

	// Another process wrote the timestamp; no in-process announcement.
	kv := storage.NewNotifying(s.kv, s.bus, logger.Discard())
	ts := strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
	s.Require().NoError(kv.Set(ctx, StorageKey("did:op:asset", "svc-1"), ts))
	s.waitFor(ctx, updates, PhaseValid)

	s.Require().NoError(kv.Remove(ctx, StorageKey("did:op:asset", "svc-1")))
	s.waitFor(ctx, updates, PhaseUnverified)

	cancel()
	s.NoError(<-done)
}

func (s *TrackerSuite) TestRegistryWatchRunsTracker() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	r := NewRegistry(s.kv, WithBus(s.bus), WithLogger(logger.Discard()), WithClock(s.clock.Now))
	updates := make(chan Status, 1024)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, "did:op:asset", "svc-1", func(st Status) { updates <- st })
	}()
	s.Equal(PhaseUnverified, PhaseOf(s.next(ctx, updates)))

	s.Require().NoError(r.MarkVerified(ctx, "did:op:asset", "svc-1"))
	s.waitFor(ctx, updates, PhaseValid)

	cancel()
	s.NoError(<-done)
}

func TestRegistryKeepsNoPerPairState(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	r := NewRegistry(kv)

	require.NoError(t, r.MarkVerified(ctx, "asset", "svc"))
	assert.True(t, r.Status(ctx, "asset", "svc").IsValid)
	assert.False(t, r.Status(ctx, "asset", "other").IsValid)

	// A fresh registry over the same storage sees the same state.
	assert.True(t, NewRegistry(kv).Status(ctx, "asset", "svc").IsValid)
}
