package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"marketaccess/internal/events"
	"marketaccess/internal/platform/logger"
)

type StoreSuite struct {
	suite.Suite
	ctx context.Context
	kv  *Memory
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = NewMemory()
}

func (s *StoreSuite) TestMemoryRoundTrip() {
	s.Require().NoError(s.kv.Set(s.ctx, "k", "v"))
	v, ok, err := s.kv.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("v", v)

	s.Require().NoError(s.kv.Remove(s.ctx, "k"))
	_, ok, err = s.kv.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.False(ok)

	s.NoError(s.kv.Remove(s.ctx, "missing"))
}

func (s *StoreSuite) TestReadJSON() {
	type payload struct {
		Name string `json:"name"`
	}

	s.Run("missing key yields zero value", func() {
		got, ok := ReadJSON[payload](s.ctx, s.kv, "absent", logger.Discard())
		s.False(ok)
		s.Equal(payload{}, got)
	})

	s.Run("written value decodes", func() {
		s.Require().NoError(WriteJSON(s.ctx, s.kv, "p", payload{Name: "alice"}))
		got, ok := ReadJSON[payload](s.ctx, s.kv, "p", logger.Discard())
		s.True(ok)
		s.Equal("alice", got.Name)
	})

	s.Run("corrupt value degrades to empty", func() {
		s.Require().NoError(s.kv.Set(s.ctx, "bad", "{not json"))
		got, ok := ReadJSON[[]payload](s.ctx, s.kv, "bad", logger.Discard())
		s.False(ok)
		s.Nil(got)
	})
}

func (s *StoreSuite) TestNotifyingPublishesChanges() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	bus := events.NewInProcess(logger.Discard())
	defer func() { _ = bus.Close() }()

	changes, err := events.Subscribe[events.StorageChanged](ctx, bus, events.TopicStorageChanged)
	s.Require().NoError(err)

	kv := NewNotifying(s.kv, bus, logger.Discard())
	s.Require().NoError(kv.Set(ctx, "sessionToken", "x"))
	s.Require().NoError(kv.Remove(ctx, "sessionToken"))

	var got []events.StorageChanged
	for len(got) < 2 {
		select {
		case c := <-changes:
			got = append(got, c)
		case <-ctx.Done():
			s.FailNow("storage change not published")
		}
	}
	// gochannel delivers each publish on its own goroutine.
	s.ElementsMatch([]events.StorageChanged{
		{Key: "sessionToken"},
		{Key: "sessionToken", Removed: true},
	}, got)
}
