package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPendingAndCount(t *testing.T) {
	list := []Consent{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusGranted},
		{ID: 3, Status: StatusPending},
		{ID: 4, Status: StatusDenied},
	}
	assert.True(t, IsPending(list[0]))
	assert.False(t, IsPending(list[1]))
	assert.Equal(t, 2, CountPending(list))
	assert.Equal(t, 0, CountPending(nil))
}

func TestUserConsentsDataCounters(t *testing.T) {
	u := UserConsentsData{IncomingPendingConsents: 2, OutgoingPendingConsents: 1}

	u = u.AddPending(Incoming, -1)
	assert.Equal(t, 1, u.Pending(Incoming))
	assert.Equal(t, 1, u.Pending(Outgoing))

	u = u.AddPending(Outgoing, -5)
	assert.Equal(t, 0, u.Pending(Outgoing), "counters never go negative")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusDenied, StatusFor(PossibleRequests{}))
	assert.Equal(t, StatusGranted, StatusFor(PossibleRequests{TrustedAlgorithm: true}))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("incoming")
	assert.True(t, ok)
	assert.Equal(t, Incoming, d)
	assert.Equal(t, "outgoing", Outgoing.Path())
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
