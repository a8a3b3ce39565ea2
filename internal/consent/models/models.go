// Package models holds the consent records exchanged with the consents backend.
package models

import (
	"strings"
	"time"
)

// Direction tells whether the user owns the dataset (Incoming) or asked for
// access (Outgoing).
type Direction string

const (
	Incoming Direction = "Incoming"
	Outgoing Direction = "Outgoing"
)

// ParseDirection accepts either direction case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "incoming":
		return Incoming, true
	case "outgoing":
		return Outgoing, true
	}
	return "", false
}

// Path is the direction as the backend's URL segment.
func (d Direction) Path() string {
	return strings.ToLower(string(d))
}

type Status string

const (
	StatusPending Status = "Pending"
	StatusGranted Status = "Granted"
	StatusDenied  Status = "Denied"
)

// PossibleRequests are the permissions a consumer can ask a dataset owner for.
type PossibleRequests struct {
	TrustedAlgorithmPublisher bool `json:"trusted_algorithm_publisher"`
	TrustedAlgorithm          bool `json:"trusted_algorithm"`
	AllowNetworkAccess        bool `json:"allow_network_access"`
}

// Any reports whether at least one permission is set.
func (p PossibleRequests) Any() bool {
	return p.TrustedAlgorithmPublisher || p.TrustedAlgorithm || p.AllowNetworkAccess
}

// Response is the owner's answer to a consent.
type Response struct {
	Consent       int64            `json:"consent"`
	Status        Status           `json:"status"`
	Reason        string           `json:"reason"`
	Permitted     PossibleRequests `json:"permitted"`
	LastUpdatedAt time.Time        `json:"last_updated_at"`
}

// Consent is a bilateral access request between a dataset owner and an
// algorithm's consumer.
type Consent struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Dataset   string           `json:"dataset"`
	Algorithm string           `json:"algorithm"`
	Solicitor string           `json:"solicitor,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Request   PossibleRequests `json:"request"`
	Direction Direction        `json:"direction"`
	Status    Status           `json:"status"`
	Response  *Response        `json:"response,omitempty"`
}

// IsPending is true iff the consent still awaits the owner's response.
func IsPending(c Consent) bool {
	return c.Status == StatusPending
}

// CountPending returns how many consents in list are pending.
func CountPending(list []Consent) int {
	n := 0
	for _, c := range list {
		if IsPending(c) {
			n++
		}
	}
	return n
}

// StatusFor derives the status of a response from what it permits.
func StatusFor(permitted PossibleRequests) Status {
	if permitted.Any() {
		return StatusGranted
	}
	return StatusDenied
}

// UserConsentsData is the backend's aggregate of pending consents per direction.
type UserConsentsData struct {
	IncomingPendingConsents int `json:"incoming_pending_consents"`
	OutgoingPendingConsents int `json:"outgoing_pending_consents"`
}

// Pending returns the counter for direction.
func (u UserConsentsData) Pending(d Direction) int {
	if d == Incoming {
		return u.IncomingPendingConsents
	}
	return u.OutgoingPendingConsents
}

// AddPending returns a copy with delta added to direction's counter, floored at
// zero.
func (u UserConsentsData) AddPending(d Direction, delta int) UserConsentsData {
	if d == Incoming {
		u.IncomingPendingConsents = max(u.IncomingPendingConsents+delta, 0)
	} else {
		u.OutgoingPendingConsents = max(u.OutgoingPendingConsents+delta, 0)
	}
	return u
}

// CreateConsentRequest is a consumer's request for access to a dataset.
type CreateConsentRequest struct {
	Address   string           `json:"address"`
	ChainID   int64            `json:"chain_id"`
	Dataset   string           `json:"dataset"`
	Algorithm string           `json:"algorithm"`
	Request   PossibleRequests `json:"request"`
	Reason    string           `json:"reason,omitempty"`
}

// ResponseRequest is the owner's grant or denial.
type ResponseRequest struct {
	Reason    string           `json:"reason"`
	Permitted PossibleRequests `json:"permitted"`
}
