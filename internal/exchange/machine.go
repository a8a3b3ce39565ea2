// Package exchange drives the credential exchange between the user's wallet and
// the policy server: discovery, presentation request, DID selection and
// verification.
package exchange

import (
	"errors"
	"fmt"
)

// State of the exchange.
type State string

const (
	Stop                    State = "stop"
	StartCredentialExchange State = "start_credential_exchange"
	ReadDids                State = "read_dids"
	ResolveCredentials      State = "resolve_credentials"
	AbortSelection          State = "abort_selection"
)

// Event moves the exchange between states.
type Event string

const (
	EventStarted          Event = "started"
	EventSessionConfirmed Event = "session_confirmed"
	EventDidsLoaded       Event = "dids_loaded"
	EventDidSelected      Event = "did_selected"
	EventSubmitted        Event = "submitted"
	EventCancelled        Event = "cancelled"
	EventFailed           Event = "failed"
	EventReset            Event = "reset"
)

// Effect is work the driver performs after a transition.
type Effect string

const (
	EffectResetContext         Effect = "reset_context"
	EffectCacheCredentials     Effect = "cache_credentials"
	EffectCacheVerifierSession Effect = "cache_verifier_session"
	EffectMarkVerified         Effect = "mark_verified"
)

// ErrInvalidTransition is returned for events the current state does not accept.
var ErrInvalidTransition = errors.New("invalid exchange transition")

// Transition is the exchange's transition function. It has no side effects;
// the returned effects are for the caller to carry out.
func Transition(from State, ev Event) (State, []Effect, error) {
	switch ev {
	case EventCancelled, EventFailed:
		if from == Stop {
			return Stop, nil, nil
		}
		return AbortSelection, nil, nil
	case EventReset:
		if from == Stop || from == AbortSelection {
			return Stop, nil, nil
		}
	}

	switch from {
	case Stop:
		if ev == EventStarted {
			return StartCredentialExchange, []Effect{EffectResetContext}, nil
		}
	case StartCredentialExchange:
		switch ev {
		case EventSessionConfirmed:
			return Stop, []Effect{EffectMarkVerified}, nil
		case EventDidsLoaded:
			return ReadDids, nil, nil
		}
	case ReadDids, ResolveCredentials:
		if ev == EventDidSelected {
			return ResolveCredentials, []Effect{EffectCacheCredentials, EffectCacheVerifierSession}, nil
		}
		if from == ResolveCredentials && ev == EventSubmitted {
			return Stop, []Effect{EffectMarkVerified}, nil
		}
	}
	return from, nil, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
}
