// Package expiry tracks how long a successful credential verification stays
// valid for one (asset, service) pair.
package expiry

import (
	"fmt"
	"time"
)

const (
	// DefaultValidity is how long a verification is trusted.
	DefaultValidity = 5 * time.Minute
	// WarningWindow is the remaining time below which the UI warns the user.
	WarningWindow = 60 * time.Second
)

// Status is the derived verification state. It is recomputed on every tick and
// never persisted.
type Status struct {
	IsValid       bool           `json:"isValid"`
	ExpiresAt     *time.Time     `json:"expiresAt,omitempty"`
	TimeRemaining *time.Duration `json:"timeRemaining,omitempty"`
	NeedsRefresh  bool           `json:"needsRefresh"`
}

// Phase names the tracker state a Status corresponds to.
type Phase string

const (
	PhaseUnverified Phase = "unverified"
	PhaseValid      Phase = "valid"
	PhaseExpiring   Phase = "expiring"
	PhaseExpired    Phase = "expired"
)

// CreateCredentialStatus derives the status of a verification. An invalid
// verification always needs a refresh. A valid one expires validity after
// timestamp, or after now when no timestamp is known.
func CreateCredentialStatus(isValid bool, timestamp *time.Time, now time.Time, validity time.Duration) Status {
	if !isValid {
		return Status{IsValid: false, NeedsRefresh: true}
	}
	base := now
	if timestamp != nil {
		base = *timestamp
	}
	return CheckCredentialExpiration(base.Add(validity), now)
}

// CheckCredentialExpiration computes the status for a known expiry.
func CheckCredentialExpiration(expiresAt, now time.Time) Status {
	remaining := max(expiresAt.Sub(now), 0)
	valid := remaining > 0
	return Status{
		IsValid:       valid,
		ExpiresAt:     &expiresAt,
		TimeRemaining: &remaining,
		NeedsRefresh:  !valid,
	}
}

// ShouldShowExpirationWarning is true iff 0 < remaining <= WarningWindow.
func ShouldShowExpirationWarning(remaining time.Duration) bool {
	return remaining > 0 && remaining <= WarningWindow
}

func TimeRemainingText(s Status) string {
	switch PhaseOf(s) {
	case PhaseUnverified:
		return "Credentials not verified"
	case PhaseExpired:
		return "Credentials expired"
	}
	remaining := *s.TimeRemaining
	minutes := int(remaining / time.Minute)
	seconds := int((remaining % time.Minute) / time.Second)
	return fmt.Sprintf("Credentials valid for %dm %ds", minutes, seconds)
}

func PhaseOf(s Status) Phase {
	switch {
	case s.ExpiresAt == nil || s.TimeRemaining == nil:
		return PhaseUnverified
	case !s.IsValid:
		return PhaseExpired
	case ShouldShowExpirationWarning(*s.TimeRemaining):
		return PhaseExpiring
	default:
		return PhaseValid
	}
}
