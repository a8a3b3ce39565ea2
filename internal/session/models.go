package session

import "time"

// StatusValid is the only wallet session status treated as authenticated.
const StatusValid = "valid"

// Token is the SSI wallet session returned by a successful wallet connect.
type Token struct {
	SessionID string    `json:"sessionId"`
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticated reports whether t may be used against the wallet. A token whose
// status is not "valid" never is, and neither is one past its expiry.
func (t *Token) Authenticated(now time.Time) bool {
	if t == nil || t.Token == "" || t.Status != StatusValid {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}

// Selection is the wallet state that depends on the session: the selected
// wallet, key and DID.
type Selection struct {
	WalletID string `json:"walletId,omitempty"`
	KeyID    string `json:"keyId,omitempty"`
	DID      string `json:"did,omitempty"`
}
