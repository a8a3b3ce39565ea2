package exchange

import (
	"encoding/json"

	"marketaccess/internal/credential"
	"marketaccess/internal/policy"
	"marketaccess/internal/wallet"
)

// Context is the data gathered during one exchange. It is reset whenever a new
// exchange starts.
type Context struct {
	AssetID                string                  `json:"assetId"`
	ServiceID              string                  `json:"serviceId"`
	ConsumerAddress        string                  `json:"consumerAddress"`
	WalletID               string                  `json:"walletId,omitempty"`
	OpenID4VP              string                  `json:"openid4vp,omitempty"`
	PresentationDefinition json.RawMessage         `json:"presentationDefinition,omitempty"`
	VerifiableCredentials  []credential.Credential `json:"verifiableCredentials,omitempty"`
	SelectedCredentials    []string                `json:"selectedCredentials,omitempty"`
	SessionID              string                  `json:"sessionId,omitempty"`
	DIDs                   []wallet.DID            `json:"dids,omitempty"`
	SelectedDID            string                  `json:"selectedDid,omitempty"`
	PolicyServerData       policy.SessionParams    `json:"policyServerData"`
}

// Snapshot is a copy of the driver's state.
type Snapshot struct {
	State   State   `json:"state"`
	Context Context `json:"context"`
	// Reused is set when a cached verifier session made the exchange unnecessary.
	Reused bool `json:"reused,omitempty"`
}

// StartRequest asks to verify the consumer for one service of an asset.
type StartRequest struct {
	AssetID         string `json:"assetId"`
	ServiceID       string `json:"serviceId"`
	ConsumerAddress string `json:"consumerAddress"`
	// SkipCheck selects the separately keyed skip-check verifier session.
	SkipCheck bool `json:"skipCheck,omitempty"`
}
