package wallet

// Wallet is one wallet of the logged-in account.
type Wallet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedOn  string `json:"createdOn,omitempty"`
	Permission string `json:"permission,omitempty"`
}

// DID is a decentralized identifier held by a wallet.
type DID struct {
	DID     string `json:"did"`
	Alias   string `json:"alias,omitempty"`
	KeyID   string `json:"keyId,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// UsePresentationParams is a presentation of selected credentials to a
// verifier on behalf of a DID.
type UsePresentationParams struct {
	DID                 string   `json:"did"`
	PresentationRequest string   `json:"presentationRequest"`
	SelectedCredentials []string `json:"selectedCredentials"`
}

// UseResult is the verifier's answer to a presentation.
type UseResult struct {
	RedirectURI string `json:"redirectUri,omitempty"`
}

type loginRequest struct {
	Type     string `json:"type"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type walletsResponse struct {
	Account string   `json:"account"`
	Wallets []Wallet `json:"wallets"`
}
