package httptransport

import (
	"context"
	"encoding/json"

	"marketaccess/internal/consent/models"
	"marketaccess/internal/consent/service"
	"marketaccess/internal/credential/expiry"
	"marketaccess/internal/ethsig"
	"marketaccess/internal/events"
	"marketaccess/internal/exchange"
	"marketaccess/internal/policy"
	"marketaccess/internal/session"
)

// WalletLogin authenticates against the SSI wallet.
type WalletLogin interface {
	Login(ctx context.Context, email, password string) (*session.Token, error)
}

// Sessions is the session store as the API sees it.
type Sessions interface {
	Get(ctx context.Context) *session.Token
	Set(ctx context.Context, token *session.Token) error
	Clear(ctx context.Context) error
	ClearVerifierSessions(ctx context.Context) error
}

// CredentialCache is cleared on disconnect.
type CredentialCache interface {
	Clear(ctx context.Context) error
}

// CredentialStatus reports the verification status of an (asset, service) pair.
type CredentialStatus interface {
	Status(ctx context.Context, assetID, serviceID string) expiry.Status
	Watch(ctx context.Context, assetID, serviceID string, onChange func(expiry.Status)) error
}

// Exchange drives the credential exchange.
type Exchange interface {
	Start(ctx context.Context, req exchange.StartRequest) (exchange.Snapshot, error)
	SelectDID(ctx context.Context, did string) (exchange.Snapshot, error)
	Submit(ctx context.Context, credentialIDs []string) (exchange.Snapshot, error)
	Cancel(ctx context.Context) exchange.Snapshot
	Snapshot() exchange.Snapshot
}

// Consents is the consent lifecycle manager.
type Consents interface {
	CreateConsent(ctx context.Context, req models.CreateConsentRequest) (*models.Consent, error)
	CreateConsentResponse(ctx context.Context, consentID int64, reason string, permitted models.PossibleRequests, signer ethsig.Signer) (*models.Response, error)
	DeleteConsentResponse(ctx context.Context, consentID int64) error
	DeleteConsent(ctx context.Context, consentID int64) error
	UserConsents(ctx context.Context, address string) (models.UserConsentsData, error)
	ListConsents(ctx context.Context, address string, direction models.Direction) ([]models.Consent, error)
	RefreshAll(ctx context.Context, address string) (*service.Overview, error)
	CurrentConsent(ctx context.Context) (*models.Consent, bool)
	SetCurrentConsent(ctx context.Context, c *models.Consent) error
}

// Notifications holds user notifications until the UI polls for them.
type Notifications interface {
	Drain() []events.Notification
}

// Policy forwards the policy-server actions the UI triggers itself.
type Policy interface {
	PresentationRequest(ctx context.Context, params policy.PresentationParams) (json.RawMessage, error)
	Download(ctx context.Context, sessionID string) (json.RawMessage, error)
	Passthrough(ctx context.Context, url, httpMethod string, body json.RawMessage) (json.RawMessage, error)
}
