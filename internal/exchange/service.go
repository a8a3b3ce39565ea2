package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"marketaccess/internal/credential"
	"marketaccess/internal/platform/metrics"
	"marketaccess/internal/policy"
	"marketaccess/internal/session"
	"marketaccess/internal/wallet"
	dErrors "marketaccess/pkg/domain-errors"
)

type PolicyClient interface {
	Initiate(ctx context.Context, documentID, serviceID, consumerAddress string) (*policy.InitiateResult, error)
	CheckSessionID(ctx context.Context, sessionID string) (*policy.Response, error)
	GetPD(ctx context.Context, sessionID string) (json.RawMessage, error)
}

type WalletClient interface {
	Wallets(ctx context.Context, token string) ([]wallet.Wallet, error)
	DIDs(ctx context.Context, token, walletID string) ([]wallet.DID, error)
	ResolvePresentationRequest(ctx context.Context, token, walletID, request string) (string, error)
	MatchCredentials(ctx context.Context, token, walletID string, definition json.RawMessage) ([]credential.Credential, error)
	UsePresentationRequest(ctx context.Context, token, walletID string, params wallet.UsePresentationParams) (*wallet.UseResult, error)
}

type SessionStore interface {
	Get(ctx context.Context) *session.Token
	Selection(ctx context.Context) session.Selection
	SetSelection(ctx context.Context, sel session.Selection) error
	LookupVerifierSession(ctx context.Context, did, serviceID string, skip bool) (string, bool)
	CacheVerifierSession(ctx context.Context, did, serviceID, sessionID string, skip bool) error
	ClearVerifierSessions(ctx context.Context) error
}

type CredentialCache interface {
	Cache(ctx context.Context, fresh []credential.Credential) ([]credential.Credential, error)
}

type Verifications interface {
	MarkVerified(ctx context.Context, assetID, serviceID string) error
}

// Service runs one exchange at a time for the process.
type Service struct {
	policy        PolicyClient
	wallet        WalletClient
	sessions      SessionStore
	credentials   CredentialCache
	verifications Verifications
	logger        *slog.Logger
	metrics       *metrics.Metrics
	now           func() time.Time

	// opMu serializes operations; mu guards state and ectx.
	opMu       sync.Mutex
	mu         sync.Mutex
	state      State
	ectx       Context
	skip       bool
	inflightMu sync.Mutex
	inflight   context.CancelFunc
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(pc PolicyClient, wc WalletClient, sessions SessionStore, credentials CredentialCache, verifications Verifications, opts ...Option) *Service {
	s := &Service{
		policy:        pc,
		wallet:        wc,
		sessions:      sessions,
		credentials:   credentials,
		verifications: verifications,
		logger:        slog.Default(),
		now:           time.Now,
		state:         Stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state without waiting for in-flight calls.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	ectx := s.ectx
	ectx.VerifiableCredentials = slices.Clone(s.ectx.VerifiableCredentials)
	ectx.SelectedCredentials = slices.Clone(s.ectx.SelectedCredentials)
	ectx.DIDs = slices.Clone(s.ectx.DIDs)
	return Snapshot{State: s.state, Context: ectx}
}

// Start begins an exchange for the request's (asset, service) pair. A verifier
// session cached for the selected DID is confirmed with the policy server first;
// when confirmed the exchange ends at once. Any other answer clears every cached
// verifier session before a fresh exchange starts.
func (s *Service) Start(ctx context.Context, req StartRequest) (Snapshot, error) {
	if req.AssetID == "" || req.ServiceID == "" || req.ConsumerAddress == "" {
		return s.Snapshot(), dErrors.New(dErrors.CodeValidation, "assetId, serviceId and consumerAddress are required")
	}
	ctx, done := s.begin(ctx)
	defer done()

	token, err := s.token(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	if s.Snapshot().State != Stop {
		s.abort(ctx, EventCancelled)
	}
	if err := s.fire(ctx, EventStarted, func(c *Context) {
		c.AssetID = req.AssetID
		c.ServiceID = req.ServiceID
		c.ConsumerAddress = req.ConsumerAddress
	}); err != nil {
		return s.Snapshot(), err
	}
	s.mu.Lock()
	s.skip = req.SkipCheck
	s.mu.Unlock()

	sel := s.sessions.Selection(ctx)
	if reused := s.reuseVerifierSession(ctx, sel.DID, req); reused {
		s.metrics.IncExchangeOutcome("reused")
		snap := s.Snapshot()
		snap.Reused = true
		return snap, nil
	}

	walletID, err := s.walletID(ctx, token, sel)
	if err != nil {
		return s.fail(ctx, err)
	}

	initiated, err := s.policy.Initiate(ctx, req.AssetID, req.ServiceID, req.ConsumerAddress)
	if err != nil {
		return s.fail(ctx, err)
	}
	resolved, err := s.wallet.ResolvePresentationRequest(ctx, token.Token, walletID, initiated.OpenID4VC)
	if err != nil {
		return s.fail(ctx, err)
	}
	pd, err := s.policy.GetPD(ctx, initiated.PolicyServerData.SessionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	dids, err := s.wallet.DIDs(ctx, token.Token, walletID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.fire(ctx, EventDidsLoaded, func(c *Context) {
		c.WalletID = walletID
		c.OpenID4VP = resolved
		c.SessionID = initiated.PolicyServerData.SessionID
		c.PolicyServerData = initiated.PolicyServerData
		c.PresentationDefinition = pd
		c.DIDs = dids
	}); err != nil {
		return s.fail(ctx, err)
	}
	return s.Snapshot(), nil
}

// reuseVerifierSession reports whether a cached verifier session was confirmed.
func (s *Service) reuseVerifierSession(ctx context.Context, did string, req StartRequest) bool {
	if did == "" {
		return false
	}
	sessionID, ok := s.sessions.LookupVerifierSession(ctx, did, req.ServiceID, req.SkipCheck)
	if !ok {
		return false
	}

	resp, err := s.policy.CheckSessionID(ctx, sessionID)
	if err == nil && resp.Success {
		if err := s.fire(ctx, EventSessionConfirmed, func(c *Context) {
			c.SessionID = sessionID
			c.SelectedDID = did
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to record reused verifier session", "error", err)
			s.abort(ctx, EventFailed)
			return false
		}
		return true
	}

	s.logger.InfoContext(ctx, "cached verifier session rejected, clearing all verifier sessions",
		"service_id", req.ServiceID,
		"error", err,
	)
	if clearErr := s.sessions.ClearVerifierSessions(ctx); clearErr != nil {
		s.logger.WarnContext(ctx, "failed to clear verifier sessions", "error", clearErr)
	}
	s.metrics.IncVerifierCacheClear()
	return false
}

// SelectDID picks the DID to present with and resolves the wallet credentials
// matching the presentation definition.
func (s *Service) SelectDID(ctx context.Context, did string) (Snapshot, error) {
	ctx, done := s.begin(ctx)
	defer done()

	snap := s.Snapshot()
	if snap.State != ReadDids && snap.State != ResolveCredentials {
		return snap, dErrors.New(dErrors.CodeInvalidState, "no exchange is waiting for a DID")
	}
	if !slices.ContainsFunc(snap.Context.DIDs, func(d wallet.DID) bool { return d.DID == did }) {
		return snap, dErrors.New(dErrors.CodeValidation, "unknown DID")
	}
	token, err := s.token(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	creds, err := s.wallet.MatchCredentials(ctx, token.Token, snap.Context.WalletID, snap.Context.PresentationDefinition)
	if err != nil {
		return s.fail(ctx, err)
	}

	sel := s.sessions.Selection(ctx)
	sel.WalletID = snap.Context.WalletID
	sel.DID = did
	if err := s.sessions.SetSelection(ctx, sel); err != nil {
		s.logger.WarnContext(ctx, "failed to persist DID selection", "error", err)
	}

	if err := s.fire(ctx, EventDidSelected, func(c *Context) {
		c.SelectedDID = did
		c.VerifiableCredentials = creds
		c.SelectedCredentials = nil
	}); err != nil {
		return s.fail(ctx, err)
	}
	return s.Snapshot(), nil
}

// Submit presents the chosen credentials to the verifier.
func (s *Service) Submit(ctx context.Context, credentialIDs []string) (Snapshot, error) {
	ctx, done := s.begin(ctx)
	defer done()

	snap := s.Snapshot()
	if snap.State != ResolveCredentials {
		return snap, dErrors.New(dErrors.CodeInvalidState, "no credentials to submit")
	}
	if len(credentialIDs) == 0 {
		return snap, dErrors.New(dErrors.CodeValidation, "select at least one credential")
	}
	for _, id := range credentialIDs {
		if !slices.ContainsFunc(snap.Context.VerifiableCredentials, func(c credential.Credential) bool { return c.ID == id }) {
			return snap, dErrors.New(dErrors.CodeValidation, "unknown credential "+id)
		}
	}
	token, err := s.token(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	s.ectx.SelectedCredentials = slices.Clone(credentialIDs)
	s.mu.Unlock()

	_, err = s.wallet.UsePresentationRequest(ctx, token.Token, snap.Context.WalletID, wallet.UsePresentationParams{
		DID:                 snap.Context.SelectedDID,
		PresentationRequest: snap.Context.OpenID4VP,
		SelectedCredentials: credentialIDs,
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.fire(ctx, EventSubmitted, nil); err != nil {
		return s.fail(ctx, err)
	}
	s.metrics.IncExchangeOutcome("verified")
	return s.Snapshot(), nil
}

// Cancel aborts the exchange, including any call still in flight.
func (s *Service) Cancel(ctx context.Context) Snapshot {
	s.inflightMu.Lock()
	if s.inflight != nil {
		s.inflight()
	}
	s.inflightMu.Unlock()

	ctx, done := s.begin(ctx)
	defer done()
	if s.Snapshot().State != Stop {
		s.abort(ctx, EventCancelled)
		s.metrics.IncExchangeOutcome("cancelled")
	}
	return s.Snapshot()
}

func (s *Service) begin(ctx context.Context) (context.Context, func()) {
	s.opMu.Lock()
	opCtx, cancel := context.WithCancel(ctx)
	s.inflightMu.Lock()
	s.inflight = cancel
	s.inflightMu.Unlock()
	return opCtx, func() {
		s.inflightMu.Lock()
		s.inflight = nil
		s.inflightMu.Unlock()
		cancel()
		s.opMu.Unlock()
	}
}

func (s *Service) token(ctx context.Context) (*session.Token, error) {
	token := s.sessions.Get(ctx)
	if token == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "No session found")
	}
	if !token.Authenticated(s.now()) {
		return nil, dErrors.New(dErrors.CodeSessionExpired, "Session expired")
	}
	return token, nil
}

func (s *Service) walletID(ctx context.Context, token *session.Token, sel session.Selection) (string, error) {
	if sel.WalletID != "" {
		return sel.WalletID, nil
	}
	wallets, err := s.wallet.Wallets(ctx, token.Token)
	if err != nil {
		return "", err
	}
	if len(wallets) == 0 {
		return "", dErrors.New(dErrors.CodeNotFound, "no wallet found for this account")
	}
	sel.WalletID = wallets[0].ID
	if err := s.sessions.SetSelection(ctx, sel); err != nil {
		s.logger.WarnContext(ctx, "failed to persist wallet selection", "error", err)
	}
	return sel.WalletID, nil
}

// fire applies ev, lets update edit the context, then runs the effects.
func (s *Service) fire(ctx context.Context, ev Event, update func(*Context)) error {
	s.mu.Lock()
	from := s.state
	next, effects, err := Transition(from, ev)
	if err != nil {
		s.mu.Unlock()
		return dErrors.Wrap(err, dErrors.CodeInvalidState, "exchange is not in a state to accept "+string(ev))
	}
	if slices.Contains(effects, EffectResetContext) {
		s.ectx = Context{}
		s.skip = false
	}
	if update != nil {
		update(&s.ectx)
	}
	s.state = next
	ectx := s.ectx
	skip := s.skip
	s.mu.Unlock()

	s.metrics.IncExchangeTransition(string(from), string(next))
	s.logger.DebugContext(ctx, "exchange transition", "from", from, "event", ev, "to", next)
	return s.run(ctx, effects, ectx, skip)
}

func (s *Service) run(ctx context.Context, effects []Effect, ectx Context, skip bool) error {
	for _, effect := range effects {
		var err error
		switch effect {
		case EffectCacheCredentials:
			_, err = s.credentials.Cache(ctx, ectx.VerifiableCredentials)
		case EffectCacheVerifierSession:
			err = s.sessions.CacheVerifierSession(ctx, ectx.SelectedDID, ectx.ServiceID, ectx.SessionID, skip)
		case EffectMarkVerified:
			err = s.verifications.MarkVerified(ctx, ectx.AssetID, ectx.ServiceID)
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record exchange result")
		}
	}
	return nil
}

// abort moves any non-stopped exchange through AbortSelection back to Stop.
func (s *Service) abort(ctx context.Context, ev Event) {
	if err := s.fire(ctx, ev, nil); err != nil {
		s.logger.WarnContext(ctx, "abort transition rejected", "event", ev, "error", err)
	}
	if err := s.fire(ctx, EventReset, nil); err != nil {
		s.logger.WarnContext(ctx, "reset transition rejected", "error", err)
	}
}

func (s *Service) fail(ctx context.Context, err error) (Snapshot, error) {
	s.abort(ctx, EventFailed)
	s.metrics.IncExchangeOutcome("failed")
	s.logger.WarnContext(ctx, "credential exchange failed", "error", err)
	return s.Snapshot(), translate(err)
}

// translate maps collaborator failures onto domain errors with a short message
// the user can act on.
func translate(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if se, ok := policy.AsServerError(err); ok {
		if se.HTTPStatus == 401 {
			return dErrors.Wrap(err, dErrors.CodeSessionExpired, "Session expired")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstream, se.Message)
	}
	var pe *policy.ProtocolError
	if errors.As(err, &pe) {
		return dErrors.Wrap(err, dErrors.CodeUpstream, pe.Message)
	}
	switch {
	case errors.Is(err, policy.ErrCircuitOpen):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "policy server unavailable")
	case errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeConflict, "exchange cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "verification timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeUpstream, "verification failed")
}
