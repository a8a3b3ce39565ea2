// Package service is the consent lifecycle manager. It runs every consent
// operation against the consents backend and keeps the cached projection in step,
// including the compensating revert when a granted consent cannot be enacted on
// chain.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"marketaccess/internal/consent/applier"
	"marketaccess/internal/consent/cache"
	"marketaccess/internal/consent/models"
	"marketaccess/internal/ethsig"
	"marketaccess/internal/events"
	"marketaccess/internal/platform/metrics"
	"marketaccess/internal/storage"
	dErrors "marketaccess/pkg/domain-errors"
)

// KeyCurrentConsent stores the consent the user is looking at.
const KeyCurrentConsent = "currentConsent"

// MsgTransactionReverted is the warning shown after a compensated response.
const MsgTransactionReverted = "Consent transaction reverted, your response was withdrawn"

const revertTimeout = 10 * time.Second

// ConsentsClient is the consents backend.
type ConsentsClient interface {
	CreateConsent(ctx context.Context, req models.CreateConsentRequest) (*models.Consent, error)
	UserConsents(ctx context.Context, address string) (*models.UserConsentsData, error)
	ListConsents(ctx context.Context, address string, direction models.Direction) ([]models.Consent, error)
	CreateConsentResponse(ctx context.Context, consentID int64, req models.ResponseRequest) (*models.Response, error)
	DeleteConsentResponse(ctx context.Context, consentID int64) error
	DeleteConsent(ctx context.Context, consentID int64) error
}

// Applier enacts a consent response on chain.
type Applier interface {
	Apply(ctx context.Context, req applier.ApplyRequest) error
}

// Publisher delivers user notifications.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type Manager struct {
	client     ConsentsClient
	projection *cache.Projection
	applier    Applier
	publisher  Publisher
	kv         storage.KV
	locks      shardedLocks
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func New(client ConsentsClient, projection *cache.Projection, ap Applier, publisher Publisher, kv storage.KV, opts ...Option) *Manager {
	m := &Manager{
		client:     client,
		projection: projection,
		applier:    ap,
		publisher:  publisher,
		kv:         kv,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateConsent asks a dataset owner for access. The projection is not touched
// until the next read; only the solicitor's aggregate is invalidated.
func (m *Manager) CreateConsent(ctx context.Context, req models.CreateConsentRequest) (*models.Consent, error) {
	switch {
	case req.Address == "":
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	case req.Dataset == "" || req.Algorithm == "":
		return nil, dErrors.New(dErrors.CodeValidation, "dataset and algorithm are required")
	case !req.Request.Any():
		return nil, dErrors.New(dErrors.CodeValidation, "at least one permission must be requested")
	}
	created, err := m.client.CreateConsent(ctx, req)
	if err != nil {
		return nil, err
	}
	m.projection.InvalidateAggregate(req.Address)
	return created, nil
}

// CreateConsentResponse records the owner's answer and enacts it. When the
// applier fails the backend response is deleted again and the consent's cached
// entry is put back exactly as it was before the call.
func (m *Manager) CreateConsentResponse(ctx context.Context, consentID int64, reason string, permitted models.PossibleRequests, signer ethsig.Signer) (*models.Response, error) {
	unlock, err := m.locks.lock(ctx, consentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	loc, ok := m.projection.Find(consentID, models.Incoming)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "consent not found in incoming consents")
	}
	if !models.IsPending(loc.Consent) {
		return nil, dErrors.New(dErrors.CodeInvalidState, "consent was already answered")
	}

	resp, err := m.client.CreateConsentResponse(ctx, consentID, models.ResponseRequest{Reason: reason, Permitted: permitted})
	if err != nil {
		return nil, err
	}
	answered := loc.Consent
	answered.Status = resp.Status
	if answered.Status == "" {
		answered.Status = models.StatusFor(permitted)
	}
	answered.Response = resp
	m.projection.Patch(loc.Address, models.Incoming, consentID, func(c *models.Consent) {
		c.Status = answered.Status
		c.Response = resp
	})
	m.projection.AdjustPending(loc.Address, models.Incoming, -1)
	m.metrics.IncConsentResponse(string(answered.Status))

	err = m.applier.Apply(ctx, applier.ApplyRequest{Consent: answered, Permitted: permitted, Signer: signer})
	if err != nil {
		m.revert(ctx, loc, err)
		return nil, err
	}
	m.logger.InfoContext(ctx, "consent response applied", "consent_id", consentID, "status", answered.Status)
	return resp, nil
}

// revert undoes only the responded consent's entry and its counter
// contribution; other changes made to the address meanwhile are kept.
func (m *Manager) revert(ctx context.Context, prior cache.Located, cause error) {
	consentID := prior.Consent.ID
	// The caller's context may be what failed the applier.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revertTimeout)
	defer cancel()

	m.logger.WarnContext(rctx, "reverting consent response", "consent_id", consentID, "error", cause)
	if err := m.client.DeleteConsentResponse(rctx, consentID); err != nil {
		m.logger.ErrorContext(rctx, "failed to delete consent response during revert", "consent_id", consentID, "error", err)
	}
	if !m.projection.Reinstate(prior) {
		m.projection.InvalidateAggregate(prior.Address)
	}
	m.metrics.IncConsentRevert()
	m.notify(rctx, events.LevelWarning, MsgTransactionReverted, consentID)
}

func (m *Manager) notify(ctx context.Context, level events.Level, msg string, consentID int64) {
	if m.publisher == nil {
		return
	}
	n := events.Notification{Level: level, Message: msg, ConsentID: strconv.FormatInt(consentID, 10), At: m.now()}
	if err := m.publisher.Publish(ctx, events.TopicNotifications, n); err != nil {
		m.logger.WarnContext(ctx, "failed to publish notification", "consent_id", consentID, "error", err)
	}
}

// DeleteConsentResponse withdraws the owner's answer; the consent is pending again.
func (m *Manager) DeleteConsentResponse(ctx context.Context, consentID int64) error {
	unlock, err := m.locks.lock(ctx, consentID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := m.client.DeleteConsentResponse(ctx, consentID); err != nil {
		return err
	}
	for _, loc := range m.projection.Locate(consentID, models.Incoming) {
		wasPending := models.IsPending(loc.Consent)
		m.projection.Patch(loc.Address, models.Incoming, consentID, func(c *models.Consent) {
			c.Status = models.StatusPending
			c.Response = nil
		})
		if !wasPending {
			m.projection.AdjustPending(loc.Address, models.Incoming, 1)
		}
	}
	return nil
}

// DeleteConsent removes the consent everywhere it is cached.
func (m *Manager) DeleteConsent(ctx context.Context, consentID int64) error {
	unlock, err := m.locks.lock(ctx, consentID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := m.client.DeleteConsent(ctx, consentID); err != nil {
		return err
	}
	for _, loc := range m.projection.Locate(consentID) {
		if m.projection.Remove(loc.Address, loc.Direction, consentID) && models.IsPending(loc.Consent) {
			m.projection.AdjustPending(loc.Address, loc.Direction, -1)
		}
	}
	return nil
}

// UserConsents returns the pending aggregate, from the projection when cached.
func (m *Manager) UserConsents(ctx context.Context, address string) (models.UserConsentsData, error) {
	if address == "" {
		return models.UserConsentsData{}, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if data, ok := m.projection.Aggregate(address); ok {
		return data, nil
	}
	return m.fetchAggregate(ctx, address)
}

func (m *Manager) fetchAggregate(ctx context.Context, address string) (models.UserConsentsData, error) {
	data, err := m.client.UserConsents(ctx, address)
	if err != nil {
		return models.UserConsentsData{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.UserConsentsData{}, dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled")
	}
	m.projection.SetAggregate(address, *data)
	return *data, nil
}

// ListConsents fetches one direction and reconciles its pending count against
// the cached aggregate.
func (m *Manager) ListConsents(ctx context.Context, address string, direction models.Direction) ([]models.Consent, error) {
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	list, err := m.client.ListConsents(ctx, address, direction)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled")
	}
	m.projection.SetList(address, direction, list)

	if agg, ok := m.projection.Aggregate(address); ok {
		m.reconcile(ctx, address, direction, list, agg)
	}
	return list, nil
}

// reconcile refetches the aggregate when its counter disagrees with the list.
func (m *Manager) reconcile(ctx context.Context, address string, direction models.Direction, list []models.Consent, agg models.UserConsentsData) {
	pending := models.CountPending(list)
	if pending == agg.Pending(direction) {
		return
	}
	m.logger.DebugContext(ctx, "pending count disagrees with aggregate",
		"address", address,
		"direction", direction,
		"listed", pending,
		"cached", agg.Pending(direction),
	)
	m.metrics.IncConsentReconcile(string(direction))
	m.projection.InvalidateAggregate(address)
	if _, err := m.fetchAggregate(ctx, address); err != nil {
		m.logger.WarnContext(ctx, "failed to refetch consent aggregate", "address", address, "error", err)
	}
}

// Overview is everything cached for one address.
type Overview struct {
	Aggregate models.UserConsentsData `json:"aggregate"`
	Incoming  []models.Consent        `json:"incoming"`
	Outgoing  []models.Consent        `json:"outgoing"`
}

// RefreshAll refetches the aggregate and both lists concurrently. Nothing is
// cached unless all three succeed.
func (m *Manager) RefreshAll(ctx context.Context, address string) (*Overview, error) {
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	var (
		out Overview
		agg *models.UserConsentsData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agg, err = m.client.UserConsents(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		out.Incoming, err = m.client.ListConsents(gctx, address, models.Incoming)
		return err
	})
	g.Go(func() error {
		var err error
		out.Outgoing, err = m.client.ListConsents(gctx, address, models.Outgoing)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled")
	}

	m.projection.SetList(address, models.Incoming, out.Incoming)
	m.projection.SetList(address, models.Outgoing, out.Outgoing)
	m.projection.SetAggregate(address, *agg)
	m.reconcile(ctx, address, models.Incoming, out.Incoming, *agg)
	if cur, ok := m.projection.Aggregate(address); ok {
		m.reconcile(ctx, address, models.Outgoing, out.Outgoing, cur)
	}
	out.Aggregate, _ = m.projection.Aggregate(address)
	return &out, nil
}

// CurrentConsent returns the consent the user last opened.
func (m *Manager) CurrentConsent(ctx context.Context) (*models.Consent, bool) {
	c, ok := storage.ReadJSON[models.Consent](ctx, m.kv, KeyCurrentConsent, m.logger)
	if !ok {
		return nil, false
	}
	return &c, true
}

// SetCurrentConsent persists c; nil clears it.
func (m *Manager) SetCurrentConsent(ctx context.Context, c *models.Consent) error {
	if c == nil {
		return m.kv.Remove(ctx, KeyCurrentConsent)
	}
	return storage.WriteJSON(ctx, m.kv, KeyCurrentConsent, c)
}
