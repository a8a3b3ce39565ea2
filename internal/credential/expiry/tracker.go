package expiry

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"marketaccess/internal/events"
	"marketaccess/internal/storage"
)

// DefaultTickInterval is how often a running tracker recomputes its status.
const DefaultTickInterval = time.Second

// StorageKey is where the verification timestamp of a pair is persisted.
func StorageKey(assetID, serviceID string) string {
	return "credential_" + assetID + "_" + serviceID
}

type Option func(*settings)

type settings struct {
	bus      *events.Bus
	logger   *slog.Logger
	validity time.Duration
	tick     time.Duration
	now      func() time.Time
}

func WithBus(bus *events.Bus) Option {
	return func(s *settings) { s.bus = bus }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

func WithValidity(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.validity = d
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:   slog.Default(),
		validity: DefaultValidity,
		tick:     DefaultTickInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Tracker owns the verification state of one (asset, service) pair.
type Tracker struct {
	settings
	kv        storage.KV
	assetID   string
	serviceID string
}

func NewTracker(kv storage.KV, assetID, serviceID string, opts ...Option) *Tracker {
	return &Tracker{settings: newSettings(opts), kv: kv, assetID: assetID, serviceID: serviceID}
}

func (t *Tracker) key() string {
	return StorageKey(t.assetID, t.serviceID)
}

// MarkVerified records a successful verification at the current time.
func (t *Tracker) MarkVerified(ctx context.Context) error {
	ts := strconv.FormatInt(t.now().UnixMilli(), 10)
	if err := t.kv.Set(ctx, t.key(), ts); err != nil {
		return err
	}
	t.announce(ctx)
	return nil
}

// Clear forgets the verification.
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.kv.Remove(ctx, t.key()); err != nil {
		return err
	}
	t.announce(ctx)
	return nil
}

func (t *Tracker) announce(ctx context.Context) {
	if t.bus == nil {
		return
	}
	ev := events.CredentialsUpdated{AssetID: t.assetID, ServiceID: t.serviceID}
	if err := t.bus.Publish(ctx, events.TopicCredentialsUpdated, ev); err != nil {
		t.logger.WarnContext(ctx, "failed to publish credential update",
			"asset_id", t.assetID,
			"service_id", t.serviceID,
			"error", err,
		)
	}
}

// Status recomputes the current status from the stored timestamp. A missing or
// unreadable timestamp reads as never verified.
func (t *Tracker) Status(ctx context.Context) Status {
	now := t.now()
	raw, ok, err := t.kv.Get(ctx, t.key())
	if err != nil || !ok {
		return CreateCredentialStatus(false, nil, now, t.validity)
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.logger.DebugContext(ctx, "discarding corrupt verification timestamp", "key", t.key(), "error", err)
		return CreateCredentialStatus(false, nil, now, t.validity)
	}
	verifiedAt := time.UnixMilli(ms)
	return CreateCredentialStatus(true, &verifiedAt, now, t.validity)
}

func ticking(s Status) bool {
	return s.IsValid && s.ExpiresAt != nil
}

// Run reports the status to onChange at start, on every tick while the status is
// valid, and whenever the pair's verification changes in storage or in process.
// It never refreshes anything itself. It returns when ctx is done.
func (t *Tracker) Run(ctx context.Context, onChange func(Status)) error {
	var storageChanges <-chan events.StorageChanged
	var credentialUpdates <-chan events.CredentialsUpdated
	if t.bus != nil {
		var err error
		if storageChanges, err = events.Subscribe[events.StorageChanged](ctx, t.bus, events.TopicStorageChanged); err != nil {
			return err
		}
		if credentialUpdates, err = events.Subscribe[events.CredentialsUpdated](ctx, t.bus, events.TopicCredentialsUpdated); err != nil {
			return err
		}
	}

	var ticker *time.Ticker
	var tickC <-chan time.Time
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stopTicker()

	refresh := func() {
		status := t.Status(ctx)
		onChange(status)
		switch {
		case ticking(status) && ticker == nil:
			ticker = time.NewTicker(t.tick)
			tickC = ticker.C
		case !ticking(status):
			stopTicker()
		}
	}
	refresh()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickC:
			refresh()
		case ev, ok := <-storageChanges:
			if !ok {
				storageChanges = nil
				continue
			}
			if ev.Key == t.key() {
				refresh()
			}
		case ev, ok := <-credentialUpdates:
			if !ok {
				credentialUpdates = nil
				continue
			}
			if ev.AssetID == t.assetID && ev.ServiceID == t.serviceID {
				refresh()
			}
		}
	}
}

// Registry builds trackers for pairs on demand, all sharing the same options.
// A tracker keeps its state in storage, so nothing is retained per pair.
type Registry struct {
	kv   storage.KV
	opts []Option
}

func NewRegistry(kv storage.KV, opts ...Option) *Registry {
	return &Registry{kv: kv, opts: opts}
}

func (r *Registry) For(assetID, serviceID string) *Tracker {
	return NewTracker(r.kv, assetID, serviceID, r.opts...)
}

// MarkVerified records a successful verification for the pair.
func (r *Registry) MarkVerified(ctx context.Context, assetID, serviceID string) error {
	return r.For(assetID, serviceID).MarkVerified(ctx)
}

// Status reports the pair's current status.
func (r *Registry) Status(ctx context.Context, assetID, serviceID string) Status {
	return r.For(assetID, serviceID).Status(ctx)
}

// Watch runs the pair's tracker until ctx is done.
func (r *Registry) Watch(ctx context.Context, assetID, serviceID string, onChange func(Status)) error {
	return r.For(assetID, serviceID).Run(ctx, onChange)
}
