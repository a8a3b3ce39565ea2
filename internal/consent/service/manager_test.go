package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"marketaccess/internal/consent/applier"
	"marketaccess/internal/consent/cache"
	"marketaccess/internal/consent/models"
	"marketaccess/internal/consent/service/mocks"
	"marketaccess/internal/events"
	"marketaccess/internal/platform/logger"
	"marketaccess/internal/platform/metrics"
	"marketaccess/internal/storage"
	dErrors "marketaccess/pkg/domain-errors"
)

//go:generate mockgen -source=manager.go -destination=mocks/mocks.go -package=mocks

const owner = "0xowner"

type ManagerSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	client     *mocks.MockConsentsClient
	applier    *mocks.MockApplier
	publisher  *mocks.MockPublisher
	projection *cache.Projection
	metrics    *metrics.Metrics
	now        time.Time
	manager    *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.client = mocks.NewMockConsentsClient(s.ctrl)
	s.applier = mocks.NewMockApplier(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.projection = cache.New()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.manager = New(s.client, s.projection, s.applier, s.publisher, storage.NewMemory(),
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ManagerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ManagerSuite) seed() {
	s.projection.SetAggregate(owner, models.UserConsentsData{IncomingPendingConsents: 2, OutgoingPendingConsents: 1})
	s.projection.SetList(owner, models.Incoming, []models.Consent{
		{ID: 42, Dataset: "did:op:data", Algorithm: "did:op:algo", Status: models.StatusPending, Direction: models.Incoming},
		{ID: 43, Status: models.StatusPending, Direction: models.Incoming},
		{ID: 44, Status: models.StatusDenied, Direction: models.Incoming},
	})
	s.projection.SetList(owner, models.Outgoing, []models.Consent{
		{ID: 7, Status: models.StatusPending, Direction: models.Outgoing},
	})
}

var grant = models.PossibleRequests{TrustedAlgorithm: true}

type projectionState struct {
	aggregate          models.UserConsentsData
	hasAggregate       bool
	incoming, outgoing []models.Consent
}

func (s *ManagerSuite) state() projectionState {
	var st projectionState
	st.aggregate, st.hasAggregate = s.projection.Aggregate(owner)
	st.incoming, _ = s.projection.List(owner, models.Incoming)
	st.outgoing, _ = s.projection.List(owner, models.Outgoing)
	return st
}

func (s *ManagerSuite) TestResponseDecrementsIncomingCounter() {
	s.seed()
	s.client.EXPECT().
		CreateConsentResponse(gomock.Any(), int64(42), models.ResponseRequest{Reason: "ok", Permitted: grant}).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted, Permitted: grant}, nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req applier.ApplyRequest) error {
			s.Equal("did:op:data", req.Consent.Dataset)
			s.Equal(grant, req.Permitted)
			s.Equal(models.StatusGranted, req.Consent.Status)
			s.Require().NotNil(req.Consent.Response)
			s.Equal(int64(42), req.Consent.Response.Consent)
			return nil
		})

	resp, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.Require().NoError(err)
	s.Equal(models.StatusGranted, resp.Status)

	agg, _ := s.projection.Aggregate(owner)
	s.Equal(1, agg.IncomingPendingConsents)
	s.Equal(1, agg.OutgoingPendingConsents)
	list, _ := s.projection.List(owner, models.Incoming)
	s.Equal(models.StatusGranted, list[0].Status)
	s.Require().NotNil(list[0].Response)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ConsentResponses.WithLabelValues("Granted")))
}

func (s *ManagerSuite) TestApplierFailureRevertsWithWarning() {
	s.seed()
	before := s.state()
	beforeList, _ := s.projection.List(owner, models.Incoming)

	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errors.New("execution reverted"))
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(42)).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), events.TopicNotifications, events.Notification{
		Level:     events.LevelWarning,
		Message:   MsgTransactionReverted,
		ConsentID: "42",
		At:        s.now,
	}).Return(nil)

	_, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.Require().Error(err)

	s.Equal(before, s.state())
	afterList, _ := s.projection.List(owner, models.Incoming)
	s.Equal(beforeList, afterList)
	agg, _ := s.projection.Aggregate(owner)
	s.Equal(2, agg.IncomingPendingConsents)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ConsentReverts))
}

func (s *ManagerSuite) TestRevertKeepsConcurrentDelete() {
	s.seed()
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil)
	s.client.EXPECT().DeleteConsent(gomock.Any(), int64(43)).Return(nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ applier.ApplyRequest) error {
			s.Require().NoError(s.manager.DeleteConsent(ctx, 43))
			return errors.New("execution reverted")
		})
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(42)).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), events.TopicNotifications, gomock.Any()).Return(nil)

	_, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.Require().Error(err)

	list, _ := s.projection.List(owner, models.Incoming)
	ids := make([]int64, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	s.Equal([]int64{42, 44}, ids)
	s.Equal(models.StatusPending, list[0].Status)
	s.Nil(list[0].Response)
	agg, _ := s.projection.Aggregate(owner)
	s.Equal(1, agg.IncomingPendingConsents)
}

func (s *ManagerSuite) TestRevertInvalidatesAggregateWhenEntryWasDropped() {
	s.seed()
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, applier.ApplyRequest) error {
			s.projection.SetList(owner, models.Incoming, nil)
			return errors.New("execution reverted")
		})
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(42)).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), events.TopicNotifications, gomock.Any()).Return(nil)

	_, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.Require().Error(err)
	_, ok := s.projection.Aggregate(owner)
	s.False(ok)
}

func (s *ManagerSuite) TestRevertRestoresEvenWhenBackendDeleteFails() {
	s.seed()
	before := s.state()
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errors.New("out of gas"))
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(42)).Return(errors.New("backend down"))
	s.publisher.EXPECT().Publish(gomock.Any(), events.TopicNotifications, gomock.Any()).Return(nil)

	_, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.Require().Error(err)
	s.Equal(before, s.state())
}

func (s *ManagerSuite) TestRevertSurvivesCancelledCaller() {
	s.seed()
	ctx, cancel := context.WithCancel(s.ctx)
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ applier.ApplyRequest) error {
			cancel()
			return ctx.Err()
		})
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(42)).DoAndReturn(
		func(ctx context.Context, _ int64) error {
			return ctx.Err()
		})
	s.publisher.EXPECT().Publish(gomock.Any(), events.TopicNotifications, gomock.Any()).Return(nil)

	_, err := s.manager.CreateConsentResponse(ctx, 42, "ok", grant, nil)
	s.Require().Error(err)
	agg, _ := s.projection.Aggregate(owner)
	s.Equal(2, agg.IncomingPendingConsents)
}

func (s *ManagerSuite) TestBackendFailureLeavesProjectionUntouched() {
	s.seed()
	before := s.state()
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUpstream, "boom"))

	_, err := s.manager.CreateConsentResponse(s.ctx, 42, "ok", grant, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	s.Equal(before, s.state())
}

func (s *ManagerSuite) TestResponseRequiresCachedPendingConsent() {
	s.seed()
	_, err := s.manager.CreateConsentResponse(s.ctx, 99, "", grant, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.manager.CreateConsentResponse(s.ctx, 44, "", grant, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	_, err = s.manager.CreateConsentResponse(s.ctx, 7, "", grant, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "outgoing consents cannot be answered")
}

func (s *ManagerSuite) TestConcurrentResponsesToOneConsentSerialize() {
	s.seed()
	s.client.EXPECT().CreateConsentResponse(gomock.Any(), int64(42), gomock.Any()).
		Return(&models.Response{Consent: 42, Status: models.StatusGranted}, nil).Times(1)
	s.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.manager.CreateConsentResponse(s.ctx, 42, "", grant, nil)
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
			failed++
		}
	}
	s.Equal(1, failed)
	agg, _ := s.projection.Aggregate(owner)
	s.Equal(1, agg.IncomingPendingConsents)
}

func (s *ManagerSuite) TestDeleteConsentResponseIncrementsCounter() {
	s.seed()
	s.client.EXPECT().DeleteConsentResponse(gomock.Any(), int64(44)).Return(nil)

	s.Require().NoError(s.manager.DeleteConsentResponse(s.ctx, 44))

	agg, _ := s.projection.Aggregate(owner)
	s.Equal(3, agg.IncomingPendingConsents)
	loc, ok := s.projection.Find(44)
	s.Require().True(ok)
	s.Equal(models.StatusPending, loc.Consent.Status)
	s.Nil(loc.Consent.Response)
}

func (s *ManagerSuite) TestDeleteConsentDecrementsOnlyPending() {
	s.seed()
	s.client.EXPECT().DeleteConsent(gomock.Any(), int64(7)).Return(nil)
	s.client.EXPECT().DeleteConsent(gomock.Any(), int64(44)).Return(nil)

	s.Require().NoError(s.manager.DeleteConsent(s.ctx, 7))
	s.Require().NoError(s.manager.DeleteConsent(s.ctx, 44))

	agg, _ := s.projection.Aggregate(owner)
	s.Equal(models.UserConsentsData{IncomingPendingConsents: 2, OutgoingPendingConsents: 0}, agg)
	_, ok := s.projection.Find(7)
	s.False(ok)
	_, ok = s.projection.Find(44)
	s.False(ok)
}

func (s *ManagerSuite) TestUserConsentsIsCached() {
	s.client.EXPECT().UserConsents(gomock.Any(), owner).
		Return(&models.UserConsentsData{IncomingPendingConsents: 3}, nil).Times(1)

	for range 2 {
		agg, err := s.manager.UserConsents(s.ctx, owner)
		s.Require().NoError(err)
		s.Equal(3, agg.IncomingPendingConsents)
	}
}

func (s *ManagerSuite) TestListReconcilesDriftedAggregate() {
	s.projection.SetAggregate(owner, models.UserConsentsData{IncomingPendingConsents: 5})
	list := []models.Consent{
		{ID: 1, Status: models.StatusPending},
		{ID: 2, Status: models.StatusPending},
		{ID: 3, Status: models.StatusGranted},
	}
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Incoming).Return(list, nil)
	s.client.EXPECT().UserConsents(gomock.Any(), owner).
		Return(&models.UserConsentsData{IncomingPendingConsents: 2}, nil)

	got, err := s.manager.ListConsents(s.ctx, owner, models.Incoming)
	s.Require().NoError(err)
	s.Len(got, 3)

	agg, _ := s.projection.Aggregate(owner)
	s.Equal(2, agg.IncomingPendingConsents)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ConsentReconciles.WithLabelValues("Incoming")))
}

func (s *ManagerSuite) TestListMatchingAggregateIsNotRefetched() {
	s.projection.SetAggregate(owner, models.UserConsentsData{OutgoingPendingConsents: 1})
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Outgoing).
		Return([]models.Consent{{ID: 7, Status: models.StatusPending}}, nil)

	_, err := s.manager.ListConsents(s.ctx, owner, models.Outgoing)
	s.Require().NoError(err)
}

func (s *ManagerSuite) TestCancelledListIsNotCached() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Incoming).DoAndReturn(
		func(context.Context, string, models.Direction) ([]models.Consent, error) {
			cancel()
			return []models.Consent{{ID: 1}}, nil
		})

	_, err := s.manager.ListConsents(ctx, owner, models.Incoming)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	_, ok := s.projection.List(owner, models.Incoming)
	s.False(ok)
}

func (s *ManagerSuite) TestRefreshAll() {
	s.client.EXPECT().UserConsents(gomock.Any(), owner).
		Return(&models.UserConsentsData{IncomingPendingConsents: 1, OutgoingPendingConsents: 0}, nil)
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Incoming).
		Return([]models.Consent{{ID: 1, Status: models.StatusPending}}, nil)
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Outgoing).
		Return([]models.Consent{{ID: 2, Status: models.StatusDenied}}, nil)

	out, err := s.manager.RefreshAll(s.ctx, owner)
	s.Require().NoError(err)
	s.Equal(1, out.Aggregate.IncomingPendingConsents)
	s.Len(out.Incoming, 1)
	s.Len(out.Outgoing, 1)
	_, ok := s.projection.List(owner, models.Outgoing)
	s.True(ok)
}

func (s *ManagerSuite) TestRefreshAllFailureCachesNothing() {
	s.client.EXPECT().UserConsents(gomock.Any(), owner).
		Return(&models.UserConsentsData{}, nil).AnyTimes()
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Incoming).
		Return(nil, dErrors.New(dErrors.CodeUpstream, "boom"))
	s.client.EXPECT().ListConsents(gomock.Any(), owner, models.Outgoing).
		Return(nil, nil).AnyTimes()

	_, err := s.manager.RefreshAll(s.ctx, owner)
	s.Require().Error(err)
	_, ok := s.projection.Aggregate(owner)
	s.False(ok)
}

func (s *ManagerSuite) TestCreateConsentValidates() {
	_, err := s.manager.CreateConsent(s.ctx, models.CreateConsentRequest{Address: owner, Dataset: "d", Algorithm: "a"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	req := models.CreateConsentRequest{Address: owner, Dataset: "d", Algorithm: "a", Request: grant}
	s.projection.SetAggregate(owner, models.UserConsentsData{OutgoingPendingConsents: 4})
	s.client.EXPECT().CreateConsent(gomock.Any(), req).Return(&models.Consent{ID: 9, Status: models.StatusPending}, nil)

	created, err := s.manager.CreateConsent(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(int64(9), created.ID)
	_, ok := s.projection.Aggregate(owner)
	s.False(ok)
}

func (s *ManagerSuite) TestCurrentConsent() {
	_, ok := s.manager.CurrentConsent(s.ctx)
	s.False(ok)

	s.Require().NoError(s.manager.SetCurrentConsent(s.ctx, &models.Consent{ID: 42, Dataset: "d"}))
	got, ok := s.manager.CurrentConsent(s.ctx)
	s.Require().True(ok)
	s.Equal(int64(42), got.ID)

	s.Require().NoError(s.manager.SetCurrentConsent(s.ctx, nil))
	_, ok = s.manager.CurrentConsent(s.ctx)
	s.False(ok)
}
