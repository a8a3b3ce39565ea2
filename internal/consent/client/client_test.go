package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"marketaccess/internal/consent/models"
	"marketaccess/internal/ethsig"
	"marketaccess/internal/platform/logger"
	"marketaccess/internal/storage"
	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/sentinel"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

type ClientSuite struct {
	suite.Suite
	ctx       context.Context
	kv        *storage.Memory
	signer    *ethsig.KeySigner
	now       time.Time
	logins    atomic.Int32
	nonceGate chan struct{}
	tokenTTL  time.Duration
	valid     sync.Map // token -> struct{}
	mux       *http.ServeMux
	server    *httptest.Server
	auth      *WalletAuth
	client    *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = storage.NewMemory()
	var err error
	s.signer, err = ethsig.NewKeySigner(testKey)
	s.Require().NoError(err)
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.logins.Store(0)
	s.nonceGate = nil
	s.tokenTTL = time.Hour
	s.valid = sync.Map{}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /auth/wallet/nonce", s.handleNonce)
	s.mux.HandleFunc("POST /auth/wallet/verify", s.handleVerify)
	s.server = httptest.NewServer(s.mux)

	s.auth = NewWalletAuth(s.server.URL, s.kv, s.signer, 137,
		WithAuthLogger(logger.Discard()),
		WithAuthClock(func() time.Time { return s.now }),
	)
	s.client = New(s.server.URL, 5*time.Second, s.auth, WithLogger(logger.Discard()))
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) handleNonce(w http.ResponseWriter, r *http.Request) {
	s.logins.Add(1)
	if s.nonceGate != nil {
		<-s.nonceGate
	}
	s.Equal(s.signer.Address().Hex(), r.URL.Query().Get("address"))
	s.Equal("137", r.URL.Query().Get("chain_id"))
	_, _ = w.Write([]byte(`{"nonce":"nonce-123"}`))
}

func (s *ClientSuite) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
	sig, err := hexutil.Decode(req.Signature)
	s.Require().NoError(err)
	addr, err := ethsig.RecoverAddress([]byte(req.Nonce), sig)
	s.Require().NoError(err)
	if addr != s.signer.Address() {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	token := s.issue(s.now.Add(s.tokenTTL))
	s.valid.Store(token, struct{}{})
	_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (s *ClientSuite) issue(exp time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   s.signer.Address().Hex(),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        time.Now().Format(time.RFC3339Nano),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	s.Require().NoError(err)
	return token
}

func (s *ClientSuite) authorized(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	_, ok := s.valid.Load(token)
	return ok
}

func (s *ClientSuite) TestLoginOnceAndReuseToken() {
	s.mux.HandleFunc("GET /users/{address}/", func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"incoming_pending_consents":3,"outgoing_pending_consents":1}`))
	})

	for range 3 {
		data, err := s.client.UserConsents(s.ctx, "0xowner")
		s.Require().NoError(err)
		s.Equal(&models.UserConsentsData{IncomingPendingConsents: 3, OutgoingPendingConsents: 1}, data)
	}
	s.Equal(int32(1), s.logins.Load())

	stored, ok, _ := s.kv.Get(s.ctx, TokenKey(s.signer.Address().Hex()))
	s.True(ok)
	s.NotEmpty(stored)
}

func (s *ClientSuite) TestExpiredTokenIsRenewedBeforeUse() {
	s.Require().NoError(s.kv.Set(s.ctx, TokenKey(s.signer.Address().Hex()), s.issue(s.now.Add(-time.Minute))))

	token, err := s.auth.Token(s.ctx)
	s.Require().NoError(err)
	s.Equal(int32(1), s.logins.Load())
	_, known := s.valid.Load(token)
	s.True(known)
}

func (s *ClientSuite) TestUnauthorizedRetriesOnceAfterReauth() {
	var calls atomic.Int32
	s.mux.HandleFunc("DELETE /consents/{id}/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !s.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.Equal("42", r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	// A token the backend no longer accepts but which has not expired locally.
	s.Require().NoError(s.kv.Set(s.ctx, TokenKey(s.signer.Address().Hex()), s.issue(s.now.Add(time.Hour))))

	s.Require().NoError(s.client.DeleteConsent(s.ctx, 42))
	s.Equal(int32(2), calls.Load())
	s.Equal(int32(1), s.logins.Load())
}

func (s *ClientSuite) TestPersistentUnauthorizedDoesNotLoop() {
	var calls atomic.Int32
	s.mux.HandleFunc("DELETE /consents/{id}/response/", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := s.client.DeleteConsentResponse(s.ctx, 7)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal(int32(2), calls.Load())
}

func (s *ClientSuite) TestConcurrentRefreshesShareOneLogin() {
	s.nonceGate = make(chan struct{})
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.auth.Refresh(s.ctx)
			s.NoError(err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(s.nonceGate)
	wg.Wait()
	s.Equal(int32(1), s.logins.Load())
}

func (s *ClientSuite) TestSharedLoginSurvivesFirstCallerCancelling() {
	s.nonceGate = make(chan struct{})
	first, cancel := context.WithCancel(s.ctx)

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.auth.Refresh(first)
		firstErr <- err
	}()
	s.Eventually(func() bool { return s.logins.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		token string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		token, err := s.auth.Refresh(s.ctx)
		second <- result{token, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	s.True(dErrors.HasCode(<-firstErr, dErrors.CodeTimeout))

	close(s.nonceGate)
	res := <-second
	s.Require().NoError(res.err)
	_, known := s.valid.Load(res.token)
	s.True(known)
	s.Equal(int32(1), s.logins.Load())
}

func (s *ClientSuite) TestListAndRespond() {
	s.mux.HandleFunc("GET /users/{address}/incoming/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":42,"dataset":"did:op:d","algorithm":"did:op:a","status":"Pending","request":{"trusted_algorithm":true}}]`))
	})
	s.mux.HandleFunc("POST /consents/{id}/response/", func(w http.ResponseWriter, r *http.Request) {
		var req models.ResponseRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.True(req.Permitted.TrustedAlgorithm)
		_, _ = w.Write([]byte(`{"consent":42,"status":"Granted","reason":"ok","permitted":{"trusted_algorithm":true}}`))
	})
	s.mux.HandleFunc("GET /users/{address}/outgoing/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	})

	list, err := s.client.ListConsents(s.ctx, "0xowner", models.Incoming)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(models.Incoming, list[0].Direction)
	s.True(models.IsPending(list[0]))

	resp, err := s.client.CreateConsentResponse(s.ctx, 42, models.ResponseRequest{Reason: "ok", Permitted: models.PossibleRequests{TrustedAlgorithm: true}})
	s.Require().NoError(err)
	s.Equal(models.StatusGranted, resp.Status)

	_, err = s.client.ListConsents(s.ctx, "0xowner", models.Outgoing)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	de, _ := dErrors.As(err)
	s.Equal("Not found.", de.Message)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
