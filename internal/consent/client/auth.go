package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"marketaccess/internal/ethsig"
	"marketaccess/internal/storage"
	dErrors "marketaccess/pkg/domain-errors"
)

// expirySkew renews tokens slightly before they lapse.
const expirySkew = 30 * time.Second

// loginTimeout bounds a shared login once it no longer follows a caller's ctx.
const loginTimeout = 30 * time.Second

// TokenKey is where the backend JWT for address is persisted.
func TokenKey(address string) string {
	return "consentsAuthToken_" + strings.ToLower(address)
}

// WalletAuth obtains backend tokens by signing a server nonce with the wallet
// key: GET /auth/wallet/nonce, personal_sign, POST /auth/wallet/verify.
type WalletAuth struct {
	baseURL string
	http    *http.Client
	kv      storage.KV
	signer  ethsig.Signer
	chainID int64
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

type AuthOption func(*WalletAuth)

func WithAuthLogger(logger *slog.Logger) AuthOption {
	return func(a *WalletAuth) { a.logger = logger }
}

func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *WalletAuth) { a.now = now }
}

func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(a *WalletAuth) { a.http = c }
}

func NewWalletAuth(baseURL string, kv storage.KV, signer ethsig.Signer, chainID int64, opts ...AuthOption) *WalletAuth {
	a := &WalletAuth{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		kv:      kv,
		signer:  signer,
		chainID: chainID,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *WalletAuth) address() string {
	return a.signer.Address().Hex()
}

// Token returns the persisted token while it is unexpired, logging in otherwise.
func (a *WalletAuth) Token(ctx context.Context) (string, error) {
	raw, ok, err := a.kv.Get(ctx, TokenKey(a.address()))
	if err != nil {
		a.logger.DebugContext(ctx, "consents token read failed", "error", err)
	}
	if ok && raw != "" && !a.expired(raw) {
		return raw, nil
	}
	return a.Refresh(ctx)
}

// Refresh logs in again. Concurrent refreshes share one login, which runs
// detached from any single caller so one caller giving up does not fail the
// others; each caller still stops waiting when its own ctx is done.
func (a *WalletAuth) Refresh(ctx context.Context) (string, error) {
	ch := a.group.DoChan(a.address(), func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loginTimeout)
		defer cancel()
		return a.login(lctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "consents login aborted")
	}
}

// expired reads the exp claim without verifying the token; the backend
// verifies. Opaque tokens are assumed valid until the backend says otherwise.
func (a *WalletAuth) expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !a.now().Add(expirySkew).Before(claims.ExpiresAt.Time)
}

type nonceResponse struct {
	Nonce string `json:"nonce"`
}

type verifyRequest struct {
	Address   string `json:"address"`
	ChainID   int64  `json:"chain_id"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	Token  string `json:"token"`
	Access string `json:"access"`
}

func (a *WalletAuth) login(ctx context.Context) (string, error) {
	address := a.address()
	q := url.Values{}
	q.Set("address", address)
	q.Set("chain_id", strconv.FormatInt(a.chainID, 10))

	var nonce nonceResponse
	if err := a.call(ctx, http.MethodGet, "/auth/wallet/nonce?"+q.Encode(), nil, &nonce); err != nil {
		return "", err
	}
	if nonce.Nonce == "" {
		return "", dErrors.New(dErrors.CodeUpstream, "consents backend returned no nonce")
	}

	sig, err := a.signer.SignMessage(ctx, []byte(nonce.Nonce))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign login nonce")
	}

	var verified verifyResponse
	req := verifyRequest{Address: address, ChainID: a.chainID, Nonce: nonce.Nonce, Signature: hexutil.Encode(sig)}
	if err := a.call(ctx, http.MethodPost, "/auth/wallet/verify", req, &verified); err != nil {
		return "", err
	}
	token := verified.Token
	if token == "" {
		token = verified.Access
	}
	if token == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "consents backend rejected the wallet signature")
	}

	if err := a.kv.Set(ctx, TokenKey(address), token); err != nil {
		a.logger.WarnContext(ctx, "failed to persist consents token", "error", err)
	}
	a.logger.InfoContext(ctx, "authenticated with consents backend", "address", address)
	return token, nil
}

func (a *WalletAuth) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode auth request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("consents auth %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, data, "consents authentication failed")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "malformed consents auth response")
	}
	return nil
}
