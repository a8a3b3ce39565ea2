// Package wallet is a client for the SSI wallet service that holds the user's
// keys, DIDs and verifiable credentials.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketaccess/internal/credential"
	"marketaccess/internal/session"
	dErrors "marketaccess/pkg/domain-errors"
)

const maxResponseBytes = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(wc *Client) { wc.http = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(wc *Client) { wc.logger = logger }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates with email and password and returns a valid session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Token, error) {
	var out loginResponse
	req := loginRequest{Type: "email", Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/wallet-api/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "wallet login returned no token")
	}
	return &session.Token{SessionID: out.ID, Status: session.StatusValid, Token: out.Token}, nil
}

func (c *Client) Wallets(ctx context.Context, token string) ([]Wallet, error) {
	var out walletsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/wallet-api/wallet/accounts/wallets", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Wallets, nil
}

func (c *Client) DIDs(ctx context.Context, token, walletID string) ([]DID, error) {
	var out []DID
	if err := c.doJSON(ctx, http.MethodGet, c.walletPath(walletID, "dids"), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolvePresentationRequest turns an openid4vc URL into the full presentation
// request the wallet will answer.
func (c *Client) ResolvePresentationRequest(ctx context.Context, token, walletID, request string) (string, error) {
	data, err := c.do(ctx, http.MethodPost, c.walletPath(walletID, "exchange/resolvePresentationRequest"), token, "text/plain", strings.NewReader(request))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// MatchCredentials returns the wallet's credentials satisfying a presentation
// definition.
func (c *Client) MatchCredentials(ctx context.Context, token, walletID string, definition json.RawMessage) ([]credential.Credential, error) {
	var out []credential.Credential
	path := c.walletPath(walletID, "exchange/matchCredentialsForPresentationDefinition")
	if err := c.doJSON(ctx, http.MethodPost, path, token, definition, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UsePresentationRequest presents the selected credentials to the verifier.
func (c *Client) UsePresentationRequest(ctx context.Context, token, walletID string, params UsePresentationParams) (*UseResult, error) {
	var out UseResult
	if err := c.doJSON(ctx, http.MethodPost, c.walletPath(walletID, "exchange/usePresentationRequest"), token, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) walletPath(walletID, suffix string) string {
	return "/wallet-api/wallet/" + url.PathEscape(walletID) + "/" + suffix
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode wallet request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	data, err := c.do(ctx, method, path, token, "application/json", body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "malformed wallet response")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build wallet request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read wallet response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, dErrors.New(dErrors.CodeSessionExpired, "Session expired")
	case resp.StatusCode >= http.StatusBadRequest:
		c.logger.WarnContext(ctx, "wallet request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, dErrors.Wrap(fmt.Errorf("status %d: %s", resp.StatusCode, data), dErrors.CodeUpstream, "wallet request failed")
	}
	return data, nil
}
