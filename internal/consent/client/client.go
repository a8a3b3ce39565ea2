// Package client talks to the consents backend REST API.
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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"marketaccess/internal/consent/models"
	"marketaccess/internal/platform/metrics"
	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/sentinel"
)

const maxResponseBytes = 4 << 20

// TokenSource supplies bearer tokens and renews them after a 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cc *Client) { cc.http = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cc *Client) { cc.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cc *Client) { cc.metrics = m }
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  slog.Default(),
		tracer:  otel.Tracer("marketaccess/consents"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateConsent(ctx context.Context, req models.CreateConsentRequest) (*models.Consent, error) {
	var out models.Consent
	if err := c.do(ctx, "create_consent", http.MethodPost, "/consents/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserConsents(ctx context.Context, address string) (*models.UserConsentsData, error) {
	var out models.UserConsentsData
	if err := c.do(ctx, "user_consents", http.MethodGet, "/users/"+url.PathEscape(address)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListConsents(ctx context.Context, address string, direction models.Direction) ([]models.Consent, error) {
	var out []models.Consent
	path := "/users/" + url.PathEscape(address) + "/" + direction.Path() + "/"
	if err := c.do(ctx, "list_"+direction.Path(), http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Direction == "" {
			out[i].Direction = direction
		}
	}
	return out, nil
}

func (c *Client) CreateConsentResponse(ctx context.Context, consentID int64, req models.ResponseRequest) (*models.Response, error) {
	var out models.Response
	if err := c.do(ctx, "create_response", http.MethodPost, consentPath(consentID)+"response/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConsentResponse(ctx context.Context, consentID int64) error {
	return c.do(ctx, "delete_response", http.MethodDelete, consentPath(consentID)+"response/", nil, nil)
}

func (c *Client) DeleteConsent(ctx context.Context, consentID int64) error {
	return c.do(ctx, "delete_consent", http.MethodDelete, consentPath(consentID), nil, nil)
}

func consentPath(id int64) string {
	return "/consents/" + strconv.FormatInt(id, 10) + "/"
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "consents."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)),
	)
	defer span.End()

	start := time.Now()
	err := c.doAuthorized(ctx, method, path, in, out)
	c.metrics.ObserveConsentsCall(op, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	return err
}

// doAuthorized sends the request with the current token. A 401 renews the
// token once and repeats the request.
func (c *Client) doAuthorized(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode consents request: %w", err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	status, data, err := c.send(ctx, method, path, token, payload)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		c.logger.InfoContext(ctx, "consents token rejected, re-authenticating", "path", path)
		if token, err = c.tokens.Refresh(ctx); err != nil {
			return err
		}
		if status, data, err = c.send(ctx, method, path, token, payload); err != nil {
			return err
		}
	}
	if status >= http.StatusBadRequest {
		return statusError(status, data, "consents request failed")
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "malformed consents response")
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path, token string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build consents request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("consents %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read consents response: %w", err)
	}
	return resp.StatusCode, data, nil
}

type backendError struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func statusError(status int, data []byte, fallback string) error {
	msg := fallback
	var be backendError
	if json.Unmarshal(data, &be) == nil {
		if be.Detail != "" {
			msg = be.Detail
		} else if be.Error != "" {
			msg = be.Error
		}
	}
	cause := fmt.Errorf("status %d: %w", status, sentinelFor(status))
	switch {
	case status == http.StatusUnauthorized:
		return dErrors.Wrap(cause, dErrors.CodeUnauthorized, msg)
	case status == http.StatusForbidden:
		return dErrors.Wrap(cause, dErrors.CodeForbidden, msg)
	case status == http.StatusNotFound:
		return dErrors.Wrap(cause, dErrors.CodeNotFound, msg)
	case status == http.StatusConflict:
		return dErrors.Wrap(cause, dErrors.CodeConflict, msg)
	case status < http.StatusInternalServerError:
		return dErrors.Wrap(cause, dErrors.CodeBadRequest, msg)
	default:
		return dErrors.Wrap(cause, dErrors.CodeUpstream, msg)
	}
}

func sentinelFor(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case status == http.StatusNotFound:
		return sentinel.ErrNotFound
	case status == http.StatusConflict:
		return sentinel.ErrConflict
	case status >= http.StatusInternalServerError:
		return sentinel.ErrUnavailable
	default:
		return sentinel.ErrInvalidState
	}
}
