// Package policy talks to the policy server that runs the verifier side of an
// OpenID4VP presentation exchange. Every action goes through one passthrough
// endpoint as a tagged request.
package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"marketaccess/internal/platform/metrics"
	"marketaccess/pkg/platform/circuit"
)

const maxResponseBytes = 4 << 20

// Response is the generic {success, message, httpStatus} reply.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"httpStatus"`
}

// InitiateResult carries the OpenID4VC URL the wallet resolves and the session
// parameters sent to the server.
type InitiateResult struct {
	Success          bool          `json:"success"`
	OpenID4VC        string        `json:"openid4vc"`
	PolicyServerData SessionParams `json:"policyServerData"`
}

type rawResponse struct {
	Success    bool            `json:"success"`
	Message    json.RawMessage `json:"message"`
	HTTPStatus int             `json:"httpStatus"`
}

func (r rawResponse) messageText() string {
	var s string
	if err := json.Unmarshal(r.Message, &s); err == nil {
		return s
	}
	if string(r.Message) == "null" {
		return ""
	}
	return string(r.Message)
}

// Client is safe for concurrent use.
type Client struct {
	endpoint     string
	http         *http.Client
	breaker      *circuit.Breaker
	metrics      *metrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	newSessionID func() string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(pc *Client) { pc.http = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(pc *Client) { pc.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(pc *Client) { pc.metrics = m }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(pc *Client) { pc.breaker = b }
}

// WithSessionIDGenerator replaces the UUID generator used by Initiate.
func WithSessionIDGenerator(fn func() string) Option {
	return func(pc *Client) { pc.newSessionID = fn }
}

// New creates a client for the passthrough endpoint. Calls are bounded by
// timeout.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint:     endpoint,
		http:         &http.Client{Timeout: timeout},
		breaker:      circuit.New("policy-server"),
		logger:       slog.Default(),
		tracer:       otel.Tracer("marketaccess/policy"),
		newSessionID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initiate starts a verifier session for the asset's service. The session id is
// generated here; the redirect URIs are left for the server to fill.
func (c *Client) Initiate(ctx context.Context, documentID, serviceID, consumerAddress string) (*InitiateResult, error) {
	session := SessionParams{SessionID: c.newSessionID()}
	raw, err := c.call(ctx, NewInitiate(documentID, serviceID, consumerAddress, session))
	if err != nil {
		return nil, err
	}
	url := raw.messageText()
	if url == "" {
		return nil, &ProtocolError{Action: ActionInitiate, Message: MsgNoOpenID4VCURL}
	}
	if !raw.Success {
		return nil, &ServerError{Success: false, Message: url, HTTPStatus: raw.HTTPStatus}
	}
	return &InitiateResult{Success: true, OpenID4VC: url, PolicyServerData: session}, nil
}

// CheckSessionID asks whether a cached verifier session is still accepted. An
// unsuccessful answer is returned as a Response, not an error.
func (c *Client) CheckSessionID(ctx context.Context, sessionID string) (*Response, error) {
	data, err := c.Do(ctx, NewCheckSessionID(sessionID))
	if err != nil {
		return nil, err
	}
	raw, ok := decode(data)
	if !ok {
		return nil, &ProtocolError{Action: ActionCheckSessionID, Message: MsgInvalidSessionID}
	}
	return &Response{Success: raw.Success, Message: raw.messageText(), HTTPStatus: raw.HTTPStatus}, nil
}

// GetPD fetches the presentation definition of a session.
func (c *Client) GetPD(ctx context.Context, sessionID string) (json.RawMessage, error) {
	raw, err := c.call(ctx, NewGetPD(sessionID))
	if err != nil {
		return nil, err
	}
	pd := definition(raw.Message)
	if len(pd) == 0 {
		return nil, &ProtocolError{Action: ActionGetPD, Message: MsgNoPresentationDef}
	}
	if !raw.Success {
		return nil, &ServerError{Success: false, Message: raw.messageText(), HTTPStatus: raw.HTTPStatus}
	}
	return pd, nil
}

// PresentationRequest submits a presentation; the acknowledgement is returned
// as sent by the server.
func (c *Client) PresentationRequest(ctx context.Context, params PresentationParams) (json.RawMessage, error) {
	return c.Do(ctx, NewPresentationRequest(params))
}

func (c *Client) Download(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return c.Do(ctx, NewDownload(sessionID))
}

// Passthrough asks the policy server to proxy an arbitrary request.
func (c *Client) Passthrough(ctx context.Context, url, httpMethod string, body json.RawMessage) (json.RawMessage, error) {
	return c.Do(ctx, NewPassthrough(url, httpMethod, body))
}

func (c *Client) call(ctx context.Context, req Request) (rawResponse, error) {
	data, err := c.Do(ctx, req)
	if err != nil {
		return rawResponse{}, err
	}
	raw, _ := decode(data)
	return raw, nil
}

func decode(data []byte) (rawResponse, bool) {
	var raw rawResponse
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == `""` {
		return raw, false
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return raw, false
	}
	return raw, true
}

// definition unwraps a presentation definition that may arrive as an object or
// as a JSON-encoded string.
func definition(msg json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return trimmed
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return trimmed
}

// Do sends req and returns the raw response body. Structured error payloads
// come back as *ServerError; anything else is the transport error.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	action := string(req.Action())
	ctx, span := c.tracer.Start(ctx, "policy."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("policy.action", action)),
	)
	defer span.End()

	start := time.Now()
	data, outcome, err := c.do(ctx, req)
	c.metrics.ObservePolicyCall(action, outcome, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, req Request) (json.RawMessage, string, error) {
	if !c.breaker.Allow() {
		return nil, "circuit_open", ErrCircuitOpen
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, "encode_error", fmt.Errorf("encode %s request: %w", req.Action(), err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, "encode_error", fmt.Errorf("build %s request: %w", req.Action(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.recordFailure(ctx)
		return nil, "transport_error", fmt.Errorf("policy server %s: %w", req.Action(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.recordFailure(ctx)
		return nil, "transport_error", fmt.Errorf("read %s response: %w", req.Action(), err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(ctx)
	} else if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "policy server circuit closed", "breaker", c.breaker.Name())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if se := serverError(data, resp.StatusCode); se != nil {
			return nil, "server_error", se
		}
		return nil, "http_error", fmt.Errorf("policy server %s: %w", req.Action(), &StatusError{StatusCode: resp.StatusCode, Body: truncate(data)})
	}
	return data, "ok", nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "policy server circuit opened", "breaker", c.breaker.Name())
	}
}

func serverError(data []byte, status int) *ServerError {
	var se ServerError
	if err := json.Unmarshal(data, &se); err != nil {
		return nil
	}
	if se.Message == "" && se.HTTPStatus == 0 {
		return nil
	}
	if se.HTTPStatus == 0 {
		se.HTTPStatus = status
	}
	return &se
}

// StatusError is a non-2xx reply without a structured payload.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func truncate(data []byte) string {
	const limit = 256
	if len(data) > limit {
		return string(data[:limit])
	}
	return string(data)
}

// AsServerError extracts a structured policy-server error from err.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
