package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"marketaccess/internal/policy"
	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/httputil"
	"marketaccess/pkg/requestcontext"
)

type presentationRequest struct {
	policy.PresentationParams
}

func (r *presentationRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" || len(r.VPToken) == 0 {
		return dErrors.New(dErrors.CodeValidation, "sessionId and vp_token are required")
	}
	return nil
}

type downloadRequest struct {
	SessionID string `json:"sessionId"`
}

func (r *downloadRequest) Validate() error {
	if r.SessionID == "" {
		return dErrors.New(dErrors.CodeValidation, "sessionId is required")
	}
	return nil
}

var passthroughMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

type passthroughRequest struct {
	URL        string          `json:"url"`
	HTTPMethod string          `json:"httpMethod"`
	Body       json.RawMessage `json:"body,omitempty"`
}

func (r *passthroughRequest) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dErrors.New(dErrors.CodeValidation, "url must be an absolute http(s) url")
	}
	r.HTTPMethod = strings.ToUpper(r.HTTPMethod)
	if !slices.Contains(passthroughMethods, r.HTTPMethod) {
		return dErrors.New(dErrors.CodeValidation, "unsupported httpMethod")
	}
	return nil
}

// PolicyHandler forwards presentation, download and passthrough actions to the
// policy server.
type PolicyHandler struct {
	policy Policy
	logger *slog.Logger
}

func NewPolicyHandler(p Policy, logger *slog.Logger) *PolicyHandler {
	return &PolicyHandler{policy: p, logger: logger}
}

func (h *PolicyHandler) Register(r chi.Router) {
	r.Post("/policy/presentation", h.HandlePresentation)
	r.Post("/policy/download", h.HandleDownload)
	r.Post("/policy/passthrough", h.HandlePassthrough)
}

func (h *PolicyHandler) HandlePresentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[presentationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	data, err := h.policy.PresentationRequest(ctx, req.PresentationParams)
	h.respond(w, r, policy.ActionPresentationRequest, data, err)
}

func (h *PolicyHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[downloadRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	data, err := h.policy.Download(ctx, req.SessionID)
	h.respond(w, r, policy.ActionDownload, data, err)
}

func (h *PolicyHandler) HandlePassthrough(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[passthroughRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	data, err := h.policy.Passthrough(ctx, req.URL, req.HTTPMethod, req.Body)
	h.respond(w, r, policy.ActionPassthrough, data, err)
}

// respond relays the server's payload. A structured server error is relayed
// as received, with the status it names.
func (h *PolicyHandler) respond(w http.ResponseWriter, r *http.Request, action policy.Action, data json.RawMessage, err error) {
	if err == nil {
		if len(data) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, data)
		return
	}
	h.logger.WarnContext(r.Context(), "policy action failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"action", action,
		"error", err,
	)
	if se, ok := policy.AsServerError(err); ok {
		status := se.HTTPStatus
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		httputil.WriteJSON(w, status, se)
		return
	}
	if errors.Is(err, policy.ErrCircuitOpen) {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "policy server unavailable"))
		return
	}
	if _, ok := dErrors.As(err); !ok {
		err = dErrors.Wrap(err, dErrors.CodeUpstream, "policy server request failed")
	}
	httputil.WriteError(w, err)
}
