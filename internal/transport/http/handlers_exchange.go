package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketaccess/internal/exchange"
	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/httputil"
	"marketaccess/pkg/requestcontext"
)

type startRequest struct {
	AssetID         string `json:"assetId"`
	ServiceID       string `json:"serviceId"`
	ConsumerAddress string `json:"consumerAddress"`
	SkipCheck       bool   `json:"skipCheck"`
}

func (r *startRequest) Validate() error {
	if r.AssetID == "" || r.ServiceID == "" || r.ConsumerAddress == "" {
		return dErrors.New(dErrors.CodeValidation, "assetId, serviceId and consumerAddress are required")
	}
	return nil
}

type selectDIDRequest struct {
	DID string `json:"did"`
}

func (r *selectDIDRequest) Validate() error {
	if r.DID == "" {
		return dErrors.New(dErrors.CodeValidation, "did is required")
	}
	return nil
}

type submitRequest struct {
	CredentialIDs []string `json:"credentialIds"`
}

func (r *submitRequest) Validate() error {
	if len(r.CredentialIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "select at least one credential")
	}
	return nil
}

// ExchangeHandler exposes the credential exchange driver.
type ExchangeHandler struct {
	exchange Exchange
	logger   *slog.Logger
}

func NewExchangeHandler(ex Exchange, logger *slog.Logger) *ExchangeHandler {
	return &ExchangeHandler{exchange: ex, logger: logger}
}

func (h *ExchangeHandler) Register(r chi.Router) {
	r.Get("/exchange", h.HandleSnapshot)
	r.Post("/exchange/start", h.HandleStart)
	r.Post("/exchange/select-did", h.HandleSelectDID)
	r.Post("/exchange/submit", h.HandleSubmit)
	r.Post("/exchange/cancel", h.HandleCancel)
}

func (h *ExchangeHandler) HandleSnapshot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.exchange.Snapshot())
}

func (h *ExchangeHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[startRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	snap, err := h.exchange.Start(ctx, exchange.StartRequest{
		AssetID:         req.AssetID,
		ServiceID:       req.ServiceID,
		ConsumerAddress: req.ConsumerAddress,
		SkipCheck:       req.SkipCheck,
	})
	h.respond(w, r, "start", snap, err)
}

func (h *ExchangeHandler) HandleSelectDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[selectDIDRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	snap, err := h.exchange.SelectDID(ctx, req.DID)
	h.respond(w, r, "select_did", snap, err)
}

func (h *ExchangeHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[submitRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	snap, err := h.exchange.Submit(ctx, req.CredentialIDs)
	h.respond(w, r, "submit", snap, err)
}

func (h *ExchangeHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.exchange.Cancel(r.Context()))
}

func (h *ExchangeHandler) respond(w http.ResponseWriter, r *http.Request, op string, snap exchange.Snapshot, err error) {
	if err != nil {
		h.logger.WarnContext(r.Context(), "exchange step failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"op", op,
			"state", snap.State,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}
