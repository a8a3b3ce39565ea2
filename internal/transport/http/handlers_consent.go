package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"marketaccess/internal/consent/models"
	"marketaccess/internal/ethsig"
	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/httputil"
	"marketaccess/pkg/requestcontext"
)

type createConsentRequest struct {
	Address   string                  `json:"address"`
	ChainID   int64                   `json:"chainId"`
	Dataset   string                  `json:"dataset"`
	Algorithm string                  `json:"algorithm"`
	Request   models.PossibleRequests `json:"request"`
	Reason    string                  `json:"reason"`
}

type respondRequest struct {
	Reason    string                  `json:"reason"`
	Permitted models.PossibleRequests `json:"permitted"`
}

type currentConsentRequest struct {
	Consent *models.Consent `json:"consent"`
}

// ConsentHandler exposes the consent lifecycle. Responses are signed with the
// process's configured key.
type ConsentHandler struct {
	consents Consents
	signer   ethsig.Signer
	logger   *slog.Logger
}

func NewConsentHandler(consents Consents, signer ethsig.Signer, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{consents: consents, signer: signer, logger: logger}
}

func (h *ConsentHandler) Register(r chi.Router) {
	r.Post("/consents", h.HandleCreate)
	r.Get("/consents/current", h.HandleCurrent)
	r.Put("/consents/current", h.HandleSetCurrent)
	r.Get("/consents/{address}", h.HandleAggregate)
	r.Post("/consents/{address}/refresh", h.HandleRefresh)
	r.Get("/consents/{address}/{direction}", h.HandleList)
	r.Post("/consents/{id}/response", h.HandleRespond)
	r.Delete("/consents/{id}/response", h.HandleRevertResponse)
	r.Delete("/consents/{id}", h.HandleDelete)
}

func (h *ConsentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[createConsentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	created, err := h.consents.CreateConsent(ctx, models.CreateConsentRequest{
		Address:   req.Address,
		ChainID:   req.ChainID,
		Dataset:   req.Dataset,
		Algorithm: req.Algorithm,
		Request:   req.Request,
		Reason:    req.Reason,
	})
	if err != nil {
		h.fail(w, r, "create consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *ConsentHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	data, err := h.consents.UserConsents(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "user consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, data)
}

func (h *ConsentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	direction, ok := models.ParseDirection(chi.URLParam(r, "direction"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "direction must be incoming or outgoing"))
		return
	}
	list, err := h.consents.ListConsents(r.Context(), chi.URLParam(r, "address"), direction)
	if err != nil {
		h.fail(w, r, "list consents", err)
		return
	}
	if list == nil {
		list = []models.Consent{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *ConsentHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	overview, err := h.consents.RefreshAll(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "refresh consents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, overview)
}

func (h *ConsentHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := consentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[respondRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.consents.CreateConsentResponse(ctx, id, req.Reason, req.Permitted, h.signer)
	if err != nil {
		h.fail(w, r, "respond to consent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *ConsentHandler) HandleRevertResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := consentID(w, r)
	if !ok {
		return
	}
	if err := h.consents.DeleteConsentResponse(r.Context(), id); err != nil {
		h.fail(w, r, "delete consent response", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := consentID(w, r)
	if !ok {
		return
	}
	if err := h.consents.DeleteConsent(r.Context(), id); err != nil {
		h.fail(w, r, "delete consent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsentHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	c, ok := h.consents.CurrentConsent(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no current consent"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *ConsentHandler) HandleSetCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req currentConsentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.consents.SetCurrentConsent(ctx, req.Consent); err != nil {
		h.fail(w, r, "set current consent", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConsentHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.WarnContext(r.Context(), "consent operation failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"op", op,
		"error", err,
	)
	httputil.WriteError(w, err)
}

func consentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid consent id"))
		return 0, false
	}
	return id, true
}
