package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"marketaccess/internal/credential/expiry"
	"marketaccess/pkg/platform/httputil"
)

type credentialStatusResponse struct {
	Phase            expiry.Phase `json:"phase"`
	IsValid          bool         `json:"isValid"`
	ExpiresAt        *time.Time   `json:"expiresAt,omitempty"`
	RemainingSeconds *int64       `json:"remainingSeconds,omitempty"`
	NeedsRefresh     bool         `json:"needsRefresh"`
	ShowWarning      bool         `json:"showWarning"`
	Text             string       `json:"text"`
}

func newCredentialStatusResponse(s expiry.Status) credentialStatusResponse {
	resp := credentialStatusResponse{
		Phase:        expiry.PhaseOf(s),
		IsValid:      s.IsValid,
		ExpiresAt:    s.ExpiresAt,
		NeedsRefresh: s.NeedsRefresh,
		Text:         expiry.TimeRemainingText(s),
	}
	if s.TimeRemaining != nil {
		secs := int64(s.TimeRemaining.Seconds())
		resp.RemainingSeconds = &secs
		resp.ShowWarning = expiry.ShouldShowExpirationWarning(*s.TimeRemaining)
	}
	return resp
}

// CredentialHandler reports how long a verification stays valid.
type CredentialHandler struct {
	status CredentialStatus
}

func NewCredentialHandler(status CredentialStatus) *CredentialHandler {
	return &CredentialHandler{status: status}
}

func (h *CredentialHandler) Register(r chi.Router) {
	r.Get("/credentials/{assetId}/{serviceId}/status", h.HandleStatus)
	r.Get("/credentials/{assetId}/{serviceId}/status/stream", h.HandleStream)
}

// HandleStatus handles GET /credentials/{assetId}/{serviceId}/status.
func (h *CredentialHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	s := h.status.Status(r.Context(), chi.URLParam(r, "assetId"), chi.URLParam(r, "serviceId"))
	httputil.WriteJSON(w, http.StatusOK, newCredentialStatusResponse(s))
}

// HandleStream handles GET /credentials/{assetId}/{serviceId}/status/stream.
// Each status change is sent as a server-sent "status" event until the client
// goes away.
func (h *CredentialHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	rc := http.NewResponseController(w)
	// The stream outlives the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	started := false
	err := h.status.Watch(ctx, chi.URLParam(r, "assetId"), chi.URLParam(r, "serviceId"), func(s expiry.Status) {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		data, err := json.Marshal(newCredentialStatusResponse(s))
		if err == nil {
			_, err = fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			cancel()
		}
	})
	if err != nil && !started {
		httputil.WriteError(w, err)
	}
}
