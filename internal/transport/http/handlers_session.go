package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "marketaccess/pkg/domain-errors"
	"marketaccess/pkg/platform/httputil"
	"marketaccess/pkg/requestcontext"
)

type connectRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *connectRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

// SessionHandler connects to and disconnects from the SSI wallet.
type SessionHandler struct {
	wallet      WalletLogin
	sessions    Sessions
	credentials CredentialCache
	exchange    Exchange
	logger      *slog.Logger
}

func NewSessionHandler(wallet WalletLogin, sessions Sessions, credentials CredentialCache, ex Exchange, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{wallet: wallet, sessions: sessions, credentials: credentials, exchange: ex, logger: logger}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Post("/session/connect", h.HandleConnect)
	r.Delete("/session", h.HandleDisconnect)
}

// HandleConnect handles POST /session/connect.
func (h *SessionHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[connectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	token, err := h.wallet.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet login failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	if err := h.sessions.Set(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to store session", "request_id", requestID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store session"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"sessionId": token.SessionID,
		"status":    token.Status,
		"expiresAt": token.ExpiresAt,
	})
}

// HandleDisconnect handles DELETE /session. It clears the session, the cached
// verifier sessions and the cached credentials, and aborts any exchange.
func (h *SessionHandler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.exchange.Cancel(ctx)

	var errs []error
	for _, clear := range []func() error{
		func() error { return h.sessions.Clear(ctx) },
		func() error { return h.sessions.ClearVerifierSessions(ctx) },
		func() error { return h.credentials.Clear(ctx) },
	} {
		if err := clear(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		h.logger.ErrorContext(ctx, "disconnect left state behind",
			"request_id", requestcontext.RequestID(ctx),
			"errors", errs,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to clear session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
