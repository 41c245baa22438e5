package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/bloodbank"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

// CredentialsRequest is what the login view hands over after sign-in.
type CredentialsRequest struct {
	Token    string `json:"token"`
	UserType string `json:"user_type"`
}

// Validate requires both values; the dashboard guard decides what they mean.
func (r CredentialsRequest) Validate() error {
	if r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if r.UserType == "" {
		return dErrors.New(dErrors.CodeValidation, "user_type is required")
	}
	return nil
}

// SessionHandler writes and clears the credentials of the caller's session.
type SessionHandler struct {
	sessions Sessions
	logger   *slog.Logger
}

func NewSessionHandler(sessions Sessions, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Put("/session/credentials", h.handlePutCredentials)
	r.Delete("/session/credentials", h.handleDeleteCredentials)
}

func (h *SessionHandler) handlePutCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CredentialsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logFailure(ctx, h.logger, "invalid credentials request", err)
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		logFailure(ctx, h.logger, "invalid credentials request", err)
		httputil.WriteError(w, err)
		return
	}

	creds := h.sessions.Get(requestcontext.SessionID(ctx)).Credentials
	for key, value := range map[string]string{bloodbank.TokenKey: req.Token, bloodbank.UserTypeKey: req.UserType} {
		if err := creds.Set(ctx, key, value); err != nil {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credentials")
			logFailure(ctx, h.logger, "failed to store credentials", err)
			httputil.WriteError(w, err)
			return
		}
	}

	h.logger.InfoContext(ctx, "session credentials stored",
		"request_id", requestcontext.RequestID(ctx),
		"user_type", req.UserType,
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleDeleteCredentials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	creds := h.sessions.Get(requestcontext.SessionID(ctx)).Credentials
	if err := creds.Delete(ctx, bloodbank.TokenKey, bloodbank.UserTypeKey); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear credentials")
		logFailure(ctx, h.logger, "failed to clear credentials", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
