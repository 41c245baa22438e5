package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/requestcontext"
)

// SessionCookieName holds the browser session ID.
const SessionCookieName = "bloodlink_session"

// Session resolves the browser session from its cookie, minting a new one when
// the cookie is absent or unparsable, and stores the ID in the context.
func Session(ttl time.Duration, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var sid domain.SessionID
			if c, err := r.Cookie(SessionCookieName); err == nil {
				parsed, perr := domain.ParseSessionID(c.Value)
				if perr != nil {
					logger.WarnContext(ctx, "discarding invalid session cookie",
						"request_id", requestcontext.RequestID(ctx),
						"error", perr,
					)
				}
				sid = parsed
			}
			if sid.IsNil() {
				sid = domain.NewSessionID()
			}

			// Refreshed on every response so an active session keeps its cookie.
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid.String(),
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(requestcontext.WithSessionID(ctx, sid)))
		})
	}
}
