package testutil

import (
	"net/http"

	"bloodlink/pkg/domain"
)

// SessionCookie is the cookie name the session middleware reads.
const SessionCookie = "bloodlink_session"

// WithSessionCookie attaches the browser session cookie, the way a returning
// browser would.
func WithSessionCookie(req *http.Request, sid domain.SessionID) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid.String()})
	return req
}
