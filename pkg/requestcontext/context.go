// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; handlers and services read them
// without importing net/http.
//
//	sid := requestcontext.SessionID(ctx)
//	requestID := requestcontext.RequestID(ctx)
package requestcontext

import (
	"context"

	"bloodlink/pkg/domain"
)

type (
	sessionIDKey struct{}
	requestIDKey struct{}
	clientIPKey  struct{}
)

// SessionID retrieves the browser session ID from the context.
// Returns the zero value (nil UUID) if not set.
func SessionID(ctx context.Context) domain.SessionID {
	if sid, ok := ctx.Value(sessionIDKey{}).(domain.SessionID); ok {
		return sid
	}
	return domain.SessionID{}
}

// WithSessionID injects a session ID into the context.
func WithSessionID(ctx context.Context, sid domain.SessionID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientIP retrieves the client address recorded by the logging middleware.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects a client address into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}
