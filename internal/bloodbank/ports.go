package bloodbank

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks CredentialStore,Router,Notifier,SubmissionClient

// Storage keys written by the login flow.
const (
	TokenKey    = "token"
	UserTypeKey = "userType"
)

// RequiredRole is the userType allowed onto the dashboard.
const RequiredRole = "bloodbank"

// Routes the dashboard navigates to.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// CredentialStore is the session's key-value storage. Get returns
// sentinel.ErrNotFound when the key is absent.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
}

// Router performs navigation side effects.
type Router interface {
	Navigate(ctx context.Context, route string)
	Reload(ctx context.Context)
}

// Notifier surfaces fire-and-forget messages to the operator.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
	Info(ctx context.Context, msg string)
}

// Ack is the backend's answer to an accepted submission.
type Ack struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// SubmissionClient delivers one payload to the backend. Any non-2xx answer is
// returned as an error.
type SubmissionClient interface {
	Submit(ctx context.Context, payload Payload) (Ack, error)
}
