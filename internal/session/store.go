// Package session keeps per-browser state: the credential storage the login
// flow writes into, and the notifier, router, intake form and dashboard that
// belong to one browser session.
package session

import (
	"context"

	"bloodlink/pkg/domain"
)

// CredentialBackend stores string values per session. Get returns
// sentinel.ErrNotFound for a missing key.
type CredentialBackend interface {
	Get(ctx context.Context, sid domain.SessionID, key string) (string, error)
	Set(ctx context.Context, sid domain.SessionID, key, value string) error
	Delete(ctx context.Context, sid domain.SessionID, keys ...string) error
}

// Credentials is one session's view of a CredentialBackend. It satisfies
// bloodbank.CredentialStore.
type Credentials struct {
	backend CredentialBackend
	sid     domain.SessionID
}

func NewCredentials(backend CredentialBackend, sid domain.SessionID) *Credentials {
	return &Credentials{backend: backend, sid: sid}
}

func (c *Credentials) Get(ctx context.Context, key string) (string, error) {
	return c.backend.Get(ctx, c.sid, key)
}

func (c *Credentials) Set(ctx context.Context, key, value string) error {
	return c.backend.Set(ctx, c.sid, key, value)
}

func (c *Credentials) Delete(ctx context.Context, keys ...string) error {
	return c.backend.Delete(ctx, c.sid, keys...)
}
