package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bloodlink/internal/bloodbank"
	"bloodlink/internal/intake"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
)

// Session bundles everything one browser session owns.
type Session struct {
	ID          domain.SessionID
	Credentials *Credentials
	Flash       *Flash
	Navigator   *Navigator
	Form        *intake.Form
	Selector    *intake.Selector
	Dashboard   *bloodbank.Dashboard

	lastSeen time.Time
}

// Manager hands out sessions by ID, creating them on first use, and evicts
// sessions idle for longer than the configured TTL. Credentials live in the
// backend and outlive eviction until their own TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*Session

	backend CredentialBackend
	client  bloodbank.SubmissionClient
	logger  *slog.Logger
	metrics *metrics.Metrics
	idleTTL time.Duration
	now     func() time.Time
}

type ManagerOption func(*Manager)

func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithIdleTTL sets how long an untouched session is kept in memory.
func WithIdleTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTTL = ttl
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager constructs a Manager. Every dashboard it creates submits through client.
func NewManager(backend CredentialBackend, client bloodbank.SubmissionClient, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[domain.SessionID]*Session),
		backend:  backend,
		client:   client,
		logger:   slog.New(slog.DiscardHandler),
		idleTTL:  12 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the session for sid, creating it if needed, and marks it as seen.
func (m *Manager) Get(sid domain.SessionID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sid]
	if !ok {
		s = m.newSession(sid)
		m.sessions[sid] = s
	}
	s.lastSeen = m.now()
	return s
}

func (m *Manager) newSession(sid domain.SessionID) *Session {
	logger := m.logger.With("session_id", sid.String())
	creds := NewCredentials(m.backend, sid)
	flash := NewFlash(logger)
	nav := &Navigator{}
	form := intake.NewForm()

	selectorOpts := []intake.Option{intake.WithLogger(logger)}
	dashboardOpts := []bloodbank.Option{bloodbank.WithLogger(logger)}
	if m.metrics != nil {
		selectorOpts = append(selectorOpts, intake.WithMetrics(m.metrics))
		dashboardOpts = append(dashboardOpts, bloodbank.WithMetrics(m.metrics))
	}

	return &Session{
		ID:          sid,
		Credentials: creds,
		Flash:       flash,
		Navigator:   nav,
		Form:        form,
		Selector:    intake.NewSelector(form, selectorOpts...),
		Dashboard:   bloodbank.New(creds, nav, flash, m.client, dashboardOpts...),
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many went.
// A session whose dashboard is submitting or has submitted is kept, so the
// same cookie never gets a fresh dashboard that could submit again.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	evicted := 0
	for sid, s := range m.sessions {
		if s.lastSeen.Before(cutoff) && s.Dashboard.State() == bloodbank.StateIdle {
			delete(m.sessions, sid)
			evicted++
		}
	}
	return evicted
}

// Run sweeps on every tick until ctx is done. A non-positive interval
// disables sweeping.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.InfoContext(ctx, "evicted idle sessions", "count", n)
			}
		}
	}
}
