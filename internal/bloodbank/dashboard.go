package bloodbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// Dashboard is the blood bank operator view: a session guard run on mount and
// a one-shot submission of unit counts.
type Dashboard struct {
	store    CredentialStore
	router   Router
	notifier Notifier
	client   SubmissionClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	mu           sync.Mutex
	granted      bool
	operatorName string
	inlineError  string
	counts       Counts
	state        SubmissionState
}

// View is a snapshot of what the dashboard renders.
type View struct {
	OperatorName  string          `json:"operator_name,omitempty"`
	Error         string          `json:"error,omitempty"`
	Counts        Counts          `json:"counts"`
	State         SubmissionState `json:"state"`
	Busy          bool            `json:"busy"`
	SubmitEnabled bool            `json:"submit_enabled"`
}

type Option func(*Dashboard)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dashboard) {
		d.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dashboard) {
		d.tracer = t
	}
}

// New constructs a Dashboard with its collaborators.
func New(store CredentialStore, router Router, notifier Notifier, client SubmissionClient, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:    store,
		router:   router,
		notifier: notifier,
		client:   client,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   otel.Tracer("bloodlink/bloodbank"),
		counts:   Counts{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mount runs the session guard. Every failure has already redirected to the
// login route by the time the error is returned, and leaves the dashboard
// closed until a later Mount succeeds.
func (d *Dashboard) Mount(ctx context.Context) error {
	token, tokenErr := d.store.Get(ctx, TokenKey)
	role, roleErr := d.store.Get(ctx, UserTypeKey)
	if err := errors.Join(ignoreNotFound(tokenErr), ignoreNotFound(roleErr)); err != nil {
		d.logger.ErrorContext(ctx, "credential store read failed", "error", err)
	}

	if token == "" || role != RequiredRole {
		d.revoke("")
		d.notifier.Error(ctx, msgAccessDenied)
		d.router.Navigate(ctx, LoginRoute)
		d.recordGuard("access_denied")
		return ErrAuthMissing
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		d.logger.WarnContext(ctx, "error decoding token", "error", err)
		d.revoke("")
		d.notifier.Error(ctx, msgInvalidFormat)
		d.router.Navigate(ctx, LoginRoute)
		d.recordGuard("token_malformed")
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if claims.Name == "" {
		d.revoke(msgInvalidData)
		d.router.Navigate(ctx, LoginRoute)
		d.recordGuard("token_incomplete")
		return ErrTokenIncomplete
	}

	d.mu.Lock()
	d.granted = true
	d.operatorName = claims.Name
	d.inlineError = ""
	d.mu.Unlock()
	d.recordGuard("granted")
	return nil
}

func (d *Dashboard) revoke(inlineError string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.granted = false
	d.operatorName = ""
	d.inlineError = inlineError
}

// deny sends a caller that never passed the guard back to login.
func (d *Dashboard) deny(ctx context.Context) error {
	d.notifier.Error(ctx, msgAccessDenied)
	d.router.Navigate(ctx, LoginRoute)
	d.recordGuard("not_mounted")
	return ErrAuthMissing
}

// SetCount records operator input for one blood group. Edits stay live while a
// submission is in flight; they do not affect the payload already sent.
func (d *Dashboard) SetCount(ctx context.Context, bt domain.BloodType, units int) error {
	d.mu.Lock()
	if !d.granted {
		d.mu.Unlock()
		return d.deny(ctx)
	}
	defer d.mu.Unlock()
	return d.counts.Set(bt, units)
}

// Submit posts the current counts to the backend. At most one request is in
// flight per dashboard, and none after a success. Only a mounted dashboard
// submits.
func (d *Dashboard) Submit(ctx context.Context) error {
	d.mu.Lock()
	if !d.granted {
		d.mu.Unlock()
		return d.deny(ctx)
	}
	if d.state != StateIdle {
		d.mu.Unlock()
		return ErrSubmitDisabled
	}
	d.mu.Unlock()

	token, err := d.store.Get(ctx, TokenKey)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		d.logger.ErrorContext(ctx, "credential store read failed", "error", err)
	}
	if token == "" {
		d.notifier.Error(ctx, msgNoToken)
		d.recordSubmission("missing_token")
		return ErrSubmissionMissingToken
	}

	d.mu.Lock()
	if !d.granted {
		d.mu.Unlock()
		return d.deny(ctx)
	}
	if d.state != StateIdle {
		d.mu.Unlock()
		return ErrSubmitDisabled
	}
	payload := NewPayload(token, d.counts)
	d.state = StateLoading
	d.mu.Unlock()

	ack, err := d.send(ctx, payload)
	if err != nil {
		d.logger.ErrorContext(ctx, "error submitting blood units", "error", err)
		d.notifier.Error(ctx, msgSubmitFailed)
		d.mu.Lock()
		d.state = StateIdle
		d.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	d.logger.InfoContext(ctx, "blood units submitted",
		"status", ack.StatusCode,
		"operator", d.OperatorName(),
	)
	d.notifier.Success(ctx, msgSubmitSucceeded)
	d.mu.Lock()
	d.state = StateSubmitted
	d.counts = Counts{}
	d.mu.Unlock()
	d.router.Navigate(ctx, HomeRoute)
	d.router.Reload(ctx)
	return nil
}

func (d *Dashboard) send(ctx context.Context, payload Payload) (Ack, error) {
	ctx, span := d.tracer.Start(ctx, "bloodbank.submit")
	defer span.End()

	start := time.Now()
	ack, err := d.client.Submit(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
		d.observeSubmission("failure", start)
		return Ack{}, err
	}
	span.SetAttributes(attribute.Int("http.status_code", ack.StatusCode))
	d.observeSubmission("success", start)
	return ack, nil
}

// State returns the current submission state.
func (d *Dashboard) State() SubmissionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OperatorName returns the name decoded on mount, empty unless the last guard
// run succeeded.
func (d *Dashboard) OperatorName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.operatorName
}

// View snapshots the render state.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return View{
		OperatorName:  d.operatorName,
		Error:         d.inlineError,
		Counts:        d.counts.Clone(),
		State:         d.state,
		Busy:          d.state == StateLoading,
		SubmitEnabled: d.granted && d.state == StateIdle,
	}
}

func (d *Dashboard) recordGuard(outcome string) {
	if d.metrics != nil {
		d.metrics.IncGuardOutcome(outcome)
	}
}

func (d *Dashboard) recordSubmission(outcome string) {
	if d.metrics != nil {
		d.metrics.IncSubmission(outcome)
	}
}

func (d *Dashboard) observeSubmission(outcome string, start time.Time) {
	if d.metrics != nil {
		d.metrics.ObserveSubmission(outcome, start)
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return err
}
