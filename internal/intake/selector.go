package intake

import (
	"context"
	"log/slog"
	"sync"

	"bloodlink/internal/platform/metrics"
)

// Item is one rendered checkbox.
type Item struct {
	Condition
	Checked bool `json:"checked"`
}

// Selector is the medical history step. It holds no state of its own: every
// toggle reads the owning container and writes the result back in one Update.
type Selector struct {
	mu      sync.Mutex // serializes read-reduce-update against the shared form
	form    Container
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Selector)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}

// NewSelector binds a selector to the form it writes into.
func NewSelector(form Container, opts ...Option) *Selector {
	s := &Selector{form: form}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle applies one checkbox change and pushes SelectedConditions and
// HasDisease to the form together. Callers pass catalog ids only.
func (s *Selector) Toggle(ctx context.Context, conditionID string, checked bool) FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.form.Read()
	selected := Toggle(current.SelectedConditions, conditionID, checked)
	hasDisease := HasDisease(selected)
	s.form.Update(Patch{SelectedConditions: &selected, HasDisease: &hasDisease})

	if s.metrics != nil {
		s.metrics.IncConditionToggle(conditionID, checked)
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "medical history toggled",
			"condition_id", conditionID,
			"checked", checked,
			"selected", len(selected),
			"has_disease", hasDisease,
		)
	}
	return s.form.Read()
}

// Items renders the catalog against the form's current selection.
func (s *Selector) Items() []Item {
	selected := s.form.Read().SelectedConditions
	items := make([]Item, 0, len(catalog))
	for _, c := range catalog {
		items = append(items, Item{Condition: c, Checked: selected.Contains(c.ID)})
	}
	return items
}
