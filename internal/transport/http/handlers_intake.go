package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/intake"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

// ToggleRequest is one checkbox change on the medical history step.
type ToggleRequest struct {
	ConditionID string `json:"condition_id"`
	Checked     *bool  `json:"checked"`
}

func (r ToggleRequest) Validate() error {
	if r.ConditionID == "" {
		return dErrors.New(dErrors.CodeValidation, "condition_id is required")
	}
	if !intake.IsKnownCondition(r.ConditionID) {
		return dErrors.New(dErrors.CodeValidation, "unknown condition_id")
	}
	if r.Checked == nil {
		return dErrors.New(dErrors.CodeValidation, "checked is required")
	}
	return nil
}

// MedicalHistoryResponse renders the condition selector.
type MedicalHistoryResponse struct {
	Prompt             string           `json:"prompt"`
	Conditions         []intake.Item    `json:"conditions"`
	SelectedConditions intake.Selection `json:"selected_conditions"`
	HasDisease         bool             `json:"has_disease"`
}

// IntakeHandler serves the donor intake form and its medical history step.
type IntakeHandler struct {
	sessions Sessions
	logger   *slog.Logger
}

func NewIntakeHandler(sessions Sessions, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{sessions: sessions, logger: logger}
}

func (h *IntakeHandler) Register(r chi.Router) {
	r.Get("/intake", h.handleGetForm)
	r.Patch("/intake", h.handlePatchForm)
	r.Get("/intake/medical-history", h.handleGetMedicalHistory)
	r.Post("/intake/medical-history/toggle", h.handleToggle)
}

func (h *IntakeHandler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(requestcontext.SessionID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, s.Form.Read())
}

func (h *IntakeHandler) handlePatchForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var patch intake.Patch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		logFailure(ctx, h.logger, "invalid intake patch", err)
		httputil.WriteError(w, err)
		return
	}
	if err := patch.Validate(); err != nil {
		logFailure(ctx, h.logger, "invalid intake patch", err)
		httputil.WriteError(w, err)
		return
	}

	form := h.sessions.Get(requestcontext.SessionID(ctx)).Form
	form.Update(patch)
	httputil.WriteJSON(w, http.StatusOK, form.Read())
}

func (h *IntakeHandler) handleGetMedicalHistory(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(requestcontext.SessionID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, medicalHistory(s.Selector, s.Form.Read()))
}

func (h *IntakeHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ToggleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logFailure(ctx, h.logger, "invalid toggle request", err)
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		logFailure(ctx, h.logger, "invalid toggle request", err)
		httputil.WriteError(w, err)
		return
	}

	s := h.sessions.Get(requestcontext.SessionID(ctx))
	state := s.Selector.Toggle(ctx, req.ConditionID, *req.Checked)
	httputil.WriteJSON(w, http.StatusOK, medicalHistory(s.Selector, state))
}

func medicalHistory(sel *intake.Selector, state intake.FormState) MedicalHistoryResponse {
	return MedicalHistoryResponse{
		Prompt:             intake.Prompt,
		Conditions:         sel.Items(),
		SelectedConditions: state.SelectedConditions,
		HasDisease:         state.HasDisease,
	}
}
