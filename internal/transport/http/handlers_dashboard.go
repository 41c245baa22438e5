package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/bloodbank"
	"bloodlink/internal/session"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

// UnitsRequest sets the unit count for the blood type named in the path.
type UnitsRequest struct {
	Units *int `json:"units"`
}

// DashboardResponse is the dashboard view plus the side effects the browser
// has to act on: where to go, whether to reload, and what to toast. Failed
// actions carry the error envelope fields next to the view.
type DashboardResponse struct {
	View             bloodbank.View         `json:"view"`
	Redirect         string                 `json:"redirect,omitempty"`
	Reload           bool                   `json:"reload"`
	Notifications    []session.Notification `json:"notifications"`
	Error            string                 `json:"error,omitempty"`
	ErrorDescription string                 `json:"error_description,omitempty"`
}

// DashboardHandler exposes the blood bank inventory dashboard.
type DashboardHandler struct {
	sessions Sessions
	logger   *slog.Logger
}

func NewDashboardHandler(sessions Sessions, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{sessions: sessions, logger: logger}
}

func (h *DashboardHandler) Register(r chi.Router) {
	r.Route("/dashboard/bloodbank", func(r chi.Router) {
		r.Get("/", h.handleView)
		r.Post("/mount", h.handleMount)
		r.Put("/units/{bloodType}", h.handleSetUnits)
		r.Post("/submit", h.handleSubmit)
	})
}

func (h *DashboardHandler) handleView(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(requestcontext.SessionID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, s.Dashboard.View())
}

// handleMount runs the session guard. A rejected session answers 401 with the
// login redirect and the toast the guard raised.
func (h *DashboardHandler) handleMount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Get(requestcontext.SessionID(ctx))

	err := s.Dashboard.Mount(ctx)
	if err != nil {
		logFailure(ctx, h.logger, "dashboard access rejected", err)
	}
	h.respond(w, s, err)
}

func (h *DashboardHandler) handleSetUnits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := url.PathUnescape(chi.URLParam(r, "bloodType"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid blood type"))
		return
	}
	bt, err := domain.ParseBloodType(raw)
	if err != nil {
		logFailure(ctx, h.logger, "invalid blood type", err)
		httputil.WriteError(w, err)
		return
	}

	var req UnitsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logFailure(ctx, h.logger, "invalid units request", err)
		httputil.WriteError(w, err)
		return
	}
	if req.Units == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "units is required"))
		return
	}

	s := h.sessions.Get(requestcontext.SessionID(ctx))
	if err := s.Dashboard.SetCount(ctx, bt, *req.Units); err != nil {
		if errors.Is(err, bloodbank.ErrAuthMissing) {
			logFailure(ctx, h.logger, "dashboard access rejected", err)
			h.respond(w, s, err)
			return
		}
		logFailure(ctx, h.logger, "invalid unit count", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.Dashboard.View())
}

// handleSubmit runs the submission flow and blocks until the backend answers.
func (h *DashboardHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Get(requestcontext.SessionID(ctx))

	err := s.Dashboard.Submit(ctx)
	if err != nil {
		logFailure(ctx, h.logger, "blood unit submission failed", err)
	}
	h.respond(w, s, err)
}

func (h *DashboardHandler) respond(w http.ResponseWriter, s *session.Session, err error) {
	nav := s.Navigator.Take()
	resp := DashboardResponse{
		View:          s.Dashboard.View(),
		Redirect:      nav.Redirect,
		Reload:        nav.Reload,
		Notifications: s.Flash.Drain(),
	}
	if err == nil {
		httputil.WriteJSON(w, http.StatusOK, resp)
		return
	}

	env := httputil.NewErrorResponse(err)
	resp.Error, resp.ErrorDescription = env.Error, env.ErrorDescription
	httputil.WriteJSON(w, dErrors.HTTPStatus(dErrors.CodeOf(err)), resp)
}
