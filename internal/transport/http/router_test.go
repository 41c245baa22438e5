package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"bloodlink/internal/bloodbank"
	"bloodlink/internal/bloodbank/client"
	"bloodlink/internal/platform/metrics"
	"bloodlink/internal/session"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	backend      *httptest.Server
	backendCalls atomic.Int32
	backendFail  atomic.Bool
	lastPayload  atomic.Pointer[bloodbank.Payload]
	healthErr    error
	handler      http.Handler
	sid          domain.SessionID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.backendCalls.Store(0)
	s.backendFail.Store(false)
	s.lastPayload.Store(nil)
	s.healthErr = nil

	s.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.backendCalls.Add(1)
		var p bloodbank.Payload
		body, _ := io.ReadAll(r.Body)
		if json.Unmarshal(body, &p) == nil {
			s.lastPayload.Store(&p)
		}
		if s.backendFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	s.T().Cleanup(s.backend.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	manager := session.NewManager(session.NewInMemoryBackend(), client.New(s.backend.URL), session.WithMetrics(m))
	s.handler = NewRouter(RouterConfig{
		Sessions: manager,
		Metrics:  m,
		Gatherer: reg,
		Health:   func(context.Context) error { return s.healthErr },
	})
	s.sid = domain.NewSessionID()
}

func (s *RouterSuite) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.handler, testutil.WithSessionCookie(req, s.sid))
}

func (s *RouterSuite) login(userType string, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	s.Require().NoError(err)
	rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/session/credentials",
		CredentialsRequest{Token: token, UserType: userType}))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	return token
}

func (s *RouterSuite) mount() (*httptest.ResponseRecorder, *DashboardResponse) {
	rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/dashboard/bloodbank/mount"))
	return rr, testutil.UnmarshalResponse[DashboardResponse](s.T(), rr)
}

func (s *RouterSuite) TestInfrastructure() {
	s.Run("healthz ok without a session cookie", func() {
		rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Empty(rr.Result().Cookies())
	})

	s.Run("healthz reports a failing dependency", func() {
		s.healthErr = errors.New("redis down")
		rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
		s.healthErr = nil
	})

	s.Run("metrics are scraped", func() {
		s.do(testutil.NewRequest(s.T(), http.MethodGet, "/intake"))
		rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), "bloodlink_http_request_duration_seconds")
	})

	s.Run("first visit mints a session cookie", func() {
		rr := testutil.DoRequest(s.handler, testutil.NewRequest(s.T(), http.MethodGet, "/intake"))
		cookies := rr.Result().Cookies()
		s.Require().Len(cookies, 1)
		s.Equal(testutil.SessionCookie, cookies[0].Name)
	})
}

func (s *RouterSuite) TestSessionCredentials() {
	s.Run("rejects a missing token", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPut, "/session/credentials",
			CredentialsRequest{UserType: "bloodbank"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("rejects unknown fields", func() {
		rr := s.do(testutil.NewRequestWithBody(s.T(), http.MethodPut, "/session/credentials",
			`{"token":"t","user_type":"bloodbank","admin":true}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("logout clears what login stored", func() {
		s.login("bloodbank", jwt.MapClaims{"name": "City Blood Bank"})
		rr, _ := s.mount()
		testutil.AssertStatusOK(s.T(), rr)

		rr = s.do(testutil.NewRequest(s.T(), http.MethodDelete, "/session/credentials"))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

		rr, resp := s.mount()
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal(bloodbank.LoginRoute, resp.Redirect)
	})
}

func (s *RouterSuite) TestIntake() {
	s.Run("starts empty", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/intake"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "has_disease", false)
	})

	s.Run("patch merges fields", func() {
		rr := s.do(testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/intake",
			`{"full_name":"Ana Ruiz","blood_type":"O-"}`))
		testutil.AssertStatusOK(s.T(), rr)

		rr = s.do(testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/intake", `{"weight_kg":61.5}`))
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal("Ana Ruiz", (*body)["full_name"])
		s.Equal("O-", (*body)["blood_type"])
		s.Equal(61.5, (*body)["weight_kg"])
	})

	s.Run("patch cannot write conditions directly", func() {
		rr := s.do(testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/intake", `{"has_disease":false}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *RouterSuite) TestMedicalHistory() {
	toggle := func(id string, checked bool) *httptest.ResponseRecorder {
		return s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/medical-history/toggle",
			map[string]any{"condition_id": id, "checked": checked}))
	}

	s.Run("renders the catalog unchecked", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/intake/medical-history"))
		resp := testutil.UnmarshalResponse[MedicalHistoryResponse](s.T(), rr)
		s.Equal("Select any conditions that apply to you:", resp.Prompt)
		s.Len(resp.Conditions, 8)
		for _, item := range resp.Conditions {
			s.False(item.Checked, item.ID)
		}
	})

	s.Run("a condition sets has_disease", func() {
		resp := testutil.UnmarshalResponse[MedicalHistoryResponse](s.T(), toggle("hiv", true))
		s.ElementsMatch([]string{"hiv"}, resp.SelectedConditions)
		s.True(resp.HasDisease)
	})

	s.Run("none clears every other condition", func() {
		toggle("ebola", true)
		resp := testutil.UnmarshalResponse[MedicalHistoryResponse](s.T(), toggle("none", true))
		s.Equal([]string{"none"}, []string(resp.SelectedConditions))
		s.False(resp.HasDisease)
		for _, item := range resp.Conditions {
			s.Equal(item.ID == "none", item.Checked, item.ID)
		}
	})

	s.Run("the intake form sees the same selection", func() {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/intake"))
		testutil.AssertJSONContains(s.T(), rr, "selected_conditions", []any{"none"})
	})

	s.Run("unknown ids are rejected", func() {
		testutil.AssertStatusAndError(s.T(), toggle("malaria", true), http.StatusBadRequest, "validation_error")
	})

	s.Run("checked is required", func() {
		rr := s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, "/intake/medical-history/toggle",
			map[string]any{"condition_id": "hiv"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *RouterSuite) TestDashboardGuard() {
	s.Run("no credentials redirects to login", func() {
		rr, resp := s.mount()
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal("unauthorized", resp.Error)
		s.Equal("/login", resp.Redirect)
		s.Require().Len(resp.Notifications, 1)
		s.Equal(session.Notification{
			Level:   session.LevelError,
			Message: "Access denied. Only blood banks are allowed to access this page.",
		}, resp.Notifications[0])
	})

	s.Run("each rejected mount raises its own notification", func() {
		_, resp := s.mount()
		s.Len(resp.Notifications, 1)
	})

	s.Run("a token without a name shows the inline error", func() {
		s.login("bloodbank", jwt.MapClaims{"sub": "42"})
		rr, resp := s.mount()
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal("Invalid token data.", resp.View.Error)
		s.Equal("/login", resp.Redirect)
		s.Empty(resp.Notifications)
	})

	s.Run("a blood bank operator is welcomed", func() {
		s.login("bloodbank", jwt.MapClaims{"name": "City Blood Bank"})
		rr, resp := s.mount()
		testutil.AssertStatusOK(s.T(), rr)
		s.Equal("City Blood Bank", resp.View.OperatorName)
		s.Empty(resp.Redirect)
		s.True(resp.View.SubmitEnabled)
	})
}

func (s *RouterSuite) TestUnits() {
	setUnits := func(path string, body string) *httptest.ResponseRecorder {
		return s.do(testutil.NewRequestWithBody(s.T(), http.MethodPut, path, body))
	}

	s.Run("a dashboard that was never opened refuses input", func() {
		rr := setUnits("/dashboard/bloodbank/units/O-", `{"units":2}`)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		resp := testutil.UnmarshalResponse[DashboardResponse](s.T(), rr)
		s.Equal("unauthorized", resp.Error)
		s.Equal("/login", resp.Redirect)
	})

	s.login("bloodbank", jwt.MapClaims{"name": "City Blood Bank"})
	rr, _ := s.mount()
	testutil.AssertStatusOK(s.T(), rr)

	s.Run("escaped blood type in the path", func() {
		rr := setUnits("/dashboard/bloodbank/units/AB%2B", `{"units":5}`)
		testutil.AssertStatusOK(s.T(), rr)
		view := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		counts := (*view)["counts"].(map[string]any)
		s.EqualValues(5, counts["AB+"])
		s.EqualValues(0, counts["O-"])
	})

	s.Run("negative units are rejected", func() {
		testutil.AssertStatusAndError(s.T(), setUnits("/dashboard/bloodbank/units/O-", `{"units":-1}`),
			http.StatusBadRequest, "validation_error")
	})

	s.Run("unknown blood type is rejected", func() {
		testutil.AssertStatusAndError(s.T(), setUnits("/dashboard/bloodbank/units/C+", `{"units":1}`),
			http.StatusBadRequest, "invalid_input")
	})

	s.Run("units are required", func() {
		testutil.AssertStatusAndError(s.T(), setUnits("/dashboard/bloodbank/units/O-", `{}`),
			http.StatusBadRequest, "validation_error")
	})
}

func (s *RouterSuite) TestSubmit() {
	submit := func() (*httptest.ResponseRecorder, *DashboardResponse) {
		rr := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/dashboard/bloodbank/submit"))
		return rr, testutil.UnmarshalResponse[DashboardResponse](s.T(), rr)
	}

	s.Run("without a token nothing is sent", func() {
		rr, resp := submit()
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal("/login", resp.Redirect)
		s.Zero(s.backendCalls.Load())
	})

	s.Run("a token without opening the dashboard sends nothing", func() {
		s.login("donor", jwt.MapClaims{"name": "Ana Ruiz"})
		rr, resp := submit()
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		s.Equal("/login", resp.Redirect)
		s.Equal("Access denied. Only blood banks are allowed to access this page.", resp.Notifications[0].Message)
		s.Zero(s.backendCalls.Load())
	})

	token := s.login("bloodbank", jwt.MapClaims{"name": "City Blood Bank"})
	rr, _ := s.mount()
	testutil.AssertStatusOK(s.T(), rr)
	s.do(testutil.NewRequestWithBody(s.T(), http.MethodPut, "/dashboard/bloodbank/units/A+", `{"units":3}`))

	s.Run("backend failure keeps the counts for a retry", func() {
		s.backendFail.Store(true)
		rr, resp := submit()
		testutil.AssertStatus(s.T(), rr, http.StatusBadGateway)
		s.Equal("unavailable", resp.Error)
		s.Equal("Failed to update blood units. Please try again later.", resp.Notifications[0].Message)
		s.Equal(bloodbank.StateIdle, resp.View.State)
		s.True(resp.View.SubmitEnabled)
		s.False(resp.Reload)
		s.backendFail.Store(false)
	})

	s.Run("success redirects home and reloads", func() {
		rr, resp := submit()
		testutil.AssertStatusOK(s.T(), rr)
		s.Equal("/", resp.Redirect)
		s.True(resp.Reload)
		s.Equal(session.Notification{Level: session.LevelSuccess, Message: "Blood quantities updated successfully!"},
			resp.Notifications[0])
		s.False(resp.View.SubmitEnabled)

		sent := s.lastPayload.Load()
		s.Require().NotNil(sent)
		s.Equal(bloodbank.Payload{Token: token, APositive: 3}, *sent)
	})

	s.Run("a second submit is refused", func() {
		calls := s.backendCalls.Load()
		rr, resp := submit()
		testutil.AssertStatus(s.T(), rr, http.StatusConflict)
		s.Equal("conflict", resp.Error)
		s.Equal(calls, s.backendCalls.Load())
	})
}
