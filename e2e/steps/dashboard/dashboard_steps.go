package dashboard

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	GetResponseField(field string) (any, error)
	Submissions() []map[string]any
}

// RegisterSteps registers blood bank dashboard step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &dashboardSteps{tc: tc}

	ctx.Step(`^I open the blood bank dashboard$`, steps.openDashboard)
	ctx.Step(`^I enter (-?\d+) units of "([^"]*)"$`, steps.enterUnits)
	ctx.Step(`^I submit the inventory$`, steps.submit)

	ctx.Step(`^I should be redirected to "([^"]*)"$`, steps.redirectedTo)
	ctx.Step(`^I should not be redirected$`, func(ctx context.Context) error {
		return steps.redirectedTo(ctx, "")
	})
	ctx.Step(`^I should see the (success|error|info) notification "([^"]*)"$`, steps.notificationShown)
	ctx.Step(`^I should see no notification$`, steps.noNotification)
	ctx.Step(`^the page should reload$`, steps.reloads)
	ctx.Step(`^the backend should have received (\d+) submissions?$`, steps.submissionCount)
	ctx.Step(`^the last submission should carry "([^"]*)" = (\d+)$`, steps.lastSubmissionField)
}

type dashboardSteps struct {
	tc TestContext
}

func (s *dashboardSteps) openDashboard(ctx context.Context) error {
	return s.tc.POST("/dashboard/bloodbank/mount", nil)
}

func (s *dashboardSteps) enterUnits(ctx context.Context, units int, bloodType string) error {
	return s.tc.PUT("/dashboard/bloodbank/units/"+url.PathEscape(bloodType), map[string]int{"units": units})
}

func (s *dashboardSteps) submit(ctx context.Context) error {
	return s.tc.POST("/dashboard/bloodbank/submit", nil)
}

func (s *dashboardSteps) redirectedTo(ctx context.Context, route string) error {
	got, err := s.tc.GetResponseField("redirect")
	if err != nil {
		got = ""
	}
	if got != route {
		return fmt.Errorf("expected redirect %q, got %q", route, got)
	}
	return nil
}

func (s *dashboardSteps) notifications() ([]map[string]any, error) {
	value, err := s.tc.GetResponseField("notifications")
	if err != nil {
		return nil, err
	}
	raw, _ := value.([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, n := range raw {
		if m, ok := n.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *dashboardSteps) notificationShown(ctx context.Context, level, message string) error {
	shown, err := s.notifications()
	if err != nil {
		return err
	}
	for _, n := range shown {
		if n["level"] == level && n["message"] == message {
			return nil
		}
	}
	return fmt.Errorf("no %s notification %q among %v", level, message, shown)
}

func (s *dashboardSteps) noNotification(ctx context.Context) error {
	shown, err := s.notifications()
	if err != nil {
		return err
	}
	if len(shown) != 0 {
		return fmt.Errorf("expected no notifications, got %v", shown)
	}
	return nil
}

func (s *dashboardSteps) reloads(ctx context.Context) error {
	got, err := s.tc.GetResponseField("reload")
	if err != nil {
		return err
	}
	if got != true {
		return fmt.Errorf("expected reload, got %v", got)
	}
	return nil
}

func (s *dashboardSteps) submissionCount(ctx context.Context, expected int) error {
	if got := len(s.tc.Submissions()); got != expected {
		return fmt.Errorf("expected %d backend submissions, got %d", expected, got)
	}
	return nil
}

func (s *dashboardSteps) lastSubmissionField(ctx context.Context, field string, expected int) error {
	subs := s.tc.Submissions()
	if len(subs) == 0 {
		return fmt.Errorf("backend received nothing")
	}
	got, ok := subs[len(subs)-1][field].(float64)
	if !ok || int(got) != expected {
		return fmt.Errorf("expected %s = %d, got %v", field, expected, subs[len(subs)-1][field])
	}
	return nil
}
