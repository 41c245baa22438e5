package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers medical history step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &intakeSteps{tc: tc}

	ctx.Step(`^I open the medical history step$`, steps.openMedicalHistory)
	ctx.Step(`^I (check|uncheck) "([^"]*)"$`, steps.toggle)
	ctx.Step(`^the selected conditions should be "([^"]*)"$`, steps.selectedShouldBe)
	ctx.Step(`^no conditions should be selected$`, func(ctx context.Context) error {
		return steps.selectedShouldBe(ctx, "")
	})
	ctx.Step(`^the donor should (not )?be flagged as having a disease$`, steps.hasDiseaseShouldBe)
	ctx.Step(`^only "([^"]*)" should be rendered as checked$`, steps.onlyCheckedShouldBe)
}

type intakeSteps struct {
	tc TestContext
}

func (s *intakeSteps) openMedicalHistory(ctx context.Context) error {
	return s.tc.GET("/intake/medical-history")
}

func (s *intakeSteps) toggle(ctx context.Context, action, conditionID string) error {
	return s.tc.POST("/intake/medical-history/toggle", map[string]any{
		"condition_id": conditionID,
		"checked":      action == "check",
	})
}

// selectedShouldBe compares against a comma separated list in insertion order.
func (s *intakeSteps) selectedShouldBe(ctx context.Context, expected string) error {
	value, err := s.tc.GetResponseField("selected_conditions")
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("selected_conditions is %T, want array", value)
	}
	got := make([]string, 0, len(items))
	for _, item := range items {
		got = append(got, fmt.Sprint(item))
	}
	if strings.Join(got, ",") != expected {
		return fmt.Errorf("expected selected conditions %q, got %q", expected, strings.Join(got, ","))
	}
	return nil
}

func (s *intakeSteps) hasDiseaseShouldBe(ctx context.Context, not string) error {
	value, err := s.tc.GetResponseField("has_disease")
	if err != nil {
		return err
	}
	if want := not == ""; value != want {
		return fmt.Errorf("expected has_disease %v, got %v", want, value)
	}
	return nil
}

func (s *intakeSteps) onlyCheckedShouldBe(ctx context.Context, conditionID string) error {
	value, err := s.tc.GetResponseField("conditions")
	if err != nil {
		return err
	}
	items, _ := value.([]any)
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		if checked := item["checked"] == true; checked != (item["id"] == conditionID) {
			return fmt.Errorf("condition %v rendered checked=%v", item["id"], checked)
		}
	}
	return nil
}
