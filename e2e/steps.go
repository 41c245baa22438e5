package e2e

import (
	"github.com/cucumber/godog"

	"bloodlink/e2e/steps/common"
	"bloodlink/e2e/steps/dashboard"
	"bloodlink/e2e/steps/intake"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Sign-in, backend behaviour and generic response assertions
	common.RegisterSteps(ctx, tc)

	intake.RegisterSteps(ctx, tc)
	dashboard.RegisterSteps(ctx, tc)
}
