package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	PUT(path string, body any) error
	DELETE(path string) error
	LastStatus() int
	GetResponseField(field string) (any, error)
	SetBackendRejects(reject bool)
}

// RegisterSteps registers sign-in, backend and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am signed in as a "([^"]*)" named "([^"]*)"$`, steps.signInNamed)
	ctx.Step(`^I am signed in as a "([^"]*)" with a token that has no name$`, steps.signInWithoutName)
	ctx.Step(`^I am signed in as a "([^"]*)" with the token "([^"]*)"$`, steps.signInWithRawToken)
	ctx.Step(`^I sign out$`, steps.signOut)

	ctx.Step(`^the backend (accepts|rejects) submissions$`, steps.backendBehaviour)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) signInNamed(ctx context.Context, userType, name string) error {
	return s.signIn(userType, jwt.MapClaims{"name": name, "sub": "operator-1"})
}

func (s *commonSteps) signInWithoutName(ctx context.Context, userType string) error {
	return s.signIn(userType, jwt.MapClaims{"sub": "operator-1"})
}

func (s *commonSteps) signInWithRawToken(ctx context.Context, userType, token string) error {
	return s.storeCredentials(userType, token)
}

func (s *commonSteps) signIn(userType string, claims jwt.MapClaims) error {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("e2e-secret"))
	if err != nil {
		return err
	}
	return s.storeCredentials(userType, token)
}

func (s *commonSteps) storeCredentials(userType, token string) error {
	if err := s.tc.PUT("/session/credentials", map[string]string{"token": token, "user_type": userType}); err != nil {
		return err
	}
	return s.statusShouldBe(context.Background(), 204)
}

func (s *commonSteps) signOut(ctx context.Context) error {
	if err := s.tc.DELETE("/session/credentials"); err != nil {
		return err
	}
	return s.statusShouldBe(ctx, 204)
}

func (s *commonSteps) backendBehaviour(ctx context.Context, mode string) error {
	s.tc.SetBackendRejects(mode == "rejects")
	return nil
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.LastStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d", expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := Stringify(value); got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", field, expected, got)
	}
	return nil
}

// Stringify renders decoded JSON scalars the way a feature file spells them.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
