package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestSalonFeatures runs the feature suite against a real Postgres
// instance and the staff HTTP server. Set INTEGRATION_TEST=1 plus
// either SALON_INLINE=1 or SALON_BINARY to enable it.
func TestSalonFeatures(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Set INTEGRATION_TEST=1 to run the salon integration suite.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tc, err := NewTestContext(ctx)
	if err != nil {
		t.Fatalf("integration setup: %v", err)
	}
	defer tc.Close(ctx)

	suite := godog.TestSuite{
		Name: "salon-assistant",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			NewStepsContext(tc).RegisterSteps(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("salon feature suite failed")
	}
}
