//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/recurring/config"
	"github.com/finance-tracker/recurring/internal/application/usecase/recurring"
	"github.com/finance-tracker/recurring/internal/infra/dependency"
	"github.com/finance-tracker/recurring/test/integration/mock"
)

const (
	testJWTSecret = "integration-test-secret"
	testJWTIssuer = "finance-tracker-test"
	testSchema    = "recurring"
)

// defaultNow is where the test clock starts for every scenario.
var defaultNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// Infrastructure
	db       *mock.Db
	redis    *redis.Client
	clock    *mock.Time
	cfg      *config.Config
	injector *dependency.Injector
	server   *httptest.Server

	// Request building
	requestHeaders map[string]string

	// Last response
	response     *http.Response
	responseBody []byte

	// Auth
	userID      uuid.UUID
	accessToken string

	// Values captured from responses, referenced as {{name}}
	saved map[string]string

	lastSweep *recurring.ProcessDueRecurringTransactionsOutput
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		_ = os.Setenv("ENV", "test")
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})
}

// InitializeScenario registers steps and per-scenario hooks.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.shutdown()
		return ctx, nil
	})

	registerAPISteps(ctx, tc)
	registerResponseSteps(ctx, tc)
	registerSchedulingSteps(ctx, tc)
	registerDatabaseSteps(ctx, tc)
}

func (tc *TestContext) reset() error {
	tc.db = mock.NewDb(testSchema, mock.Tables())
	if err := tc.db.ClearDB(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	tc.redis = mock.NewRedis()
	if err := mock.ClearRedis(tc.redis); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}

	tc.clock = mock.NewTime(defaultNow)
	tc.cfg = newTestConfig()
	tc.requestHeaders = map[string]string{}
	tc.saved = map[string]string{}
	tc.response = nil
	tc.responseBody = nil
	tc.userID = uuid.Nil
	tc.accessToken = ""
	tc.lastSweep = nil

	tc.start()
	return nil
}

// start wires a fresh application over the shared database and serves it.
func (tc *TestContext) start() {
	tc.injector = dependency.NewInjector(tc.cfg, tc.db.DbConn, tc.redis, tc.clock)
	tc.server = httptest.NewServer(tc.injector.Router.Setup(tc.cfg.Server.Environment))
}

func (tc *TestContext) shutdown() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
	if tc.injector != nil {
		tc.injector.Timers.Stop()
		tc.injector = nil
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment: "test",
		},
		Redis: config.RedisConfig{
			Enabled: true,
			LockTTL: 5 * time.Second,
		},
		JWT: config.JWTConfig{
			Secret: testJWTSecret,
			Issuer: testJWTIssuer,
		},
		Scheduler: config.SchedulerConfig{
			Enabled:           true,
			SweepInterval:     time.Hour,
			DailySweepHourUTC: 0,
			BatchSize:         2,
			ProcessTimeout:    5 * time.Second,
			ProcessDueLimit:   100,
		},
	}
}

// replacePlaceholders substitutes {{name}} with values saved during the scenario.
func (tc *TestContext) replacePlaceholders(s string) string {
	for name, value := range tc.saved {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}
