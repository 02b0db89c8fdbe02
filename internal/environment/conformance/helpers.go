//go:build conformance

package conformance

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Quidge/dxenv/internal/config"
	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/Quidge/dxenv/internal/environment"
	"github.com/Quidge/dxenv/internal/jobs"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every engine call made by a test.
const DefaultTimeout = 15 * time.Minute

// TestEngine is a logged-in engine with a Service and a job runner.
type TestEngine struct {
	T       *testing.T
	Name    string
	Client  *delphix.Client
	Service *environment.Service
	Runner  *jobs.Runner
	Ctx     context.Context
}

// NewTestEngine loads the engine named by the environment and logs in.
// The test is skipped when DXENV_CONFORMANCE_CONFIG is not set.
func NewTestEngine(t *testing.T) *TestEngine {
	t.Helper()

	path := os.Getenv("DXENV_CONFORMANCE_CONFIG")
	if path == "" {
		t.Skip("DXENV_CONFORMANCE_CONFIG not set")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading %s: %v", path, err)
	}
	engines, err := cfg.Select(config.SelectOptions{Engine: os.Getenv("DXENV_CONFORMANCE_ENGINE")})
	if err != nil {
		t.Fatalf("selecting engine: %v", err)
	}
	e := engines[0]

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	entry := log.WithField("engine", e.Hostname)

	ctx, cancel := context.WithTimeout(testContext(t), DefaultTimeout)
	t.Cleanup(cancel)

	client := delphix.NewClient(delphix.Options{
		BaseURL:            e.URL(),
		Username:           e.Username,
		Password:           e.Password,
		Domain:             e.Domain,
		InsecureSkipVerify: bool(e.InsecureSkipVerify),
		Logger:             entry,
	})
	if err := client.Login(ctx); err != nil {
		t.Fatalf("login to %s: %v", e.Hostname, err)
	}

	return &TestEngine{
		T:       t,
		Name:    e.Hostname,
		Client:  client,
		Service: environment.New(client, entry),
		Runner:  &jobs.Runner{Getter: client, Interval: 5 * time.Second, Logger: entry},
		Ctx:     ctx,
	}
}

// Wait polls every job in res and fails the test if one fails.
func (e *TestEngine) Wait(res *environment.Result) {
	e.T.Helper()
	if res == nil {
		return
	}
	if err := e.Runner.WaitAll(e.Ctx, res.Jobs); err != nil {
		e.T.Fatalf("%s %s: %v", res.Action, res.Target, err)
	}
}

// AssertEnabled fails the test unless the named environment has the given
// enabled flag.
func (e *TestEngine) AssertEnabled(name string, want bool) {
	e.T.Helper()
	env, err := e.Client.FindEnvironmentByName(e.Ctx, name)
	if err != nil {
		e.T.Fatalf("looking up %s: %v", name, err)
	}
	if env.Enabled != want {
		e.T.Errorf("environment %s enabled = %t, want %t", name, env.Enabled, want)
	}
}

// LinuxParams returns create parameters from the environment, or nil when
// the lifecycle variables are not set.
func LinuxParams(t *testing.T) *environment.CreateParams {
	t.Helper()

	addr := os.Getenv("DXENV_CONFORMANCE_LINUX_ADDRESS")
	user := os.Getenv("DXENV_CONFORMANCE_LINUX_USER")
	toolkit := os.Getenv("DXENV_CONFORMANCE_LINUX_TOOLKIT")
	if addr == "" || user == "" || toolkit == "" {
		return nil
	}
	return &environment.CreateParams{
		Type:        environment.TypeLinux,
		Name:        generateTestName(t),
		HostUser:    user,
		Address:     addr,
		ToolkitPath: toolkit,
		Password:    os.Getenv("DXENV_CONFORMANCE_LINUX_PASSWORD"),
	}
}

// generateTestName creates an environment name unlikely to collide with a
// real one.
func generateTestName(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("dxenv-conformance-%d", time.Now().UnixNano()%1_000_000)
}

// testContext returns a context canceled when the test finishes.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
