package delphix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine serves canned envelopes keyed by "METHOD path" and records
// the request bodies it receives.
type fakeEngine struct {
	mu       sync.Mutex
	routes   map[string]fakeRoute
	requests []recordedRequest
}

type fakeRoute struct {
	status int
	body   string
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeEngine(t *testing.T) (*fakeEngine, *Client) {
	t.Helper()
	fe := &fakeEngine{routes: map[string]fakeRoute{}}
	srv := httptest.NewServer(fe)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	client := NewClient(Options{
		BaseURL:  srv.URL,
		Username: "admin",
		Password: "secret",
		Logger:   log,
	})
	return fe, client
}

func (fe *fakeEngine) on(method, path string, status int, body string) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.routes[method+" "+apiRoot+path] = fakeRoute{status: status, body: body}
}

func (fe *fakeEngine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := recordedRequest{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, apiRoot)}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	fe.mu.Lock()
	fe.requests = append(fe.requests, rec)
	route, ok := fe.routes[r.Method+" "+r.URL.Path]
	fe.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.status)
	_, _ = io.WriteString(w, route.body)
}

func (fe *fakeEngine) recorded() []recordedRequest {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return append([]recordedRequest(nil), fe.requests...)
}

const okEmpty = `{"type":"OKResult","status":"OK","result":"","job":null,"action":"ACTION-1"}`

func TestLogin(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("POST", "/session", 200, `{"type":"OKResult","status":"OK","result":{"type":"APISession"}}`)
	fe.on("POST", "/login", 200, `{"type":"OKResult","status":"OK","result":"USER-2"}`)

	require.NoError(t, client.Login(testContext(t)))

	reqs := fe.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/session", reqs[0].Path)
	assert.Equal(t, TypeAPISession, reqs[0].Body["type"])
	version := reqs[0].Body["version"].(map[string]any)
	assert.EqualValues(t, 1, version["major"])
	assert.EqualValues(t, 10, version["minor"])

	assert.Equal(t, "/login", reqs[1].Path)
	assert.Equal(t, "admin", reqs[1].Body["username"])
	assert.Equal(t, "secret", reqs[1].Body["password"])
	assert.Equal(t, DefaultLoginTarget, reqs[1].Body["target"])
}

func TestClose(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("POST", "/session", 200, okEmpty)
	fe.on("POST", "/login", 200, okEmpty)

	require.NoError(t, client.Login(testContext(t)))
	assert.NoError(t, client.Close())
}

func TestLoginFailure(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("POST", "/session", 200, `{"type":"OKResult","status":"OK","result":{}}`)
	fe.on("POST", "/login", 200, `{"type":"ErrorResult","status":"ERROR","error":{"type":"APIError","details":"Invalid username or password.","id":"exception.webservices.login.failed"}}`)

	err := client.Login(testContext(t))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "exception.webservices.login.failed", apiErr.ID)
	assert.Contains(t, err.Error(), "Invalid username or password.")
}

func TestListEnvironments(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("GET", "/environment", 200, `{"type":"ListResult","status":"OK","result":[
		{"type":"UnixHostEnvironment","reference":"UNIX_HOST_ENVIRONMENT-1","name":"src","enabled":true,"primaryUser":"HOST_USER-1","host":"UNIX_HOST-1",
		 "aseHostEnvironmentParameters":{"type":"ASEHostEnvironmentParameters","dbUser":"sa"}},
		{"type":"WindowsCluster","reference":"WINDOWS_CLUSTER-1","name":"wc","enabled":false,"primaryUser":"HOST_USER-2"}
	]}`)

	envs, err := client.ListEnvironments(testContext(t))
	require.NoError(t, err)
	require.Len(t, envs, 2)

	assert.Equal(t, "src", envs[0].Name)
	assert.True(t, envs[0].Enabled)
	assert.Equal(t, "UNIX_HOST-1", envs[0].Host)
	require.NotNil(t, envs[0].ASEHostEnvironmentParameters)
	assert.Equal(t, "sa", envs[0].ASEHostEnvironmentParameters.DBUser)

	assert.True(t, envs[1].IsCluster())
	assert.Nil(t, envs[1].ASEHostEnvironmentParameters)
}

func TestHTTPErrorWithoutEnvelope(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("GET", "/environment", 500, `internal server error`)

	_, err := client.ListEnvironments(testContext(t))
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.StatusCode)
	assert.True(t, IsRequestError(err))
}

func TestCreateEnvironmentReturnsJob(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("POST", "/environment", 200, `{"type":"OKResult","status":"OK","result":"UNIX_HOST_ENVIRONMENT-9","job":"JOB-42","action":"ACTION-7"}`)

	params := &HostEnvironmentCreateParameters{
		Type:            TypeHostEnvironmentCreateParams,
		PrimaryUser:     &EnvironmentUser{Type: TypeEnvironmentUser, Name: "delphix", Credential: SystemKeyCredential()},
		HostEnvironment: &Environment{Type: TypeUnixHostEnvironment, Name: "test1"},
		HostParameters: &HostCreateParameters{
			Type: TypeUnixHostCreateParameters,
			Host: &Host{Type: TypeUnixHost, Address: "10.0.0.5", ToolkitPath: "/var/opt/delphix"},
		},
	}

	job, err := client.CreateEnvironment(testContext(t), params)
	require.NoError(t, err)
	assert.Equal(t, "JOB-42", job)

	reqs := fe.recorded()
	require.Len(t, reqs, 1)
	body := reqs[0].Body
	assert.Equal(t, TypeHostEnvironmentCreateParams, body["type"])
	user := body["primaryUser"].(map[string]any)
	assert.Equal(t, TypeSystemKeyCredential, user["credential"].(map[string]any)["type"])
	host := body["hostParameters"].(map[string]any)["host"].(map[string]any)
	assert.Equal(t, "/var/opt/delphix", host["toolkitPath"])
}

func TestEnvironmentActions(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(c *Client) (string, error)
	}{
		{"enable", "/environment/ENV-1/enable", func(c *Client) (string, error) { return c.EnableEnvironment(testContext(t), "ENV-1") }},
		{"disable", "/environment/ENV-1/disable", func(c *Client) (string, error) { return c.DisableEnvironment(testContext(t), "ENV-1") }},
		{"refresh", "/environment/ENV-1/refresh", func(c *Client) (string, error) { return c.RefreshEnvironment(testContext(t), "ENV-1") }},
		{"delete", "/environment/ENV-1/delete", func(c *Client) (string, error) { return c.DeleteEnvironment(testContext(t), "ENV-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, client := newFakeEngine(t)
			fe.on("POST", tt.path, 200, `{"type":"OKResult","status":"OK","result":"","job":"JOB-`+tt.name+`"}`)

			job, err := tt.call(client)
			require.NoError(t, err)
			assert.Equal(t, "JOB-"+tt.name, job)
		})
	}
}

func TestSynchronousActionHasNoJob(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("POST", "/host/UNIX_HOST-1", 200, okEmpty)

	job, err := client.UpdateHost(testContext(t), "UNIX_HOST-1", &Host{Type: TypeUnixHost, Address: "10.0.0.9"})
	require.NoError(t, err)
	assert.Empty(t, job)

	reqs := fe.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "10.0.0.9", reqs[0].Body["address"])
	assert.Equal(t, TypeUnixHost, reqs[0].Body["type"])
}

func TestFindEnvironmentByName(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("GET", "/environment", 200, `{"type":"ListResult","status":"OK","result":[
		{"type":"UnixHostEnvironment","reference":"ENV-1","name":"alpha"},
		{"type":"UnixHostEnvironment","reference":"ENV-2","name":"beta"}
	]}`)

	t.Run("found", func(t *testing.T) {
		env, err := client.FindEnvironmentByName(testContext(t), "beta")
		require.NoError(t, err)
		assert.Equal(t, "ENV-2", env.Reference)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := client.FindEnvironmentByName(testContext(t), "gamma")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, errors.Is(err, ErrDelphix))
		assert.Contains(t, err.Error(), "gamma")
	})
}

func TestFindHostByNameFallsBackToAddress(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("GET", "/host", 200, `{"type":"ListResult","status":"OK","result":[
		{"type":"UnixHost","reference":"UNIX_HOST-1","name":"db01","address":"10.0.0.1"},
		{"type":"WindowsHost","reference":"WINDOWS_HOST-1","name":"win01","address":"10.0.0.2"}
	]}`)

	host, err := client.FindHostByName(testContext(t), "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "WINDOWS_HOST-1", host.Reference)
	assert.True(t, host.IsWindows())

	_, err = client.FindHostByName(testContext(t), "10.0.0.3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHostNameNotFound(t *testing.T) {
	_, client := newFakeEngine(t)

	_, err := client.HostName(testContext(t), "UNIX_HOST-404")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.EnvironmentUserName(testContext(t), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetJob(t *testing.T) {
	fe, client := newFakeEngine(t)
	fe.on("GET", "/job/JOB-1", 200, `{"type":"OKResult","status":"OK","result":{
		"type":"Job","reference":"JOB-1","jobState":"FAILED","percentComplete":40,"title":"Create environment",
		"events":[{"type":"JobEvent","messageDetails":"starting"},{"type":"JobEvent","messageDetails":"Could not connect to host."}]
	}}`)

	job, err := client.GetJob(testContext(t), "JOB-1")
	require.NoError(t, err)
	assert.True(t, job.Done())
	assert.True(t, job.Failed())
	assert.Equal(t, "Could not connect to host.", job.LastMessage())

	jobErr := &JobError{Job: job}
	assert.Equal(t, "job JOB-1 failed (Create environment): Could not connect to host.", jobErr.Error())
}

// testContext returns a context canceled when the test finishes.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
