package delphix

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// apiRoot is the prefix of every engine resource path.
const apiRoot = "/resources/json/delphix"

// DefaultTimeout bounds a single request to the engine.
const DefaultTimeout = 60 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the engine URL, e.g. "https://10.0.1.10:443".
	BaseURL string

	Username string
	Password string

	// Domain is the login target. Defaults to DefaultLoginTarget.
	Domain string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// APIVersion is sent when the session is created. Defaults to DefaultAPIVersion.
	APIVersion *APIVersion

	Logger logrus.FieldLogger
}

// Client talks to a single engine. It keeps the session cookie between
// calls, so Login must succeed before any other call.
type Client struct {
	rc   *resty.Client
	opts Options
	log  logrus.FieldLogger
}

// envelope is the wrapper the engine puts around every response.
type envelope struct {
	Type   string          `json:"type"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Job    string          `json:"job"`
	Action string          `json:"action"`
	Error  *apiErrorBody   `json:"error"`
}

type apiErrorBody struct {
	Type          string `json:"type"`
	Details       any    `json:"details"`
	Action        string `json:"action"`
	ID            string `json:"id"`
	CommandOutput string `json:"commandOutput"`
}

// NewClient builds a client for the engine described by opts. No request is
// made until Login is called.
func NewClient(opts Options) *Client {
	if opts.Domain == "" {
		opts.Domain = DefaultLoginTarget
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.APIVersion == nil {
		v := DefaultAPIVersion
		opts.APIVersion = &v
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	jar, _ := cookiejar.New(nil)
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if opts.InsecureSkipVerify {
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{rc: rc, opts: opts, log: log}
}

// Close releases the resources held by the underlying HTTP client. The
// client must not be used afterwards.
func (c *Client) Close() error {
	return c.rc.Close()
}

// BaseURL returns the engine URL the client was built for.
func (c *Client) BaseURL() string {
	return c.opts.BaseURL
}

// Login creates an API session and authenticates it.
func (c *Client) Login(ctx context.Context) error {
	session := map[string]any{
		"type":    TypeAPISession,
		"version": c.opts.APIVersion,
	}
	if _, err := c.do(ctx, http.MethodPost, "/session", session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	login := map[string]any{
		"type":     TypeLoginRequest,
		"username": c.opts.Username,
		"password": c.opts.Password,
		"target":   c.opts.Domain,
	}
	if _, err := c.do(ctx, http.MethodPost, "/login", login); err != nil {
		return fmt.Errorf("failed to log in as %s: %w", c.opts.Username, err)
	}

	c.log.WithField("url", c.opts.BaseURL).Debug("session established")
	return nil
}

// do sends one request and unwraps the result envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("engine request")

	resp, err := req.Execute(method, apiRoot+path)
	if err != nil {
		return nil, &HTTPError{Method: method, Path: path, Err: err}
	}

	var env envelope
	if uerr := json.Unmarshal([]byte(resp.String()), &env); uerr != nil || env.Type == "" {
		if resp.IsError() {
			return nil, &HTTPError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode(),
				Status:     resp.Status(),
			}
		}
		if uerr == nil {
			uerr = fmt.Errorf("missing result type")
		}
		return nil, &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Err:        fmt.Errorf("failed to decode response: %w", uerr),
		}
	}

	if env.Type == resultTypeError || env.Status == resultStatusError {
		return nil, newAPIError(path, env.Error)
	}

	return &env, nil
}

// decodeResult unmarshals the envelope result into T.
func decodeResult[T any](env *envelope) (T, error) {
	var out T
	if len(env.Result) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(env.Result, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s result: %w", env.Type, err)
	}
	return out, nil
}

func newAPIError(path string, body *apiErrorBody) *APIError {
	if body == nil {
		return &APIError{Path: path, Details: "unknown error"}
	}
	details := ""
	switch d := body.Details.(type) {
	case string:
		details = d
	case nil:
	default:
		// Validation errors come back as a map of field -> error.
		b, _ := json.Marshal(d)
		details = string(b)
	}
	return &APIError{
		Path:          path,
		ID:            body.ID,
		Details:       details,
		Action:        body.Action,
		CommandOutput: body.CommandOutput,
	}
}
