package delphix

import (
	"context"
	"net/http"
	"net/url"
)

// ListEnvironments returns every environment known to the engine.
func (c *Client) ListEnvironments(ctx context.Context) ([]Environment, error) {
	env, err := c.do(ctx, http.MethodGet, "/environment", nil)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]Environment](env)
}

// GetEnvironment reads one environment by reference.
func (c *Client) GetEnvironment(ctx context.Context, ref string) (*Environment, error) {
	env, err := c.do(ctx, http.MethodGet, "/environment/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResult[Environment](env)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEnvironment registers a new environment and returns the job that
// discovers it.
func (c *Client) CreateEnvironment(ctx context.Context, params *HostEnvironmentCreateParameters) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/environment", params)
	if err != nil {
		return "", err
	}
	return env.Job, nil
}

// UpdateEnvironment applies a partial update to an environment.
func (c *Client) UpdateEnvironment(ctx context.Context, ref string, update *Environment) (string, error) {
	return c.post(ctx, "/environment/"+url.PathEscape(ref), update)
}

// DeleteEnvironment removes an environment.
func (c *Client) DeleteEnvironment(ctx context.Context, ref string) (string, error) {
	return c.post(ctx, "/environment/"+url.PathEscape(ref)+"/delete", nil)
}

// EnableEnvironment enables an environment.
func (c *Client) EnableEnvironment(ctx context.Context, ref string) (string, error) {
	return c.post(ctx, "/environment/"+url.PathEscape(ref)+"/enable", nil)
}

// DisableEnvironment disables an environment.
func (c *Client) DisableEnvironment(ctx context.Context, ref string) (string, error) {
	return c.post(ctx, "/environment/"+url.PathEscape(ref)+"/disable", nil)
}

// RefreshEnvironment re-discovers the software installed on an environment.
func (c *Client) RefreshEnvironment(ctx context.Context, ref string) (string, error) {
	return c.post(ctx, "/environment/"+url.PathEscape(ref)+"/refresh", nil)
}

// ListEnvironmentUsers returns every environment user.
func (c *Client) ListEnvironmentUsers(ctx context.Context) ([]EnvironmentUser, error) {
	env, err := c.do(ctx, http.MethodGet, "/environment/user", nil)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]EnvironmentUser](env)
}

// GetEnvironmentUser reads one environment user by reference.
func (c *Client) GetEnvironmentUser(ctx context.Context, ref string) (*EnvironmentUser, error) {
	env, err := c.do(ctx, http.MethodGet, "/environment/user/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResult[EnvironmentUser](env)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends a mutating request and returns the job reference, which is
// empty when the engine completed the operation synchronously.
func (c *Client) post(ctx context.Context, path string, body any) (string, error) {
	if body == nil {
		body = map[string]any{}
	}
	env, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	return env.Job, nil
}
