package delphix

import (
	"context"
	"net/http"
	"net/url"
)

// ListHosts returns every host known to the engine.
func (c *Client) ListHosts(ctx context.Context) ([]Host, error) {
	env, err := c.do(ctx, http.MethodGet, "/host", nil)
	if err != nil {
		return nil, err
	}
	return decodeResult[[]Host](env)
}

// GetHost reads one host by reference.
func (c *Client) GetHost(ctx context.Context, ref string) (*Host, error) {
	env, err := c.do(ctx, http.MethodGet, "/host/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResult[Host](env)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHost applies a partial update to a host.
func (c *Client) UpdateHost(ctx context.Context, ref string, update *Host) (string, error) {
	return c.post(ctx, "/host/"+url.PathEscape(ref), update)
}
