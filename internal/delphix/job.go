package delphix

import (
	"context"
	"net/http"
	"net/url"
)

// GetJob reads the current state of a job.
func (c *Client) GetJob(ctx context.Context, ref string) (*Job, error) {
	env, err := c.do(ctx, http.MethodGet, "/job/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	out, err := decodeResult[Job](env)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
