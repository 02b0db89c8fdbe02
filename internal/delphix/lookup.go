package delphix

import (
	"context"
	"errors"
	"net/http"
)

// FindEnvironmentByName returns the environment with the given name.
func (c *Client) FindEnvironmentByName(ctx context.Context, name string) (*Environment, error) {
	envs, err := c.ListEnvironments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range envs {
		if envs[i].Name == name {
			return &envs[i], nil
		}
	}
	return nil, &ObjectNotFoundError{Kind: "environment", Name: name}
}

// FindHostByName returns the host whose name matches. Hosts registered by
// address carry the address as their name, so the address is checked too.
func (c *Client) FindHostByName(ctx context.Context, name string) (*Host, error) {
	hosts, err := c.ListHosts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range hosts {
		if hosts[i].Name == name {
			return &hosts[i], nil
		}
	}
	for i := range hosts {
		if hosts[i].Address == name {
			return &hosts[i], nil
		}
	}
	return nil, &ObjectNotFoundError{Kind: "host", Name: name}
}

// EnvironmentUserName resolves an environment user reference to its name.
func (c *Client) EnvironmentUserName(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", &ObjectNotFoundError{Kind: "environment user", Name: ref}
	}
	user, err := c.GetEnvironmentUser(ctx, ref)
	if err != nil {
		return "", notFoundOn404(err, "environment user", ref)
	}
	return user.Name, nil
}

// HostName resolves a host reference to its name.
func (c *Client) HostName(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", &ObjectNotFoundError{Kind: "host", Name: ref}
	}
	host, err := c.GetHost(ctx, ref)
	if err != nil {
		return "", notFoundOn404(err, "host", ref)
	}
	return host.Name, nil
}

// notFoundOn404 turns a 404 into an ObjectNotFoundError and passes any
// other error through.
func notFoundOn404(err error, kind, name string) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return &ObjectNotFoundError{Kind: kind, Name: name}
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ID == "exception.webservices.objectnotfound" {
		return &ObjectNotFoundError{Kind: kind, Name: name}
	}
	return err
}
