package environment

import (
	"context"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/stretchr/testify/mock"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) ListEnvironments(ctx context.Context) ([]delphix.Environment, error) {
	args := m.Called(ctx)
	envs, _ := args.Get(0).([]delphix.Environment)
	return envs, args.Error(1)
}

func (m *mockEngine) FindEnvironmentByName(ctx context.Context, name string) (*delphix.Environment, error) {
	args := m.Called(ctx, name)
	env, _ := args.Get(0).(*delphix.Environment)
	return env, args.Error(1)
}

func (m *mockEngine) CreateEnvironment(ctx context.Context, params *delphix.HostEnvironmentCreateParameters) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) UpdateEnvironment(ctx context.Context, ref string, update *delphix.Environment) (string, error) {
	args := m.Called(ctx, ref, update)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) DeleteEnvironment(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) EnableEnvironment(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) DisableEnvironment(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) RefreshEnvironment(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) FindHostByName(ctx context.Context, name string) (*delphix.Host, error) {
	args := m.Called(ctx, name)
	host, _ := args.Get(0).(*delphix.Host)
	return host, args.Error(1)
}

func (m *mockEngine) UpdateHost(ctx context.Context, ref string, update *delphix.Host) (string, error) {
	args := m.Called(ctx, ref, update)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) EnvironmentUserName(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *mockEngine) HostName(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func notFound(kind, name string) error {
	return &delphix.ObjectNotFoundError{Kind: kind, Name: name}
}
