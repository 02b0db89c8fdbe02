// Package environment implements the environment lifecycle actions: create,
// enable, disable, refresh, delete, host address updates and listing.
//
// Every action resolves names against one engine, issues the API calls and
// returns a Result carrying the job references it started. Actions never
// wait for jobs; that is left to the caller.
package environment

import (
	"context"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/sirupsen/logrus"
)

// Engine is the subset of the engine API used by the actions.
// *delphix.Client satisfies it.
type Engine interface {
	ListEnvironments(ctx context.Context) ([]delphix.Environment, error)
	FindEnvironmentByName(ctx context.Context, name string) (*delphix.Environment, error)
	CreateEnvironment(ctx context.Context, params *delphix.HostEnvironmentCreateParameters) (string, error)
	UpdateEnvironment(ctx context.Context, ref string, update *delphix.Environment) (string, error)
	DeleteEnvironment(ctx context.Context, ref string) (string, error)
	EnableEnvironment(ctx context.Context, ref string) (string, error)
	DisableEnvironment(ctx context.Context, ref string) (string, error)
	RefreshEnvironment(ctx context.Context, ref string) (string, error)

	FindHostByName(ctx context.Context, name string) (*delphix.Host, error)
	UpdateHost(ctx context.Context, ref string, update *delphix.Host) (string, error)

	EnvironmentUserName(ctx context.Context, ref string) (string, error)
	HostName(ctx context.Context, ref string) (string, error)
}

var _ Engine = (*delphix.Client)(nil)

// Action names recorded in results and in the job ledger.
const (
	ActionCreate     = "create"
	ActionDelete     = "delete"
	ActionEnable     = "enable"
	ActionDisable    = "disable"
	ActionRefresh    = "refresh"
	ActionUpdateHost = "update-host"
	ActionUpdateASE  = "update-ase"
	ActionList       = "list"
)

// RefreshAll is the environment name that refreshes every environment.
const RefreshAll = "all"

// Result is what an action reports back.
type Result struct {
	Action string
	Target string

	// Jobs holds the references of the jobs started, in call order.
	// Synchronous calls contribute nothing.
	Jobs []string

	// Environments is only set by List.
	Environments []Summary
}

func (r *Result) addJob(ref string) {
	if ref != "" {
		r.Jobs = append(r.Jobs, ref)
	}
}

// Summary is one row of an environment listing.
type Summary struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	User      string `json:"user"`
	Host      string `json:"host,omitempty"`
	Enabled   bool   `json:"enabled"`
	ASEParams string `json:"aseParams,omitempty"`
}

// Service runs actions against a single engine.
type Service struct {
	eng Engine
	log logrus.FieldLogger
}

// New returns a Service for eng. A nil log discards output.
func New(eng Engine, log logrus.FieldLogger) *Service {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Service{eng: eng, log: log}
}
