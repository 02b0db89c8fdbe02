package environment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/Quidge/dxenv/internal/pathutil"
)

// OS types accepted by Create.
const (
	TypeLinux   = "linux"
	TypeUnix    = "unix"
	TypeWindows = "windows"
)

// ErrInvalidParams is returned when an action is called with missing or
// inconsistent parameters. No engine call has been made when it is returned.
var ErrInvalidParams = errors.New("invalid parameters")

func init() {
	Register(TypeLinux, (*Service).CreateLinux)
	Register(TypeUnix, (*Service).CreateLinux)
	Register(TypeWindows, (*Service).CreateWindows)
}

func (p CreateParams) validateCommon() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: environment name is required", ErrInvalidParams)
	case p.HostUser == "":
		return fmt.Errorf("%w: host user is required", ErrInvalidParams)
	case p.Address == "":
		return fmt.Errorf("%w: host address is required", ErrInvalidParams)
	}
	return nil
}

// CreateLinux registers a Unix host environment. Without a password the
// engine authenticates with its own SSH key.
func (s *Service) CreateLinux(ctx context.Context, p CreateParams) (*Result, error) {
	if err := p.validateCommon(); err != nil {
		return nil, err
	}
	if err := pathutil.ValidateRemoteAbsolute(p.ToolkitPath); err != nil {
		return nil, fmt.Errorf("%w: toolkit: %w", ErrInvalidParams, err)
	}
	if p.ASEUser != "" && p.ASEPassword == "" {
		return nil, fmt.Errorf("%w: an ASE password is required with an ASE user", ErrInvalidParams)
	}

	cred := delphix.SystemKeyCredential()
	if p.Password != "" {
		cred = delphix.PasswordCredential(p.Password)
	}

	hostEnv := &delphix.Environment{
		Type: delphix.TypeUnixHostEnvironment,
		Name: p.Name,
	}
	if p.ASEUser != "" {
		hostEnv.ASEHostEnvironmentParameters = &delphix.ASEHostEnvironmentParameters{
			Type:        delphix.TypeASEHostEnvironmentParameters,
			DBUser:      p.ASEUser,
			Credentials: delphix.PasswordCredential(p.ASEPassword),
		}
	}

	params := &delphix.HostEnvironmentCreateParameters{
		Type: delphix.TypeHostEnvironmentCreateParams,
		PrimaryUser: &delphix.EnvironmentUser{
			Type:       delphix.TypeEnvironmentUser,
			Name:       p.HostUser,
			Credential: cred,
		},
		HostEnvironment: hostEnv,
		HostParameters: &delphix.HostCreateParameters{
			Type: delphix.TypeUnixHostCreateParameters,
			Name: p.Name,
			Host: &delphix.Host{
				Type:        delphix.TypeUnixHost,
				Name:        p.Name,
				Address:     p.Address,
				ToolkitPath: pathutil.CleanRemote(p.ToolkitPath),
			},
		},
	}

	return s.create(ctx, p, params)
}

// CreateWindows registers a Windows host environment behind a connector.
// The connector is an existing environment whose host proxies the new one.
func (s *Service) CreateWindows(ctx context.Context, p CreateParams) (*Result, error) {
	if err := p.validateCommon(); err != nil {
		return nil, err
	}
	if p.ConnectorName == "" {
		return nil, &delphix.ObjectNotFoundError{Kind: "connector host", Name: p.ConnectorName}
	}

	connector, err := s.eng.FindEnvironmentByName(ctx, p.ConnectorName)
	if err != nil {
		if errors.Is(err, delphix.ErrNotFound) {
			return nil, &delphix.ObjectNotFoundError{Kind: "connector host", Name: p.ConnectorName}
		}
		return nil, fmt.Errorf("%w: resolving connector %s: %w", delphix.ErrDelphix, p.ConnectorName, err)
	}
	if connector.Host == "" {
		return nil, &delphix.ObjectNotFoundError{Kind: "connector host", Name: p.ConnectorName}
	}

	port := p.ConnectorPort
	if port == 0 {
		port = delphix.DefaultWindowsConnectorPort
	}

	params := &delphix.HostEnvironmentCreateParameters{
		Type: delphix.TypeHostEnvironmentCreateParams,
		PrimaryUser: &delphix.EnvironmentUser{
			Type:       delphix.TypeEnvironmentUser,
			Name:       p.HostUser,
			Credential: delphix.PasswordCredential(p.Password),
		},
		HostEnvironment: &delphix.Environment{
			Type:  delphix.TypeWindowsHostEnvironment,
			Name:  p.Name,
			Proxy: connector.Host,
		},
		HostParameters: &delphix.HostCreateParameters{
			Type: delphix.TypeWindowsHostCreateParameters,
			Name: p.Name,
			Host: &delphix.Host{
				Type:          delphix.TypeWindowsHost,
				Address:       p.Address,
				ConnectorPort: port,
			},
		},
	}

	return s.create(ctx, p, params)
}

func (s *Service) create(ctx context.Context, p CreateParams, params *delphix.HostEnvironmentCreateParameters) (*Result, error) {
	log := s.log.WithField("environment", p.Name)
	log.WithField("type", params.HostEnvironment.Type).Info("creating environment")

	ref, err := s.eng.CreateEnvironment(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: creating environment %s: %w", delphix.ErrDelphix, p.Name, err)
	}

	res := &Result{Action: ActionCreate, Target: p.Name}
	res.addJob(ref)
	log.WithField("job", ref).Debug("create submitted")
	return res, nil
}
