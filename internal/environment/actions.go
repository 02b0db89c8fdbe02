package environment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Quidge/dxenv/internal/delphix"
)

// resolve finds an environment by name. A miss is returned as an
// ObjectNotFoundError; any other failure wraps ErrDelphix.
func (s *Service) resolve(ctx context.Context, name string) (*delphix.Environment, error) {
	env, err := s.eng.FindEnvironmentByName(ctx, name)
	if err != nil {
		if errors.Is(err, delphix.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: looking up environment %s: %w", delphix.ErrDelphix, name, err)
	}
	return env, nil
}

// Enable enables the named environment. A failing enable call is logged and
// not returned.
func (s *Service) Enable(ctx context.Context, name string) (*Result, error) {
	return s.toggle(ctx, ActionEnable, name, s.eng.EnableEnvironment)
}

// Disable disables the named environment. A failing disable call is logged
// and not returned.
func (s *Service) Disable(ctx context.Context, name string) (*Result, error) {
	return s.toggle(ctx, ActionDisable, name, s.eng.DisableEnvironment)
}

func (s *Service) toggle(ctx context.Context, action, name string, call func(context.Context, string) (string, error)) (*Result, error) {
	env, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	res := &Result{Action: action, Target: name}
	ref, err := call(ctx, env.Reference)
	if err != nil {
		s.log.WithError(err).WithField("environment", name).Errorf("%s of environment failed", action)
		return res, nil
	}
	res.addJob(ref)
	s.log.WithField("environment", name).Infof("%s submitted", action)
	return res, nil
}

// Delete deletes the named environment.
func (s *Service) Delete(ctx context.Context, name string) (*Result, error) {
	env, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	ref, err := s.eng.DeleteEnvironment(ctx, env.Reference)
	if err != nil {
		return nil, fmt.Errorf("%w: deleting environment %s: %w", delphix.ErrDelphix, name, err)
	}

	res := &Result{Action: ActionDelete, Target: name}
	res.addJob(ref)
	s.log.WithField("environment", name).Info("delete submitted")
	return res, nil
}

// Refresh refreshes the named environment, or every environment when name is
// RefreshAll. With RefreshAll each failure is logged and the remaining
// environments are still refreshed; the failures are returned together.
func (s *Service) Refresh(ctx context.Context, name string) (*Result, error) {
	res := &Result{Action: ActionRefresh, Target: name}

	if name != RefreshAll {
		env, err := s.resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		ref, err := s.eng.RefreshEnvironment(ctx, env.Reference)
		if err != nil {
			return nil, fmt.Errorf("%w: refreshing environment %s: %w", delphix.ErrDelphix, name, err)
		}
		res.addJob(ref)
		s.log.WithField("environment", name).Info("refresh submitted")
		return res, nil
	}

	envs, err := s.eng.ListEnvironments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing environments: %w", delphix.ErrDelphix, err)
	}

	var errs []error
	for _, env := range envs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		log := s.log.WithField("environment", env.Name)
		ref, err := s.eng.RefreshEnvironment(ctx, env.Reference)
		if err != nil {
			log.WithError(err).Error("refresh failed")
			errs = append(errs, fmt.Errorf("refreshing environment %s: %w", env.Name, err))
			continue
		}
		res.addJob(ref)
		log.Info("refresh submitted")
	}

	if len(errs) > 0 {
		return res, fmt.Errorf("%w: %d of %d refreshes failed: %w", delphix.ErrDelphix, len(errs), len(envs), errors.Join(errs...))
	}
	return res, nil
}

// UpdateHostAddress points the host currently known as oldAddress at
// newAddress. A failing update call is logged and not returned.
func (s *Service) UpdateHostAddress(ctx context.Context, oldAddress, newAddress string) (*Result, error) {
	if oldAddress == "" || newAddress == "" {
		return nil, fmt.Errorf("%w: both the old and the new host address are required", ErrInvalidParams)
	}

	host, err := s.eng.FindHostByName(ctx, oldAddress)
	if err != nil {
		if errors.Is(err, delphix.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: looking up host %s: %w", delphix.ErrDelphix, oldAddress, err)
	}

	update := &delphix.Host{Type: delphix.TypeUnixHost, Address: newAddress}
	if host.IsWindows() {
		update.Type = delphix.TypeWindowsHost
	}

	res := &Result{Action: ActionUpdateHost, Target: oldAddress}
	log := s.log.WithField("host", host.Name)
	ref, err := s.eng.UpdateHost(ctx, host.Reference, update)
	if err != nil {
		log.WithError(err).Error("updating host address failed")
		return res, nil
	}
	res.addJob(ref)
	log.WithField("address", newAddress).Info("host address updated")
	return res, nil
}

// UpdateASEPassword replaces the ASE database password of a Unix environment.
func (s *Service) UpdateASEPassword(ctx context.Context, name, password string) (*Result, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: an ASE password is required", ErrInvalidParams)
	}
	return s.updateASE(ctx, name, &delphix.ASEHostEnvironmentParameters{
		Type:        delphix.TypeASEHostEnvironmentParameters,
		Credentials: delphix.PasswordCredential(password),
	})
}

// UpdateASEUser replaces the ASE database user of a Unix environment.
func (s *Service) UpdateASEUser(ctx context.Context, name, user string) (*Result, error) {
	if user == "" {
		return nil, fmt.Errorf("%w: an ASE user is required", ErrInvalidParams)
	}
	return s.updateASE(ctx, name, &delphix.ASEHostEnvironmentParameters{
		Type:   delphix.TypeASEHostEnvironmentParameters,
		DBUser: user,
	})
}

func (s *Service) updateASE(ctx context.Context, name string, params *delphix.ASEHostEnvironmentParameters) (*Result, error) {
	env, err := s.resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	if env.Type != delphix.TypeUnixHostEnvironment {
		return nil, fmt.Errorf("%w: environment %s is a %s, ASE parameters need a Unix host environment", ErrInvalidParams, name, env.Type)
	}

	update := &delphix.Environment{
		Type:                         delphix.TypeUnixHostEnvironment,
		ASEHostEnvironmentParameters: params,
	}
	ref, err := s.eng.UpdateEnvironment(ctx, env.Reference, update)
	if err != nil {
		return nil, fmt.Errorf("%w: updating ASE parameters of %s: %w", delphix.ErrDelphix, name, err)
	}

	res := &Result{Action: ActionUpdateASE, Target: name}
	res.addJob(ref)
	s.log.WithField("environment", name).Info("ASE parameters updated")
	return res, nil
}
