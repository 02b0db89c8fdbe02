package environment

import (
	"context"
	"fmt"

	"github.com/Quidge/dxenv/internal/delphix"
)

// List returns a summary of every environment on the engine. Names that
// cannot be resolved are left blank.
func (s *Service) List(ctx context.Context) (*Result, error) {
	envs, err := s.eng.ListEnvironments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing environments: %w", delphix.ErrDelphix, err)
	}

	res := &Result{Action: ActionList, Environments: make([]Summary, 0, len(envs))}
	for i := range envs {
		env := &envs[i]
		log := s.log.WithField("environment", env.Name)

		sum := Summary{Name: env.Name, Type: env.Type, Enabled: env.Enabled}

		user, err := s.eng.EnvironmentUserName(ctx, env.PrimaryUser)
		if err != nil {
			log.WithError(err).Debug("primary user lookup failed")
		}
		sum.User = user

		if !env.IsCluster() {
			host, err := s.eng.HostName(ctx, env.Host)
			if err != nil {
				log.WithError(err).Debug("host lookup failed")
			}
			sum.Host = host
		}

		if env.Type == delphix.TypeUnixHostEnvironment {
			sum.ASEParams = env.ASEHostEnvironmentParameters.String()
		}

		res.Environments = append(res.Environments, sum)
	}
	return res, nil
}

// String renders the summary as a single listing line.
func (s Summary) String() string {
	switch {
	case s.Type == delphix.TypeWindowsCluster || s.Type == delphix.TypeOracleCluster:
		return fmt.Sprintf("Environment Name: %s, Username: %s, Enabled: %t", s.Name, s.User, s.Enabled)
	case s.ASEParams == "":
		return fmt.Sprintf("Environment Name: %s, Username: %s, Host: %s, Enabled: %t", s.Name, s.User, s.Host, s.Enabled)
	default:
		return fmt.Sprintf("Environment Name: %s, Username: %s, Host: %s, Enabled: %t, ASE Environment Params: %s",
			s.Name, s.User, s.Host, s.Enabled, s.ASEParams)
	}
}
