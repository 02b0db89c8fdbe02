package env

import (
	"context"
	"fmt"
	"strings"

	"github.com/Quidge/dxenv/internal/environment"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new environment",
	Long: `Register a new Linux or Windows environment.

Linux environments need a toolkit directory writable by the host user. When
--passwd is omitted the engine authenticates with its own SSH key.

Windows environments are reached through a Delphix connector: --connector_name
names an existing environment whose host acts as the proxy.`,
	Example: `  dxenv env create --type linux --env_name linux1 --host_user delphix \
    --ip 10.0.1.20 --toolkit /var/opt/delphix/toolkit

  dxenv env create --type windows --env_name win1 --host_user 'DOMAIN\delphix' \
    --ip 10.0.1.50 --passwd secret --connector_name 10.0.1.60`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var createParams environment.CreateParams

func init() {
	f := createCmd.Flags()
	f.StringVar(&createParams.Type, "type", "", fmt.Sprintf("environment type (%s)", strings.Join(environment.RegisteredTypes(), ", ")))
	f.StringVar(&createParams.Name, "env-name", "", "name of the new environment")
	f.StringVar(&createParams.HostUser, "host-user", "", "OS user the engine connects as")
	f.StringVar(&createParams.Address, "ip", "", "DNS name or IP address of the host")
	f.StringVar(&createParams.Password, "passwd", "", "password of the host user")
	f.StringVar(&createParams.ToolkitPath, "toolkit", "", "toolkit directory on a Linux host")
	f.StringVar(&createParams.ASEUser, "ase-user", "", "SAP ASE database user")
	f.StringVar(&createParams.ASEPassword, "ase-pw", "", "password of the SAP ASE database user")
	f.StringVar(&createParams.ConnectorName, "connector-name", "", "environment whose host is the Windows connector")
	f.IntVar(&createParams.ConnectorPort, "connector-port", 0, "connector port on the Windows host (default 9100)")

	for _, name := range []string{"type", "env-name", "host-user", "ip"} {
		_ = createCmd.MarkFlagRequired(name)
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	p := createParams
	p.Type = strings.ToLower(p.Type)

	// Reject bad input before any engine is contacted
	if _, err := environment.Lookup(p.Type); err != nil {
		return err
	}

	_, err := execute(cmd, action{
		Name:   environment.ActionCreate,
		Target: p.Name,
		Run: func(ctx context.Context, svc *environment.Service) (*environment.Result, error) {
			return svc.Create(ctx, p)
		},
	})
	return err
}
