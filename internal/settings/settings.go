// Package settings defines the global command-line options and resolves
// them from flags, DXENV_* environment variables and defaults, in that order.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/Quidge/dxenv/internal/config"
	"github.com/Quidge/dxenv/internal/jobs"
	"github.com/Quidge/dxenv/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variable of every option, e.g.
// DXENV_ENGINE for --engine.
const EnvPrefix = "DXENV"

// Option names. Each is a persistent flag on the root command.
const (
	KeyConfig    = "config"
	KeyEngine    = "engine"
	KeyAll       = "all"
	KeyPoll      = "poll"
	KeyLogDir    = "logdir"
	KeyDebug     = "debug"
	KeyLogFormat = "log-format"
	KeyParallel  = "parallel"
	KeyTimeout   = "timeout"
	KeyStateDB   = "state-db"
	KeyNoWait    = "no-wait"
)

// Settings are the resolved global options.
type Settings struct {
	ConfigPath string
	Engine     string
	All        bool

	// Poll is the interval between two job state checks.
	Poll time.Duration

	LogPath   string
	Debug     bool
	LogFormat string

	// Parallel bounds how many engines are worked on at once; 0 is unbounded.
	Parallel int

	// Timeout bounds the wait for a single job; 0 waits forever.
	Timeout time.Duration

	StateDB string
	NoWait  bool
}

// AddFlags registers the global options on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, config.DefaultPath, "engine configuration file")
	fs.String(KeyEngine, "", "run against this engine only (hostname from the configuration)")
	fs.Bool(KeyAll, false, "run against every configured engine")
	fs.Int(KeyPoll, int(jobs.DefaultInterval/time.Second), "seconds between job state checks")
	fs.String(KeyLogDir, logging.DefaultPath, "log file (lines are appended)")
	fs.Bool(KeyDebug, false, "enable debug logging")
	fs.String(KeyLogFormat, "text", "log format: text or json")
	fs.Int(KeyParallel, 0, "maximum engines worked on at once (0 = all)")
	fs.Duration(KeyTimeout, 0, "maximum wait for a single job (0 = no limit)")
	fs.String(KeyStateDB, "", "job ledger database (default $XDG_DATA_HOME/dxenv/state.db)")
	fs.Bool(KeyNoWait, false, "return once jobs are submitted instead of waiting for them")
}

// NormalizeFlagName lets every flag be spelled with underscores as well as
// dashes, so --env_name and --env-name are the same flag.
func NormalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Load resolves the options registered by AddFlags from fs and the
// environment.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	s := &Settings{
		ConfigPath: v.GetString(KeyConfig),
		Engine:     v.GetString(KeyEngine),
		All:        v.GetBool(KeyAll),
		Poll:       time.Duration(v.GetInt(KeyPoll)) * time.Second,
		LogPath:    v.GetString(KeyLogDir),
		Debug:      v.GetBool(KeyDebug),
		LogFormat:  v.GetString(KeyLogFormat),
		Parallel:   v.GetInt(KeyParallel),
		Timeout:    v.GetDuration(KeyTimeout),
		StateDB:    v.GetString(KeyStateDB),
		NoWait:     v.GetBool(KeyNoWait),
	}
	return s, s.validate()
}

func (s *Settings) validate() error {
	switch {
	case s.Poll <= 0:
		return fmt.Errorf("--%s must be at least 1 second", KeyPoll)
	case s.Parallel < 0:
		return fmt.Errorf("--%s must not be negative", KeyParallel)
	case s.Timeout < 0:
		return fmt.Errorf("--%s must not be negative", KeyTimeout)
	case s.Engine != "" && s.All:
		return fmt.Errorf("--%s and --%s are mutually exclusive", KeyEngine, KeyAll)
	case s.LogFormat != "text" && s.LogFormat != "json":
		return fmt.Errorf("--%s must be text or json, got %q", KeyLogFormat, s.LogFormat)
	}
	return nil
}

// Selection returns the engine selection implied by the options.
func (s *Settings) Selection() config.SelectOptions {
	return config.SelectOptions{Engine: s.Engine, All: s.All}
}
