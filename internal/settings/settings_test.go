package settings

import (
	"testing"
	"time"

	"github.com/Quidge/dxenv/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetNormalizeFunc(NormalizeFlagName)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPath, s.ConfigPath)
	assert.Equal(t, 10*time.Second, s.Poll)
	assert.Equal(t, "./dx_environment.log", s.LogPath)
	assert.Equal(t, "text", s.LogFormat)
	assert.Zero(t, s.Parallel)
	assert.Zero(t, s.Timeout)
	assert.False(t, s.NoWait)
	assert.Equal(t, config.SelectOptions{}, s.Selection())
}

func TestLoadFlags(t *testing.T) {
	s, err := Load(newFlagSet(t,
		"--engine", "landshark",
		"--poll", "3",
		"--parallel", "2",
		"--timeout", "5m",
		"--state_db", "/tmp/state.db",
		"--no_wait",
		"--debug",
	))
	require.NoError(t, err)

	assert.Equal(t, "landshark", s.Engine)
	assert.Equal(t, 3*time.Second, s.Poll)
	assert.Equal(t, 2, s.Parallel)
	assert.Equal(t, 5*time.Minute, s.Timeout)
	assert.Equal(t, "/tmp/state.db", s.StateDB)
	assert.True(t, s.NoWait)
	assert.True(t, s.Debug)
	assert.Equal(t, config.SelectOptions{Engine: "landshark"}, s.Selection())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("DXENV_CONFIG", "/etc/dxtools.conf")
	t.Setenv("DXENV_ALL", "true")
	t.Setenv("DXENV_LOG_FORMAT", "json")

	s, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, "/etc/dxtools.conf", s.ConfigPath)
	assert.True(t, s.All)
	assert.Equal(t, "json", s.LogFormat)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("DXENV_POLL", "30")

	s, err := Load(newFlagSet(t, "--poll", "5"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.Poll)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero poll", []string{"--poll", "0"}},
		{"negative parallel", []string{"--parallel", "-1"}},
		{"engine and all", []string{"--engine", "a", "--all"}},
		{"bad log format", []string{"--log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlagSet(t, tt.args...))
			assert.Error(t, err)
		})
	}
}
