package environment

import (
	"context"
	"testing"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredTypes(t *testing.T) {
	assert.Equal(t, []string{TypeLinux, TypeUnix, TypeWindows}, RegisteredTypes())
}

func TestLookupUnknownType(t *testing.T) {
	_, err := Lookup("solaris")
	require.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), "solaris")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.PanicsWithValue(t, `environment type "linux" already registered`, func() {
		Register(TypeLinux, (*Service).CreateLinux)
	})
}

func TestCreateDispatchesByType(t *testing.T) {
	eng := &mockEngine{}
	eng.On("CreateEnvironment", anyArg, anyArg).Return("JOB-1", nil)

	p := linuxParams()
	p.Type = TypeUnix
	res, err := newService(eng).Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"JOB-1"}, res.Jobs)

	got := eng.Calls[0].Arguments.Get(1).(*delphix.HostEnvironmentCreateParameters)
	assert.Equal(t, delphix.TypeUnixHostEnvironment, got.HostEnvironment.Type)
}

func TestCreateUnknownType(t *testing.T) {
	eng := &mockEngine{}
	p := linuxParams()
	p.Type = "aix"

	_, err := newService(eng).Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnknownType)
	eng.AssertNotCalled(t, "CreateEnvironment", anyArg, anyArg)
}
