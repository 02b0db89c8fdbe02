//go:build conformance

package conformance

import (
	"errors"
	"testing"

	"github.com/Quidge/dxenv/internal/delphix"
	"github.com/Quidge/dxenv/internal/environment"
)

// ConformanceSuite defines the checks run against a live engine.
type ConformanceSuite struct {
	Engine *TestEngine
}

// Run executes all conformance tests.
func (s *ConformanceSuite) Run(t *testing.T) {
	t.Run("Lookups", s.testLookups)
	t.Run("Lifecycle", s.testLifecycle)
}

// missingName is an environment name no engine should have.
const missingName = "dxenv-conformance-does-not-exist"

func (s *ConformanceSuite) testLookups(t *testing.T) {
	e := s.Engine

	t.Run("List", func(t *testing.T) {
		res, err := e.Service.List(e.Ctx)
		if err != nil {
			t.Fatalf("List() returned error: %v", err)
		}
		for _, sum := range res.Environments {
			if sum.Name == "" {
				t.Errorf("environment with empty name in listing: %+v", sum)
			}
		}
	})

	t.Run("DeleteNotFound", func(t *testing.T) {
		_, err := e.Service.Delete(e.Ctx, missingName)
		if !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("EnableNotFound", func(t *testing.T) {
		_, err := e.Service.Enable(e.Ctx, missingName)
		if !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("RefreshNotFound", func(t *testing.T) {
		_, err := e.Service.Refresh(e.Ctx, missingName)
		if !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("UpdateHostNotFound", func(t *testing.T) {
		_, err := e.Service.UpdateHostAddress(e.Ctx, "192.0.2.254", "192.0.2.253")
		if !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("WindowsUnknownConnector", func(t *testing.T) {
		_, err := e.Service.CreateWindows(e.Ctx, environment.CreateParams{
			Type:          environment.TypeWindows,
			Name:          missingName,
			HostUser:      "delphix",
			Address:       "192.0.2.1",
			Password:      "unused",
			ConnectorName: missingName,
		})
		if !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func (s *ConformanceSuite) testLifecycle(t *testing.T) {
	e := s.Engine
	p := LinuxParams(t)
	if p == nil {
		t.Skip("DXENV_CONFORMANCE_LINUX_* not set")
	}

	res, err := e.Service.Create(e.Ctx, *p)
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	e.Wait(res)

	t.Cleanup(func() {
		res, err := e.Service.Delete(e.Ctx, p.Name)
		if err != nil {
			if !errors.Is(err, delphix.ErrNotFound) {
				t.Errorf("cleanup delete of %s: %v", p.Name, err)
			}
			return
		}
		e.Wait(res)
	})

	t.Run("Disable", func(t *testing.T) {
		res, err := e.Service.Disable(e.Ctx, p.Name)
		if err != nil {
			t.Fatalf("Disable() returned error: %v", err)
		}
		e.Wait(res)
		e.AssertEnabled(p.Name, false)
	})

	t.Run("Enable", func(t *testing.T) {
		res, err := e.Service.Enable(e.Ctx, p.Name)
		if err != nil {
			t.Fatalf("Enable() returned error: %v", err)
		}
		e.Wait(res)
		e.AssertEnabled(p.Name, true)
	})

	t.Run("Refresh", func(t *testing.T) {
		res, err := e.Service.Refresh(e.Ctx, p.Name)
		if err != nil {
			t.Fatalf("Refresh() returned error: %v", err)
		}
		e.Wait(res)
	})

	t.Run("Listed", func(t *testing.T) {
		res, err := e.Service.List(e.Ctx)
		if err != nil {
			t.Fatalf("List() returned error: %v", err)
		}
		for _, sum := range res.Environments {
			if sum.Name == p.Name {
				if sum.Host == "" {
					t.Errorf("expected a host for %s", p.Name)
				}
				return
			}
		}
		t.Errorf("environment %s not listed", p.Name)
	})

	t.Run("Delete", func(t *testing.T) {
		res, err := e.Service.Delete(e.Ctx, p.Name)
		if err != nil {
			t.Fatalf("Delete() returned error: %v", err)
		}
		e.Wait(res)
		if _, err := e.Client.FindEnvironmentByName(e.Ctx, p.Name); !errors.Is(err, delphix.ErrNotFound) {
			t.Errorf("expected %s to be gone, got %v", p.Name, err)
		}
	})
}
