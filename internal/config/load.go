package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Quidge/dxenv/internal/pathutil"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the engine configuration used when --config is not given.
const DefaultPath = "./dxtools.conf"

// Default ports for the engine API.
const (
	DefaultHTTPPort  = 80
	DefaultHTTPSPort = 443
)

var (
	// ErrNoEngines is returned when the configuration lists no engines.
	ErrNoEngines = errors.New("no engines configured")

	// ErrEngineNotFound is returned when --engine names an unknown engine.
	ErrEngineNotFound = errors.New("engine not found in configuration")

	// ErrNoDefaultEngine is returned when no engine is selected and none is
	// marked as default.
	ErrNoDefaultEngine = errors.New("no default engine configured")
)

// Load reads, expands and validates the engine configuration at path.
// An empty path means DefaultPath.
func Load(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("engine configuration %s does not exist (run \"dxenv config init\" to create one)", expanded)
		}
		return nil, fmt.Errorf("failed to read engine configuration: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", expanded, err)
	}
	cfg.Path = expanded

	// password_file entries are relative to the configuration file
	baseDir := filepath.Dir(expanded)
	for i := range cfg.Engines {
		if err := resolvePassword(&cfg.Engines[i], baseDir); err != nil {
			return nil, fmt.Errorf("engine %d (%s): %w", i, cfg.Engines[i].Hostname, err)
		}
	}

	return cfg, nil
}

// Parse decodes configuration data, applies defaults and validates it.
func Parse(data []byte) (*File, error) {
	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Engines {
		cfg.Engines[i] = applyEngineDefaults(cfg.Engines[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEngineDefaults fills in missing fields and expands ${VAR} references.
func applyEngineDefaults(e Engine) Engine {
	e.IPAddress = ExpandEnvVars(e.IPAddress)
	e.Username = ExpandEnvVars(e.Username)
	e.Password = ExpandEnvVars(e.Password)
	e.Domain = ExpandEnvVars(e.Domain)

	if e.Port == 0 {
		if e.UseHTTPS {
			e.Port = DefaultHTTPSPort
		} else {
			e.Port = DefaultHTTPPort
		}
	}
	if e.Domain == "" {
		e.Domain = "DOMAIN"
	}
	return e
}

// Validate checks that every engine has the fields needed to log in and
// that hostnames are unique.
func (f *File) Validate() error {
	if len(f.Engines) == 0 {
		return ErrNoEngines
	}

	seen := make(map[string]bool, len(f.Engines))
	for i, e := range f.Engines {
		if e.Hostname == "" {
			return fmt.Errorf("engine %d: hostname is required", i)
		}
		if seen[e.Hostname] {
			return fmt.Errorf("engine %d: duplicate hostname %q", i, e.Hostname)
		}
		seen[e.Hostname] = true

		if e.IPAddress == "" {
			return fmt.Errorf("engine %d (%s): ip_address is required", i, e.Hostname)
		}
		if e.Username == "" {
			return fmt.Errorf("engine %d (%s): username is required", i, e.Hostname)
		}
		if e.Port < 1 || e.Port > 65535 {
			return fmt.Errorf("engine %d (%s): port %d out of range", i, e.Hostname, e.Port)
		}
	}
	return nil
}

// resolvePassword reads password_file when no inline password is set.
func resolvePassword(e *Engine, baseDir string) error {
	if e.Password != "" || e.PasswordFile == "" {
		return nil
	}
	path, err := ExpandPath(ExpandEnvVars(e.PasswordFile))
	if err != nil {
		return err
	}
	e.Password, err = ReadFromFile(pathutil.ResolveRelative(baseDir, path))
	return err
}

// WriteTemplate writes the commented sample configuration to path. It
// refuses to overwrite an existing file.
func WriteTemplate(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("%s already exists", expanded)
	}
	if dir := filepath.Dir(expanded); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(expanded, []byte(DXToolsTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
