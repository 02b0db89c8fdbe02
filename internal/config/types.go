package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File represents the engine configuration loaded from dxtools.conf.
// The file is usually JSON; YAML is accepted as well.
type File struct {
	Engines []Engine `yaml:"data"`

	// Path is where the file was loaded from.
	Path string `yaml:"-"`
}

// Engine describes one Delphix engine and the credentials used to reach it.
type Engine struct {
	Hostname  string `yaml:"hostname"`
	IPAddress string `yaml:"ip_address"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`

	// PasswordFile is read when Password is empty.
	PasswordFile string `yaml:"password_file"`

	Port               Port   `yaml:"port"`
	Default            Flag   `yaml:"default"`
	UseHTTPS           Flag   `yaml:"use_https"`
	InsecureSkipVerify Flag   `yaml:"insecure_skip_verify"`
	Domain             string `yaml:"domain"`
}

// URL returns the base URL of the engine's API.
func (e Engine) URL() string {
	scheme := "http"
	if e.UseHTTPS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(e.IPAddress, strconv.Itoa(int(e.Port))))
}

// Flag is a boolean that also accepts the strings "true"/"false", which is
// how dxtools.conf historically spells booleans.
type Flag bool

// UnmarshalYAML implements custom unmarshaling for Flag to handle both
// boolean and string values.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*f = false
		return nil
	}
	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid boolean %q", value.Line, s)
	}
	*f = Flag(parsed)
	return nil
}

// Port is a TCP port that also accepts a quoted number.
type Port int

// UnmarshalYAML implements custom unmarshaling for Port to handle both
// integer and string values.
func (p *Port) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*p = Port(n)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid port %q", value.Line, s)
	}
	*p = Port(n)
	return nil
}

// SelectOptions chooses which engines a command runs against.
type SelectOptions struct {
	// Engine selects a single engine by hostname.
	Engine string

	// All selects every configured engine.
	All bool
}
