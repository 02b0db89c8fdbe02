package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"absolute path", "/foo/bar", "/foo/bar"},
		{"relative path", "foo/bar", "foo/bar"},
		{"tilde only", "~", home},
		{"tilde with path", "~/foo/bar", home + "/foo/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "testvalue")
	os.Setenv("ANOTHER_VAR", "another")
	defer os.Unsetenv("TEST_VAR")
	defer os.Unsetenv("ANOTHER_VAR")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no vars", "plain text", "plain text"},
		{"single var", "${TEST_VAR}", "testvalue"},
		{"var in text", "prefix-${TEST_VAR}-suffix", "prefix-testvalue-suffix"},
		{"multiple vars", "${TEST_VAR}:${ANOTHER_VAR}", "testvalue:another"},
		{"missing var", "${NONEXISTENT}", ""},
		{"default value", "${NONEXISTENT:-default}", "default"},
		{"default with set var", "${TEST_VAR:-default}", "testvalue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandEnvVars(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestReadFromFile(t *testing.T) {
	// Create a temp file
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "secret")
	if err := os.WriteFile(testFile, []byte("secret-value\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Test reading the file
	value, err := ReadFromFile(testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "secret-value" {
		t.Errorf("expected %q, got %q", "secret-value", value)
	}

	// Test reading non-existent file
	_, err = ReadFromFile(filepath.Join(tmpDir, "nonexistent"))
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

// legacyConfig is a dxtools.conf as written by older tooling: JSON with
// quoted booleans and ports.
const legacyConfig = `{
    "data": [
        {
            "hostname": "landsharkengine",
            "ip_address": "172.16.169.146",
            "username": "delphix_admin",
            "password": "delphix",
            "port": "80",
            "default": "true",
            "encrypted": "false",
            "use_https": "false"
        },
        {
            "hostname": "secure",
            "ip_address": "10.0.1.20",
            "username": "admin",
            "password": "${DXENV_TEST_SECURE_PW:-fallback}",
            "default": false,
            "use_https": true
        }
    ]
}`

func TestParseLegacyJSON(t *testing.T) {
	cfg, err := Parse([]byte(legacyConfig))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if len(cfg.Engines) != 2 {
		t.Fatalf("expected 2 engines, got %d", len(cfg.Engines))
	}

	land := cfg.Engines[0]
	if land.Port != 80 {
		t.Errorf("Port = %d, want 80", land.Port)
	}
	if !land.Default {
		t.Error("expected landsharkengine to be default")
	}
	if land.UseHTTPS {
		t.Error("expected use_https false")
	}
	if land.Domain != "DOMAIN" {
		t.Errorf("Domain = %q, want DOMAIN", land.Domain)
	}
	if got := land.URL(); got != "http://172.16.169.146:80" {
		t.Errorf("URL() = %q", got)
	}

	secure := cfg.Engines[1]
	if secure.Port != DefaultHTTPSPort {
		t.Errorf("Port = %d, want %d", secure.Port, DefaultHTTPSPort)
	}
	if secure.Password != "fallback" {
		t.Errorf("Password = %q, want fallback", secure.Password)
	}
	if got := secure.URL(); got != "https://10.0.1.20:443" {
		t.Errorf("URL() = %q", got)
	}
}

func TestParseYAML(t *testing.T) {
	t.Setenv("DXENV_TEST_PW", "from-env")

	data := `
data:
  - hostname: eng1
    ip_address: 10.0.0.1
    username: admin
    password: ${DXENV_TEST_PW}
    port: 8080
    default: yes-not-a-bool
`
	_, err := Parse([]byte(data))
	if err == nil {
		t.Fatal("expected error for invalid boolean")
	}

	data = `
data:
  - hostname: eng1
    ip_address: 10.0.0.1
    username: admin
    password: ${DXENV_TEST_PW}
    port: 8080
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Engines[0].Password != "from-env" {
		t.Errorf("Password = %q, want from-env", cfg.Engines[0].Password)
	}
	if cfg.Engines[0].Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Engines[0].Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"no engines", `{"data": []}`, "no engines configured"},
		{"missing hostname", `{"data": [{"ip_address": "1.1.1.1", "username": "u"}]}`, "hostname is required"},
		{"missing address", `{"data": [{"hostname": "a", "username": "u"}]}`, "ip_address is required"},
		{"missing username", `{"data": [{"hostname": "a", "ip_address": "1.1.1.1"}]}`, "username is required"},
		{"duplicate", `{"data": [{"hostname": "a", "ip_address": "1", "username": "u"}, {"hostname": "a", "ip_address": "2", "username": "u"}]}`, "duplicate hostname"},
		{"bad port", `{"data": [{"hostname": "a", "ip_address": "1", "username": "u", "port": 70000}]}`, "out of range"},
		{"port not a number", `{"data": [{"hostname": "a", "ip_address": "1", "username": "u", "port": "http"}]}`, "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "dxtools.conf"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !strings.Contains(err.Error(), "config init") {
			t.Errorf("expected hint to run config init, got %q", err.Error())
		}
	})

	t.Run("password file relative to config", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "engine.pw"), []byte("s3cret\n"), 0600); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "dxtools.conf")
		data := `{"data": [{"hostname": "e", "ip_address": "1.2.3.4", "username": "u", "password_file": "engine.pw"}]}`
		if err := os.WriteFile(path, []byte(data), 0600); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Path != path {
			t.Errorf("Path = %q, want %q", cfg.Path, path)
		}
		if cfg.Engines[0].Password != "s3cret" {
			t.Errorf("Password = %q, want s3cret", cfg.Engines[0].Password)
		}
	})
}

func TestSelect(t *testing.T) {
	cfg, err := Parse([]byte(`{"data": [
		{"hostname": "a", "ip_address": "1", "username": "u"},
		{"hostname": "b", "ip_address": "2", "username": "u", "default": "true"},
		{"hostname": "c", "ip_address": "3", "username": "u", "default": true}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    SelectOptions
		want    []string
		wantErr error
	}{
		{"all", SelectOptions{All: true}, []string{"a", "b", "c"}, nil},
		{"named", SelectOptions{Engine: "a"}, []string{"a"}, nil},
		{"defaults", SelectOptions{}, []string{"b", "c"}, nil},
		{"unknown", SelectOptions{Engine: "z"}, nil, ErrEngineNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.Select(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if names := Hostnames(got); strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("selected %v, want %v", names, tt.want)
			}
		})
	}
}

func TestSelectWithoutDefault(t *testing.T) {
	single, _ := Parse([]byte(`{"data": [{"hostname": "only", "ip_address": "1", "username": "u"}]}`))
	got, err := single.Select(SelectOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Hostname != "only" {
		t.Errorf("expected the single engine, got %v", Hostnames(got))
	}

	multi, _ := Parse([]byte(`{"data": [
		{"hostname": "a", "ip_address": "1", "username": "u"},
		{"hostname": "b", "ip_address": "2", "username": "u"}
	]}`))
	if _, err := multi.Select(SelectOptions{}); !errors.Is(err, ErrNoDefaultEngine) {
		t.Errorf("expected ErrNoDefaultEngine, got %v", err)
	}
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "dxtools.conf")
	t.Setenv("DXENV_LANDSHARK_PASSWORD", "pw")

	if err := WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate() failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Engines[0].Hostname != "landsharkengine" || cfg.Engines[0].Password != "pw" {
		t.Errorf("unexpected engine from template: %+v", cfg.Engines[0])
	}

	if err := WriteTemplate(path); err == nil {
		t.Error("expected error when the file already exists")
	}
}
