package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/austinhartzheim/haptik/haproxy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Socket != haproxy.DefaultSocketPath {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.Timeout.Duration != haproxy.DefaultTimeout {
		t.Errorf("Timeout = %s", cfg.Timeout.Duration)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestConfigPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := defaultConfigFile(); got != "/xdg/haptik/config.toml" {
		t.Errorf("defaultConfigFile() = %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/ops")
	if got := defaultConfigFile(); got != "/home/ops/.config/haptik/config.toml" {
		t.Errorf("defaultConfigFile() without XDG = %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `socket = "/run/haproxy/admin.sock"
address = "127.0.0.1:9999"
timeout = "750ms"
output = "json"
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := config{
		Socket:   "/run/haproxy/admin.sock",
		Address:  "127.0.0.1:9999",
		Timeout:  duration{750 * time.Millisecond},
		Output:   outputJSON,
		LogLevel: "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("output = \"yaml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := defaultConfig()
	want.Output = outputYAML
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := loadConfig(path, true); err == nil {
		t.Error("required missing file should fail")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":   "socket = \n",
		"duration": "timeout = \"forever\"\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := loadConfig(path, false)
			if err == nil || !strings.Contains(err.Error(), "parsing config") {
				t.Errorf("loadConfig() = %v, want parse error", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HAPTIK_SOCKET", "/env.sock")
	t.Setenv("HAPTIK_ADDRESS", "10.0.0.1:9999")
	t.Setenv("HAPTIK_TIMEOUT", "1m")
	t.Setenv("HAPTIK_OUTPUT", "yaml")
	t.Setenv("HAPTIK_LOG_LEVEL", "error")

	cfg := defaultConfig()
	if err := applyEnv(&cfg); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	want := config{
		Socket:   "/env.sock",
		Address:  "10.0.0.1:9999",
		Timeout:  duration{time.Minute},
		Output:   outputYAML,
		LogLevel: "error",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("HAPTIK_TIMEOUT", "soon")
	if err := applyEnv(&cfg); err == nil || !strings.Contains(err.Error(), "HAPTIK_TIMEOUT") {
		t.Errorf("applyEnv() = %v, want HAPTIK_TIMEOUT error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config)
		errSub string
	}{
		{"output", func(c *config) { c.Output = "xml" }, "output format"},
		{"zero timeout", func(c *config) { c.Timeout.Duration = 0 }, "timeout"},
		{"log level", func(c *config) { c.LogLevel = "chatty" }, "log level"},
		{"no target", func(c *config) { c.Socket = " " }, "no socket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			err := cfg.validate()
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.errSub)
			}
		})
	}

	cfg := defaultConfig()
	cfg.Socket = ""
	cfg.Address = "127.0.0.1:9999"
	if err := cfg.validate(); err != nil {
		t.Errorf("address without socket should validate: %v", err)
	}
}

func TestTarget(t *testing.T) {
	cfg := defaultConfig()
	if cfg.target() != haproxy.DefaultSocketPath {
		t.Errorf("target() = %q", cfg.target())
	}
	cfg.Address = "127.0.0.1:9999"
	if cfg.target() != "tcp 127.0.0.1:9999" {
		t.Errorf("target() = %q", cfg.target())
	}
}
