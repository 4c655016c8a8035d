// =============================================================================
// config.go - Configuration File, Environment and Defaults
// =============================================================================
//
// Settings are resolved in increasing priority:
//
//	built-in defaults < config.toml < HAPTIK_* environment < command-line flags
//
// The config file lives at $XDG_CONFIG_HOME/haptik/config.toml (falling back
// to ~/.config/haptik/config.toml). A missing file is not an error.
//
// =============================================================================

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/austinhartzheim/haptik/haproxy"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// config holds the resolved settings for one invocation.
type config struct {
	Socket   string   `toml:"socket"`
	Address  string   `toml:"address"`
	Timeout  duration `toml:"timeout"`
	Output   string   `toml:"output"`
	LogLevel string   `toml:"log_level"`
}

// duration lets the config file spell timeouts as Go duration strings.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func defaultConfig() config {
	return config{
		Socket:   haproxy.DefaultSocketPath,
		Timeout:  duration{haproxy.DefaultTimeout},
		Output:   outputText,
		LogLevel: "warn",
	}
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

// configDir returns $XDG_CONFIG_HOME/haptik.
func configDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "haptik")
	}
	return filepath.Join(homeDir(), ".config", "haptik")
}

// defaultConfigFile returns the path to config.toml.
func defaultConfigFile() string {
	return filepath.Join(configDir(), "config.toml")
}

// loadConfig layers the config file at path over the defaults. A missing
// file yields the defaults unless required is set, which is the case when
// the user named the file explicitly.
func loadConfig(path string, required bool) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with any HAPTIK_* variables that are set.
func applyEnv(cfg *config) error {
	if v := os.Getenv("HAPTIK_SOCKET"); v != "" {
		cfg.Socket = v
	}
	if v := os.Getenv("HAPTIK_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("HAPTIK_TIMEOUT"); v != "" {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("HAPTIK_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("HAPTIK_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("HAPTIK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

func (c config) validate() error {
	switch c.Output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", c.Output)
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration)
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Address == "" && strings.TrimSpace(c.Socket) == "" {
		return fmt.Errorf("no socket path or address configured")
	}
	return nil
}

// target describes where commands will be sent, for messages.
func (c config) target() string {
	if c.Address != "" {
		return "tcp " + c.Address
	}
	return c.Socket
}
