package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/appshell/internal/shared/paths"
)

// Config holds all shell configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Shell     ShellConfig     `toml:"shell"`
	Runtime   RuntimeConfig   `toml:"runtime"`
	Browser   BrowserConfig   `toml:"browser"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig holds the loopback HTTP server configuration.
type ServerConfig struct {
	Port         string   `envconfig:"APPSHELL_PORT" default:"8123" toml:"port"`
	Host         string   `envconfig:"APPSHELL_HOST" default:"127.0.0.1" toml:"host"`
	ContentDir   string   `envconfig:"APPSHELL_CONTENT_DIR" default:"www" toml:"content_dir"`
	AllowOrigins []string `envconfig:"APPSHELL_ALLOW_ORIGINS" default:"http://127.0.0.1,http://localhost" toml:"allow_origins"`
}

// ShellConfig holds application identity and on-disk locations.
type ShellConfig struct {
	AppName           string `envconfig:"APPSHELL_APP_NAME" default:"Brackets" toml:"app_name"`
	SupportDir        string `envconfig:"APPSHELL_SUPPORT_DIR" toml:"support_dir"`
	StatePath         string `envconfig:"APPSHELL_STATE_PATH" toml:"state_path"`
	MenuFile          string `envconfig:"APPSHELL_MENU_FILE" toml:"menu_file"`
	Language          string `envconfig:"APPSHELL_LANGUAGE" toml:"language"`
	CommandLineName   string `envconfig:"APPSHELL_CL_NAME" default:"brackets" toml:"command_line_name"`
	CommandLineTarget string `envconfig:"APPSHELL_CL_TARGET" toml:"command_line_target"`
}

// RuntimeConfig holds the auxiliary runtime configuration.
type RuntimeConfig struct {
	Enabled    bool   `envconfig:"APPSHELL_RUNTIME_ENABLED" default:"true" toml:"enabled"`
	Executable string `envconfig:"APPSHELL_RUNTIME_EXECUTABLE" default:"node" toml:"executable"`
	Script     string `envconfig:"APPSHELL_RUNTIME_SCRIPT" default:"node-core/Server.js" toml:"script"`
}

// BrowserConfig holds live preview browser configuration.
type BrowserConfig struct {
	RemoteDebuggingPort int           `envconfig:"APPSHELL_REMOTE_DEBUGGING_PORT" default:"9222" toml:"remote_debugging_port"`
	ProbeTimeout        time.Duration `envconfig:"APPSHELL_BROWSER_PROBE_TIMEOUT" default:"10s" toml:"probe_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"APPSHELL_LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"APPSHELL_LOG_DEV" default:"false" toml:"development"`
	File        string `envconfig:"APPSHELL_LOG_FILE" toml:"file"`
}

// RateLimitConfig holds rate limiting configuration for HTTP endpoints.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"APPSHELL_RATE_LIMIT_RPS" default:"200" toml:"requests_per_second"`
	Burst             int  `envconfig:"APPSHELL_RATE_LIMIT_BURST" default:"400" toml:"burst"`
	Enabled           bool `envconfig:"APPSHELL_RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads environment configuration and applies a TOML file on top.
// Keys missing from the file keep their environment or default values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8123",
			Host:         "127.0.0.1",
			ContentDir:   "www",
			AllowOrigins: []string{"http://127.0.0.1", "http://localhost"},
		},
		Shell: ShellConfig{
			AppName:         "Brackets",
			CommandLineName: "brackets",
		},
		Runtime: RuntimeConfig{
			Enabled:    true,
			Executable: "node",
			Script:     "node-core/Server.js",
		},
		Browser: BrowserConfig{
			RemoteDebuggingPort: 9222,
			ProbeTimeout:        10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 200,
			Burst:             400,
			Enabled:           true,
		},
	}
}

// Resolve fills in locations derived from the application name.
func (c *Config) Resolve() error {
	if c.Shell.SupportDir == "" {
		dir, err := paths.SupportDir(c.Shell.AppName)
		if err != nil {
			return err
		}
		c.Shell.SupportDir = dir
	}
	if c.Shell.StatePath == "" {
		c.Shell.StatePath = filepath.Join(c.Shell.SupportDir, paths.StateFile)
	}
	if !filepath.IsAbs(c.Server.ContentDir) {
		abs, err := filepath.Abs(c.Server.ContentDir)
		if err != nil {
			return fmt.Errorf("failed to resolve content dir: %w", err)
		}
		c.Server.ContentDir = abs
	}
	return nil
}

// Addr returns the server listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
