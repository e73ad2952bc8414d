// Package config provides configuration management for the Viewcap Agent.
// Defaults are overridden by an optional viewcap.yaml file in the data
// directory, and environment variables override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort     = 8790
	DefaultLogLevel = "info"
	DefaultDataDir  = ".viewcap"
	DefaultHostURL  = "http://127.0.0.1:8722"

	// Environment variable names
	EnvPort      = "VIEWCAP_PORT"
	EnvLogLevel  = "VIEWCAP_LOG_LEVEL"
	EnvDataDir   = "VIEWCAP_DATA_DIR"
	EnvHostURL   = "VIEWCAP_HOST_URL"
	EnvHostToken = "VIEWCAP_HOST_TOKEN"
	EnvHeadless  = "VIEWCAP_HEADLESS"
	EnvStubHost  = "VIEWCAP_STUB_HOST"

	// Database filename
	DBFilename = "viewcap.db"

	// Config filename inside the data directory
	ConfigFilename = "viewcap.yaml"

	// Host bridge defaults
	DefaultHostTimeout = 60 // seconds per bridge call; captures block until done
	DefaultProbeTTL    = 300
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	HostURL() string
	HostToken() string
	HostTimeout() time.Duration
	ProbeTTL() time.Duration
	Headless() bool
	StubHost() bool
}

// EnvConfig reads configuration from the yaml file and environment variables
type EnvConfig struct {
	port      int
	logLevel  string
	dataDir   string
	hostURL   string
	hostToken string
	headless  bool
	stubHost  bool
}

// New creates a new EnvConfig with defaults, file and environment overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
		hostURL:  DefaultHostURL,
	}

	// The data dir env var decides where the config file lives, so it is
	// resolved before the file is read.
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.applyFile(filepath.Join(cfg.dataDir, ConfigFilename)); err != nil {
		return nil, err
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if hu := os.Getenv(EnvHostURL); hu != "" {
		cfg.hostURL = hu
	}

	if ht := os.Getenv(EnvHostToken); ht != "" {
		cfg.hostToken = ht
	}

	if os.Getenv(EnvHeadless) == "1" || os.Getenv(EnvHeadless) == "true" {
		cfg.headless = true
	}

	if os.Getenv(EnvStubHost) == "1" || os.Getenv(EnvStubHost) == "true" {
		cfg.stubHost = true
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// HostURL returns the base URL of the host application bridge
func (c *EnvConfig) HostURL() string {
	return c.hostURL
}

// HostToken returns the bearer token for the host bridge, if any
func (c *EnvConfig) HostToken() string {
	return c.hostToken
}

func (c *EnvConfig) HostTimeout() time.Duration {
	return time.Duration(DefaultHostTimeout) * time.Second
}

func (c *EnvConfig) ProbeTTL() time.Duration {
	return time.Duration(DefaultProbeTTL) * time.Second
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// StubHost reports whether the in-memory host stub replaces the bridge
func (c *EnvConfig) StubHost() bool {
	return c.stubHost
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
