package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional viewcap.yaml in the data directory.
// Missing keys keep their current values.
type fileConfig struct {
	Port      *int    `yaml:"port"`
	LogLevel  *string `yaml:"log_level"`
	HostURL   *string `yaml:"host_url"`
	HostToken *string `yaml:"host_token"`
	Headless  *bool   `yaml:"headless"`
	StubHost  *bool   `yaml:"stub_host"`
}

func (c *EnvConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Port != nil {
		if *fc.Port < 1 || *fc.Port > 65535 {
			return fmt.Errorf("invalid port in %s: must be between 1 and 65535", path)
		}
		c.port = *fc.Port
	}
	if fc.LogLevel != nil {
		c.logLevel = *fc.LogLevel
	}
	if fc.HostURL != nil {
		c.hostURL = *fc.HostURL
	}
	if fc.HostToken != nil {
		c.hostToken = *fc.HostToken
	}
	if fc.Headless != nil {
		c.headless = *fc.Headless
	}
	if fc.StubHost != nil {
		c.stubHost = *fc.StubHost
	}

	return nil
}
