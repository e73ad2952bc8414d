package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHostURL_Default(t *testing.T) {
	os.Unsetenv(EnvHostURL)
	os.Setenv(EnvDataDir, t.TempDir())
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HostURL() != DefaultHostURL {
		t.Errorf("default HostURL = %q, want %q", cfg.HostURL(), DefaultHostURL)
	}
}

func TestHostURL_FromEnv(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvHostURL, "http://127.0.0.1:9999")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvHostURL)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HostURL() != "http://127.0.0.1:9999" {
		t.Errorf("HostURL = %q, want %q", cfg.HostURL(), "http://127.0.0.1:9999")
	}
}

func TestPort_Invalid(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvPort, "not-a-port")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestFileConfig_Applied(t *testing.T) {
	dataDir := t.TempDir()
	os.Setenv(EnvDataDir, dataDir)
	defer os.Unsetenv(EnvDataDir)

	yaml := "port: 9001\nlog_level: debug\nstub_host: true\n"
	if err := os.WriteFile(filepath.Join(dataDir, ConfigFilename), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9001 {
		t.Errorf("Port = %d, want 9001", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
	if !cfg.StubHost() {
		t.Error("StubHost = false, want true")
	}
}

func TestFileConfig_EnvWins(t *testing.T) {
	dataDir := t.TempDir()
	os.Setenv(EnvDataDir, dataDir)
	os.Setenv(EnvPort, "9002")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	if err := os.WriteFile(filepath.Join(dataDir, ConfigFilename), []byte("port: 9001\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9002 {
		t.Errorf("Port = %d, want 9002 (env should override file)", cfg.Port())
	}
}

func TestFileConfig_Malformed(t *testing.T) {
	dataDir := t.TempDir()
	os.Setenv(EnvDataDir, dataDir)
	defer os.Unsetenv(EnvDataDir)

	if err := os.WriteFile(filepath.Join(dataDir, ConfigFilename), []byte(":\tnot yaml"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := New(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestDBPath(t *testing.T) {
	dataDir := t.TempDir()
	os.Setenv(EnvDataDir, dataDir)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dataDir, DBFilename)
	if cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}
}
